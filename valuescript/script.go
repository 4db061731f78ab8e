package valuescript

import (
	"bytes"

	"github.com/decred/dcrd/txscript/v4"
)

// DefaultScriptVersion is the only script version this toy chain's
// consensus rules currently define.
const DefaultScriptVersion = uint16(0)

// ClassifyScript reports the standard template a script matches, the way
// FetchInputInfo classifies a wallet output in the teacher codebase.
func ClassifyScript(scriptVersion uint16, pkScript []byte) txscript.ScriptClass {
	return txscript.GetScriptClass(scriptVersion, pkScript, false)
}

// Standard reports whether the given script class is one of the
// templates this core accepts on a pledge or project output: pay-to-
// address (pubkey-hash), pay-to-pubkey, or multisig. Anything else
// (including null-data, script-hash, or an unparsable script) is
// non-standard.
func Standard(class txscript.ScriptClass) bool {
	switch class {
	case txscript.PubKeyHashTy, txscript.PubKeyTy, txscript.MultiSigTy:
		return true
	default:
		return false
	}
}

// ScriptsEqual does a bytewise comparison of two output scripts, the
// comparison spec.md's pledge verifier requires when matching a pledge's
// outputs against a project's declared outputs.
func ScriptsEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}
