package sigengine

import (
	"fmt"

	"github.com/decred/dcrd/txscript/v4"
	"github.com/decred/dcrd/wire"
)

// ScriptError reports a signature or script-execution failure. It is
// returned instead of a bare error so callers (the pledge verifier, in
// particular) can recognize it as the spec's closed ScriptError kind.
type ScriptError struct {
	InputIndex int
	Reason     string
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script error on input %d: %s", e.InputIndex, e.Reason)
}

// scriptPushes tokenizes a signature script into its individual data
// pushes, the way p2pkhSigScriptToWitness does in the teacher codebase.
func scriptPushes(scriptVersion uint16, sigScript []byte) ([][]byte, error) {
	var data [][]byte
	tokenizer := txscript.MakeScriptTokenizer(scriptVersion, sigScript)
	for tokenizer.Next() {
		data = append(data, tokenizer.Data())
	}
	if err := tokenizer.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// Verify checks that input idx of tx carries a valid signature over
// prevScript under the given script-version and policy, and that the
// signature's embedded sighash byte matches policy exactly. Any mismatch
// or script-execution failure is reported as a *ScriptError, per spec.md
// §4.C/§4.E.
func Verify(tx *wire.MsgTx, idx int, scriptVersion uint16, prevScript []byte,
	prevValue int64, policy Policy) error {

	if idx < 0 || idx >= len(tx.TxIn) {
		return &ScriptError{InputIndex: idx, Reason: "input index out of range"}
	}

	sigScript := tx.TxIn[idx].SignatureScript
	pushes, err := scriptPushes(scriptVersion, sigScript)
	if err != nil || len(pushes) == 0 || len(pushes[0]) == 0 {
		return &ScriptError{InputIndex: idx, Reason: "malformed or missing signature push"}
	}

	// The last byte of the first push (the DER signature) records the
	// sighash type it was produced under. A forged or stale policy byte
	// is rejected here rather than left for the script engine, which
	// would otherwise verify it against the wrong digest.
	sigBytes := pushes[0]
	gotPolicyByte := sigBytes[len(sigBytes)-1]
	if gotPolicyByte != policy.Byte() {
		return &ScriptError{
			InputIndex: idx,
			Reason: fmt.Sprintf(
				"signature sighash byte 0x%x does not match required policy 0x%x",
				gotPolicyByte, policy.Byte(),
			),
		}
	}

	vm, err := txscript.NewEngine(
		scriptVersion, prevScript, tx, idx, txscript.StandardVerifyFlags,
		nil, nil, prevValue,
	)
	if err != nil {
		return &ScriptError{InputIndex: idx, Reason: fmt.Sprintf("building script engine: %v", err)}
	}
	if err := vm.Execute(); err != nil {
		return &ScriptError{InputIndex: idx, Reason: fmt.Sprintf("executing script: %v", err)}
	}

	return nil
}
