// Package sigengine signs and verifies a single transaction input under a
// configurable sighash policy, including the "sign one input, permit
// anyone to append" mode assurance contracts need.
package sigengine

import (
	"github.com/decred/dcrd/txscript/v4"
)

// Policy names a combination of sighash flags this engine supports.
type Policy txscript.SigHashType

const (
	// PolicyAll commits the signature to every input and every output:
	// the ordinary, fully-committing signing mode.
	PolicyAll = Policy(txscript.SigHashAll)

	// PolicyAllAppendPermitted commits the signature to this input and
	// to every output, but leaves the rest of the input set free to be
	// extended, reordered, or replaced without invalidating it. This is
	// the pledge signing mode: it lets independently-signed pledges be
	// combined into one contract transaction later.
	PolicyAllAppendPermitted = Policy(txscript.SigHashAll | txscript.SigHashAnyOneCanPay)
)

// SigHashType exposes the underlying txscript flag combination.
func (p Policy) SigHashType() txscript.SigHashType {
	return txscript.SigHashType(p)
}

// Byte returns the single trailing byte a DER signature embeds to record
// which policy it was produced under.
func (p Policy) Byte() byte {
	return byte(p.SigHashType())
}
