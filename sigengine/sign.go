package sigengine

import (
	"fmt"

	"github.com/decred/dcrd/dcrec"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v3/ecdsa"
	"github.com/decred/dcrd/txscript/v4/sign"
	"github.com/decred/dcrd/wire"
)

// Sign produces a raw signature (without the trailing sighash byte) for
// input idx of tx, committing to subScript under the given policy. This
// mirrors DcrWallet.SignOutputRaw in the teacher codebase.
func Sign(tx *wire.MsgTx, idx int, subScript []byte, policy Policy,
	privKey *secp256k1.PrivateKey) (*ecdsa.Signature, error) {

	sig, err := sign.RawTxInSignature(
		tx, idx, subScript, policy.SigHashType(), privKey.Serialize(),
		dcrec.STEcdsaSecp256k1,
	)
	if err != nil {
		return nil, fmt.Errorf("signing input %d: %w", idx, err)
	}

	// The last byte is the sighash type; the engine re-attaches it when
	// building the final signature script.
	return ecdsa.ParseDERSignature(sig[:len(sig)-1])
}

// SignatureScript produces a complete pay-to-pubkey-hash signature script
// for input idx of tx, committing to prevScript under the given policy.
// This mirrors DcrWallet.ComputeInputScript.
func SignatureScript(tx *wire.MsgTx, idx int, prevScript []byte, policy Policy,
	privKey *secp256k1.PrivateKey) ([]byte, error) {

	sigScript, err := sign.SignatureScript(
		tx, idx, prevScript, policy.SigHashType(), privKey.Serialize(),
		dcrec.STEcdsaSecp256k1, true,
	)
	if err != nil {
		return nil, fmt.Errorf("building signature script for input %d: %w", idx, err)
	}
	return sigScript, nil
}
