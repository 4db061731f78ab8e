package sigengine

import (
	"testing"

	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/txscript/v4/stdaddr"
	"github.com/pledgeforge/contractcore/txmodel"
	"github.com/stretchr/testify/require"
)

func newP2PKH(t *testing.T) (*secp256k1.PrivateKey, uint16, []byte) {
	t.Helper()
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	pubAddr, err := stdaddr.NewAddressPubKeyEcdsaSecp256k1V0Raw(
		priv.PubKey().SerializeCompressed(), chaincfg.SimNetParams())
	require.NoError(t, err)
	version, script := pubAddr.AddressPubKeyHash().PaymentScript()
	return priv, version, script
}

func buildSingleInputTx(t *testing.T, prevVersion uint16, prevScript []byte, prevValue int64) *txmodel.Builder {
	t.Helper()
	b := txmodel.NewBuilder(1)
	prevOut := txmodel.OutPoint{Index: 0}
	b.AddInput(prevOut, txmodel.Output{Amount: prevValue, Script: prevScript, Version: prevVersion}, nil, 0xffffffff)
	b.AddOutput(prevValue-1000, prevScript, prevVersion)
	return b
}

func TestSignAndVerifyAppendPermitted(t *testing.T) {
	priv, version, script := newP2PKH(t)
	b := buildSingleInputTx(t, version, script, 100_000)

	sigScript, err := SignatureScript(b.MsgTx(), 0, script, PolicyAllAppendPermitted, priv)
	require.NoError(t, err)
	b.SetInputScript(0, sigScript)

	tx := b.Finish()
	err = Verify(tx.MsgTx(), 0, version, script, 100_000, PolicyAllAppendPermitted)
	require.NoError(t, err)
}

func TestAppendPermittedSurvivesExtraInput(t *testing.T) {
	priv, version, script := newP2PKH(t)
	b := buildSingleInputTx(t, version, script, 100_000)

	sigScript, err := SignatureScript(b.MsgTx(), 0, script, PolicyAllAppendPermitted, priv)
	require.NoError(t, err)
	b.SetInputScript(0, sigScript)

	// Append a second, unrelated input after signing input 0. Under
	// AnyOneCanPay the first input's signature never committed to the
	// input set, so it must still verify.
	otherPriv, otherVersion, otherScript := newP2PKH(t)
	otherOut := txmodel.OutPoint{Index: 1}
	b.AddInput(otherOut, txmodel.Output{Amount: 50_000, Script: otherScript, Version: otherVersion}, nil, 0xffffffff)

	tx := b.Finish()
	err = Verify(tx.MsgTx(), 0, version, script, 100_000, PolicyAllAppendPermitted)
	require.NoError(t, err, "appending an input must not invalidate an AnyOneCanPay signature")

	_ = otherPriv
}

func TestWrongPolicyByteRejected(t *testing.T) {
	priv, version, script := newP2PKH(t)
	b := buildSingleInputTx(t, version, script, 100_000)

	// Signed under plain ALL, but verified against the append-permitted
	// policy: the embedded sighash byte won't match.
	sigScript, err := SignatureScript(b.MsgTx(), 0, script, PolicyAll, priv)
	require.NoError(t, err)
	b.SetInputScript(0, sigScript)

	tx := b.Finish()
	err = Verify(tx.MsgTx(), 0, version, script, 100_000, PolicyAllAppendPermitted)
	require.Error(t, err)
	require.IsType(t, &ScriptError{}, err)
}

func TestDummySignatureRejected(t *testing.T) {
	_, version, script := newP2PKH(t)
	b := buildSingleInputTx(t, version, script, 100_000)
	b.SetInputScript(0, []byte{0x00})

	tx := b.Finish()
	err := Verify(tx.MsgTx(), 0, version, script, 100_000, PolicyAllAppendPermitted)
	require.Error(t, err)
}
