package pledge_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/txscript/v4/stdaddr"
	"github.com/pledgeforge/contractcore/internal/mockchain"
	"github.com/pledgeforge/contractcore/pledge"
	"github.com/pledgeforge/contractcore/project"
	"github.com/pledgeforge/contractcore/sigengine"
	"github.com/pledgeforge/contractcore/txmodel"
	"github.com/pledgeforge/contractcore/valuescript"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	proj      *project.Descriptor
	oracle    *mockchain.Oracle
	stubPriv  *secp256k1.PrivateKey
	stubOut   txmodel.Output
	stubPoint txmodel.OutPoint
}

func newFixture(t *testing.T, goalAtoms int64) *fixture {
	t.Helper()
	params := chaincfg.SimNetParams()

	destPriv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	destAddr, err := stdaddr.NewAddressPubKeyEcdsaSecp256k1V0Raw(destPriv.PubKey().SerializeCompressed(), params)
	require.NoError(t, err)

	authPriv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	goal, err := valuescript.NewAmount(goalAtoms)
	require.NoError(t, err)

	proj, err := project.New("Fixture Project", "memo", destAddr.AddressPubKeyHash(), goal, authPriv.PubKey(), 0, 1_700_000_000)
	require.NoError(t, err)

	stubPriv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	stubAddr, err := stdaddr.NewAddressPubKeyEcdsaSecp256k1V0Raw(stubPriv.PubKey().SerializeCompressed(), params)
	require.NoError(t, err)
	stubVersion, stubScript := stubAddr.AddressPubKeyHash().PaymentScript()

	oracle := mockchain.NewOracle()
	stubPoint := txmodel.OutPoint{Hash: chainhash.Hash{0xaa, 0xbb}, Index: 0}
	return &fixture{
		proj:      proj,
		oracle:    oracle,
		stubPriv:  stubPriv,
		stubOut:   txmodel.Output{Amount: 0, Script: stubScript, Version: stubVersion},
		stubPoint: stubPoint,
	}
}

// buildPledge builds a pledge message spending f.stubPoint (after
// registering stubValue on the oracle) into proj's required outputs,
// signed append-permitted, with declaredValue as the message's
// total_input_value (letting callers deliberately mismatch it).
func (f *fixture) buildPledge(t *testing.T, stubValue, declaredValue int64, outputs []txmodel.Output) *pledge.Message {
	t.Helper()
	out := f.stubOut
	out.Amount = stubValue
	f.oracle.Add(f.stubPoint, out)

	b := txmodel.NewBuilder(1)
	b.AddInput(f.stubPoint, out, nil, 0xffffffff)
	for _, o := range outputs {
		b.AddOutput(o.Amount, o.Script, o.Version)
	}

	sigScript, err := sigengine.SignatureScript(b.MsgTx(), 0, out.Script, sigengine.PolicyAllAppendPermitted, f.stubPriv)
	require.NoError(t, err)
	b.SetInputScript(0, sigScript)

	tx := b.Finish()
	raw, err := tx.Serialize()
	require.NoError(t, err)

	projectID, err := f.proj.ID()
	require.NoError(t, err)

	return &pledge.Message{
		Transactions:    [][]byte{raw},
		TotalInputValue: declaredValue,
		Timestamp:       1_700_000_100,
		ProjectID:       projectID,
	}
}

func TestVerifyS1HappyPath(t *testing.T) {
	f := newFixture(t, 100_000_000)
	msg := f.buildPledge(t, 10_000_000, 10_000_000, f.proj.Outputs())

	vp, err := pledge.Verify(context.Background(), msg, f.proj, f.oracle)
	require.NoError(t, err)
	require.Equal(t, int64(10_000_000), vp.AuthoritativeValue)
}

func TestVerifyS2UnknownUTXO(t *testing.T) {
	f := newFixture(t, 100_000_000)
	msg := f.buildPledge(t, 10_000_000, 10_000_000, f.proj.Outputs())
	f.oracle.Remove(f.stubPoint)

	_, err := pledge.Verify(context.Background(), msg, f.proj, f.oracle)
	requireKind(t, err, pledge.UnknownUTXO)
}

func TestVerifyS3DeclaredValueTampering(t *testing.T) {
	f := newFixture(t, 100_000_000)
	msg := f.buildPledge(t, 10_000_000, 20_000_000, f.proj.Outputs())

	_, err := pledge.Verify(context.Background(), msg, f.proj, f.oracle)
	requireKind(t, err, pledge.CachedValueMismatch)
}

func TestVerifyS4OutputTampering(t *testing.T) {
	f := newFixture(t, 100_000_000)
	msg := f.buildPledge(t, 10_000_000, 10_000_000, f.proj.Outputs())

	tx, err := msg.PledgeTx()
	require.NoError(t, err)
	mutated := tx.MsgTx().Copy()
	mutated.TxOut[0].Value = 100
	var buf bytes.Buffer
	require.NoError(t, mutated.Serialize(&buf))
	msg.Transactions = [][]byte{buf.Bytes()}

	_, err = pledge.Verify(context.Background(), msg, f.proj, f.oracle)
	requireKind(t, err, pledge.OutputMismatch)
}

func TestVerifyS5ExtraProjectOutput(t *testing.T) {
	f := newFixture(t, 100_000_000)
	// Sign against only the project's original single output...
	msg := f.buildPledge(t, 10_000_000, 10_000_000, f.proj.Outputs())

	// ...but verify against a project that now requires two.
	extra := append([]txmodel.Output(nil), f.proj.Outputs()...)
	extra = append(extra, txmodel.Output{Amount: 1000, Script: f.stubOut.Script, Version: f.stubOut.Version})
	authKey, err := f.proj.AuthKey()
	require.NoError(t, err)
	biggerProj, err := project.NewMultiOutput("Fixture Project", "memo", extra, authKey, 0, 1_700_000_000)
	require.NoError(t, err)

	_, err = pledge.Verify(context.Background(), msg, biggerProj, f.oracle)
	requireKind(t, err, pledge.TxWrongNumberOfOutputs)
}

func TestVerifyS6DuplicatedOutPoint(t *testing.T) {
	f := newFixture(t, 100_000_000)
	out := f.stubOut
	out.Amount = 10_000_000
	f.oracle.Add(f.stubPoint, out)

	b := txmodel.NewBuilder(1)
	b.AddInput(f.stubPoint, out, nil, 0xffffffff)
	b.AddInput(f.stubPoint, out, nil, 0xffffffff)
	for _, o := range f.proj.Outputs() {
		b.AddOutput(o.Amount, o.Script, o.Version)
	}
	tx := b.Finish()
	raw, err := tx.Serialize()
	require.NoError(t, err)

	_, err = pledge.FastSanityCheck(&pledge.Message{Transactions: [][]byte{raw}}, f.proj)
	requireKind(t, err, pledge.DuplicatedOutPoint)
}

func TestVerifyS7DummySignature(t *testing.T) {
	f := newFixture(t, 100_000_000)
	out := f.stubOut
	out.Amount = 10_000_000
	f.oracle.Add(f.stubPoint, out)

	b := txmodel.NewBuilder(1)
	b.AddInput(f.stubPoint, out, []byte{0x00}, 0xffffffff)
	for _, o := range f.proj.Outputs() {
		b.AddOutput(o.Amount, o.Script, o.Version)
	}
	tx := b.Finish()
	raw, err := tx.Serialize()
	require.NoError(t, err)

	projectID, err := f.proj.ID()
	require.NoError(t, err)
	msg := &pledge.Message{
		Transactions:    [][]byte{raw},
		TotalInputValue: 10_000_000,
		ProjectID:       projectID,
	}

	_, err = pledge.Verify(context.Background(), msg, f.proj, f.oracle)
	requireKind(t, err, pledge.ScriptError)
}

func requireKind(t *testing.T, err error, kind pledge.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	ve, ok := err.(*pledge.VerifyError)
	require.Truef(t, ok, "expected *pledge.VerifyError, got %T: %v", err, err)
	require.Equal(t, kind, ve.Kind)
}
