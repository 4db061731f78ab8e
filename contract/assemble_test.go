package contract_test

import (
	"context"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/chaincfg/v3"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/decred/dcrd/txscript/v4/stdaddr"
	"github.com/pledgeforge/contractcore/contract"
	"github.com/pledgeforge/contractcore/internal/mockchain"
	"github.com/pledgeforge/contractcore/pledge"
	"github.com/pledgeforge/contractcore/project"
	"github.com/pledgeforge/contractcore/sigengine"
	"github.com/pledgeforge/contractcore/txmodel"
	"github.com/pledgeforge/contractcore/valuescript"
	"github.com/stretchr/testify/require"
)

// makePledge registers a fresh stub of value atoms on oracle and returns
// a verified pledge spending it into proj's required outputs.
func makePledge(t *testing.T, oracle *mockchain.Oracle, proj *project.Descriptor, value int64, seed byte) *pledge.VerifiedPledge {
	t.Helper()
	params := chaincfg.SimNetParams()

	stubPriv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	stubAddr, err := stdaddr.NewAddressPubKeyEcdsaSecp256k1V0Raw(stubPriv.PubKey().SerializeCompressed(), params)
	require.NoError(t, err)
	version, script := stubAddr.AddressPubKeyHash().PaymentScript()

	stubPoint := txmodel.OutPoint{Hash: chainhash.Hash{seed}, Index: 0}
	stubOut := txmodel.Output{Amount: value, Script: script, Version: version}
	oracle.Add(stubPoint, stubOut)

	b := txmodel.NewBuilder(1)
	b.AddInput(stubPoint, stubOut, nil, 0xffffffff)
	for _, o := range proj.Outputs() {
		b.AddOutput(o.Amount, o.Script, o.Version)
	}
	sigScript, err := sigengine.SignatureScript(b.MsgTx(), 0, script, sigengine.PolicyAllAppendPermitted, stubPriv)
	require.NoError(t, err)
	b.SetInputScript(0, sigScript)

	raw, err := b.Finish().Serialize()
	require.NoError(t, err)
	projectID, err := proj.ID()
	require.NoError(t, err)

	msg := &pledge.Message{
		Transactions:    [][]byte{raw},
		TotalInputValue: value,
		ProjectID:       projectID,
	}
	vp, err := pledge.Verify(context.Background(), msg, proj, oracle)
	require.NoError(t, err)
	return vp
}

func newProject(t *testing.T, goalAtoms int64) *project.Descriptor {
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
	proj, err := project.New("Assembly Fixture", "memo", destAddr.AddressPubKeyHash(), goal, authPriv.PubKey(), 0, 1_700_000_000)
	require.NoError(t, err)
	return proj
}

func TestS8ContractComplete(t *testing.T) {
	oracle := mockchain.NewOracle()
	proj := newProject(t, 100_000_000)

	p1 := makePledge(t, oracle, proj, 10_000_000, 1)
	p2 := makePledge(t, oracle, proj, 90_000_000, 2)

	tx, err := contract.RequireComplete(proj, []*pledge.VerifiedPledge{p1, p2})
	require.NoError(t, err)
	require.Len(t, tx.Inputs(), 2)
	require.Len(t, tx.Outputs(), len(proj.Outputs()))
	require.Equal(t, int64(100_000_000), contract.TotalPledged([]*pledge.VerifiedPledge{p1, p2}))
}

func TestS9ContractIncomplete(t *testing.T) {
	oracle := mockchain.NewOracle()
	proj := newProject(t, 100_000_000)

	p1 := makePledge(t, oracle, proj, 10_000_000, 3)
	p2 := makePledge(t, oracle, proj, 70_000_000, 4)

	_, err := contract.RequireComplete(proj, []*pledge.VerifiedPledge{p1, p2})
	require.Error(t, err)

	incomplete, ok := err.(*contract.ErrIncomplete)
	require.True(t, ok)
	require.Equal(t, pledge.ValueMismatch, incomplete.Kind())
	require.Equal(t, int64(80_000_000), incomplete.Pledged)
	require.Equal(t, int64(100_000_000), incomplete.Goal)
}

func TestAssembleOverfunded(t *testing.T) {
	oracle := mockchain.NewOracle()
	proj := newProject(t, 100_000_000)

	p1 := makePledge(t, oracle, proj, 60_000_000, 5)
	p2 := makePledge(t, oracle, proj, 60_000_000, 6)

	tx, err := contract.Assemble(proj, []*pledge.VerifiedPledge{p1, p2})
	require.NoError(t, err)
	require.Len(t, tx.Inputs(), 2)
}
