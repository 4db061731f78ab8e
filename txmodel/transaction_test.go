package txmodel

import (
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

func buildSampleTx() *Transaction {
	b := NewBuilder(1)
	prevHash := chainhash.Hash{1, 2, 3}
	prevOut := OutPoint{Hash: prevHash, Index: 0}
	b.AddInput(prevOut, Output{Amount: 100_000, Script: []byte{0x76, 0xa9}, Version: 0}, []byte{0x01, 0x02}, 0xffffffff)
	b.AddOutput(99_000, []byte{0xa9, 0x14}, 0)
	b.SetLockTime(0)
	return b.Finish()
}

func TestBuilderProducesExpectedShape(t *testing.T) {
	tx := buildSampleTx()

	require.Equal(t, int32(1), tx.Version())
	require.Len(t, tx.Inputs(), 1)
	require.Len(t, tx.Outputs(), 1)
	require.Equal(t, int64(99_000), tx.Outputs()[0].Amount)
	require.Equal(t, uint32(0), tx.Inputs()[0].PreviousOutPoint.Index)
}

func TestRoundTrip(t *testing.T) {
	tx := buildSampleTx()

	got, err := RoundTrip(tx)
	require.NoError(t, err)

	require.Equal(t, tx.Version(), got.Version())
	require.Equal(t, tx.LockTime(), got.LockTime())
	require.Equal(t, tx.Inputs(), got.Inputs())
	require.Equal(t, tx.Outputs(), got.Outputs())
	require.Equal(t, tx.Hash(), got.Hash())

	rawA, err := tx.Serialize()
	require.NoError(t, err)
	rawB, err := got.Serialize()
	require.NoError(t, err)
	require.Equal(t, rawA, rawB)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestOutPointString(t *testing.T) {
	op := OutPoint{Hash: chainhash.Hash{9}, Index: 3}
	require.Contains(t, op.String(), ":3")
}
