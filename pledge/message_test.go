package pledge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageMarshalUnmarshalRoundTrip(t *testing.T) {
	m := &Message{
		Transactions:    [][]byte{{0x01, 0x02}, {0x03, 0x04, 0x05}},
		TotalInputValue: 10_000_000,
		Timestamp:       1_700_000_000,
		ProjectID:       "deadbeef",
		Contact:         &Contact{Email: "backer@example.test", Name: "Backer"},
	}

	raw := m.Marshal()
	got, err := UnmarshalMessage(raw)
	require.NoError(t, err)

	require.Equal(t, m.Transactions, got.Transactions)
	require.Equal(t, m.TotalInputValue, got.TotalInputValue)
	require.Equal(t, m.Timestamp, got.Timestamp)
	require.Equal(t, m.ProjectID, got.ProjectID)
	require.Equal(t, m.Contact, got.Contact)
}

func TestMessageMarshalWithoutContact(t *testing.T) {
	m := &Message{
		Transactions:    [][]byte{{0xff}},
		TotalInputValue: 500,
		Timestamp:       1,
		ProjectID:       "abc",
	}
	raw := m.Marshal()
	got, err := UnmarshalMessage(raw)
	require.NoError(t, err)
	require.Nil(t, got.Contact)
}

func TestPledgeTxRequiresTransactions(t *testing.T) {
	m := &Message{}
	_, err := m.PledgeTx()
	require.Error(t, err)
}
