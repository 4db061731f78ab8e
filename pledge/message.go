package pledge

import (
	"fmt"

	"github.com/pledgeforge/contractcore/txmodel"
	"google.golang.org/protobuf/encoding/protowire"
)

// Contact is the optional backer-contact sub-message (spec.md §6).
type Contact struct {
	Email string
	Name  string
}

// Message is the wire-level pledge: a list of raw transactions (the
// last of which is the pledge transaction proper; earlier entries are
// dependency transactions needed to resolve the stub), the backer's
// declared input value, a timestamp, the project it targets, and an
// optional contact.
type Message struct {
	Transactions    [][]byte
	TotalInputValue int64
	Timestamp       int64
	ProjectID       string
	Contact         *Contact
}

// PledgeTx parses and returns the last transaction in Transactions, the
// pledge transaction proper. It is an error for Transactions to be empty;
// callers should check FastSanityCheck or Verify's NoTransactionData
// failure first.
func (m *Message) PledgeTx() (*txmodel.Transaction, error) {
	if len(m.Transactions) == 0 {
		return nil, fmt.Errorf("pledge: no transactions")
	}
	return txmodel.Parse(m.Transactions[len(m.Transactions)-1])
}

// DependencyTxs parses every transaction in Transactions except the
// last.
func (m *Message) DependencyTxs() ([]*txmodel.Transaction, error) {
	if len(m.Transactions) <= 1 {
		return nil, nil
	}
	deps := make([]*txmodel.Transaction, 0, len(m.Transactions)-1)
	for _, raw := range m.Transactions[:len(m.Transactions)-1] {
		tx, err := txmodel.Parse(raw)
		if err != nil {
			return nil, err
		}
		deps = append(deps, tx)
	}
	return deps, nil
}

// Wire field numbers for the Pledge message (spec.md §6).
const (
	msgFieldTransactions = 1
	msgFieldTotalValue   = 2
	msgFieldTimestamp    = 3
	msgFieldProjectID    = 4
	msgFieldContact      = 5
)

// Wire field numbers for the nested Contact message.
const (
	contactFieldEmail = 1
	contactFieldName  = 2
)

// Marshal produces the canonical Pledge wire encoding.
func (m *Message) Marshal() []byte {
	var b []byte
	for _, tx := range m.Transactions {
		b = protowire.AppendTag(b, msgFieldTransactions, protowire.BytesType)
		b = protowire.AppendBytes(b, tx)
	}
	b = protowire.AppendTag(b, msgFieldTotalValue, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.TotalInputValue))
	b = protowire.AppendTag(b, msgFieldTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Timestamp))
	b = protowire.AppendTag(b, msgFieldProjectID, protowire.BytesType)
	b = protowire.AppendString(b, m.ProjectID)
	if m.Contact != nil {
		b = protowire.AppendTag(b, msgFieldContact, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalContact(m.Contact))
	}
	return b
}

func marshalContact(c *Contact) []byte {
	var b []byte
	if c.Email != "" {
		b = protowire.AppendTag(b, contactFieldEmail, protowire.BytesType)
		b = protowire.AppendString(b, c.Email)
	}
	if c.Name != "" {
		b = protowire.AppendTag(b, contactFieldName, protowire.BytesType)
		b = protowire.AppendString(b, c.Name)
	}
	return b
}

// UnmarshalMessage parses a Pledge wire encoding. Unknown fields are
// skipped, not rejected.
func UnmarshalMessage(raw []byte) (*Message, error) {
	m := &Message{}
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return nil, fmt.Errorf("pledge: malformed tag: %w", protowire.ParseError(n))
		}
		raw = raw[n:]

		switch num {
		case msgFieldTransactions:
			v, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return nil, fmt.Errorf("pledge: transactions: %w", protowire.ParseError(n))
			}
			m.Transactions = append(m.Transactions, append([]byte(nil), v...))
			raw = raw[n:]
		case msgFieldTotalValue:
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return nil, fmt.Errorf("pledge: totalInputValue: %w", protowire.ParseError(n))
			}
			m.TotalInputValue, raw = int64(v), raw[n:]
		case msgFieldTimestamp:
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return nil, fmt.Errorf("pledge: timestamp: %w", protowire.ParseError(n))
			}
			m.Timestamp, raw = int64(v), raw[n:]
		case msgFieldProjectID:
			if typ != protowire.BytesType {
				return nil, fmt.Errorf("pledge: projectId: unexpected wire type %v", typ)
			}
			v, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return nil, fmt.Errorf("pledge: projectId: %w", protowire.ParseError(n))
			}
			m.ProjectID, raw = string(v), raw[n:]
		case msgFieldContact:
			buf, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return nil, fmt.Errorf("pledge: contact: %w", protowire.ParseError(n))
			}
			contact, err := unmarshalContact(buf)
			if err != nil {
				return nil, fmt.Errorf("pledge: contact: %w", err)
			}
			m.Contact = contact
			raw = raw[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return nil, fmt.Errorf("pledge: unknown field %d: %w", num, protowire.ParseError(n))
			}
			raw = raw[n:]
		}
	}
	return m, nil
}

func unmarshalContact(raw []byte) (*Contact, error) {
	c := &Contact{}
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		raw = raw[n:]

		switch num {
		case contactFieldEmail:
			v, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			c.Email, raw = string(v), raw[n:]
		case contactFieldName:
			v, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			c.Name, raw = string(v), raw[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			raw = raw[n:]
		}
	}
	return c, nil
}
