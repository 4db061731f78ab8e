// Package txmodel provides an immutable transaction view plus a mutable
// builder over the chain's consensus wire format, so every other
// component in this module works with one vocabulary for inputs,
// outputs, and outpoints instead of touching wire.MsgTx directly.
package txmodel

import (
	"bytes"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/wire"
)

// OutPoint identifies a single output of a previous transaction.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// String renders an outpoint as "hash:index", the conventional form.
func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}

func (o OutPoint) wire() wire.OutPoint {
	return wire.OutPoint{Hash: o.Hash, Index: o.Index, Tree: wire.TxTreeRegular}
}

func fromWireOutPoint(w wire.OutPoint) OutPoint {
	return OutPoint{Hash: w.Hash, Index: w.Index}
}

// Output is a single payment output: an amount and an opaque script.
type Output struct {
	Amount  int64
	Script  []byte
	Version uint16
}

// Input is a transaction input: the outpoint it spends, the signature
// script that unlocks it, and a sequence number.
type Input struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// Transaction is an immutable view over a parsed chain transaction.
// Construct one with NewBuilder, or Parse raw consensus bytes.
type Transaction struct {
	msg *wire.MsgTx
}

// Version is the transaction format version.
func (t *Transaction) Version() int32 { return int32(t.msg.Version) }

// LockTime is the transaction's lock-time field.
func (t *Transaction) LockTime() uint32 { return t.msg.LockTime }

// Inputs returns a copy of the transaction's inputs, in order.
func (t *Transaction) Inputs() []Input {
	ins := make([]Input, len(t.msg.TxIn))
	for i, in := range t.msg.TxIn {
		ins[i] = Input{
			PreviousOutPoint: fromWireOutPoint(in.PreviousOutPoint),
			SignatureScript:  append([]byte(nil), in.SignatureScript...),
			Sequence:         in.Sequence,
		}
	}
	return ins
}

// Outputs returns a copy of the transaction's outputs, in order.
func (t *Transaction) Outputs() []Output {
	outs := make([]Output, len(t.msg.TxOut))
	for i, o := range t.msg.TxOut {
		outs[i] = Output{
			Amount:  o.Value,
			Script:  append([]byte(nil), o.PkScript...),
			Version: o.Version,
		}
	}
	return outs
}

// MsgTx exposes the underlying wire transaction for packages (sigengine,
// the CLI) that must hand it to txscript or wire directly.
func (t *Transaction) MsgTx() *wire.MsgTx {
	return t.msg
}

// Hash returns the transaction's id as wire.MsgTx.TxHash computes it:
// the hash of the transaction prefix, which excludes signature scripts.
func (t *Transaction) Hash() chainhash.Hash {
	return t.msg.TxHash()
}

// Serialize returns the canonical, consensus-exact byte encoding.
func (t *Transaction) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.msg.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes a transaction from its canonical serialization.
func Parse(raw []byte) (*Transaction, error) {
	msg := wire.NewMsgTx()
	if err := msg.Deserialize(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("parsing transaction: %w", err)
	}
	return &Transaction{msg: msg}, nil
}

// RoundTrip serializes and re-parses tx, so tests (spec.md §8.1) can
// check that no builder-side state survives the round trip.
func RoundTrip(tx *Transaction) (*Transaction, error) {
	raw, err := tx.Serialize()
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}
