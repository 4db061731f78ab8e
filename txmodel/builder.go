package txmodel

import (
	"github.com/decred/dcrd/wire"
)

// ConnectedOutput pairs an outpoint with the prevout it references, so a
// signer knows the script and value it is signing for without a second
// oracle round trip.
type ConnectedOutput struct {
	OutPoint OutPoint
	Output   Output
}

// Builder accumulates inputs and outputs before being frozen into an
// immutable Transaction. It mirrors the teacher's pattern of connecting
// an input to its prevout at add time (see lnwallet.Utxo / chanfunding.Coin),
// so downstream signing never has to re-resolve what an input spends.
type Builder struct {
	msg     *wire.MsgTx
	connect []ConnectedOutput
}

// NewBuilder returns an empty builder using the given transaction format
// version.
func NewBuilder(version int32) *Builder {
	msg := wire.NewMsgTx()
	msg.Version = uint16(version)
	return &Builder{msg: msg}
}

// AddInput appends an input spending the given already-connected output.
// The caller must supply prevout so later signature-hash computation and
// signing has the script and value to hand without another lookup.
func (b *Builder) AddInput(prevOut OutPoint, prevOutput Output, sigScript []byte, sequence uint32) int {
	b.msg.AddTxIn(&wire.TxIn{
		PreviousOutPoint: prevOut.wire(),
		SignatureScript:  sigScript,
		Sequence:         sequence,
		ValueIn:          prevOutput.Amount,
	})
	b.connect = append(b.connect, ConnectedOutput{OutPoint: prevOut, Output: prevOutput})
	return len(b.msg.TxIn) - 1
}

// AddOutput appends a payment output.
func (b *Builder) AddOutput(amount int64, script []byte, scriptVersion uint16) int {
	b.msg.AddTxOut(&wire.TxOut{
		Value:    amount,
		PkScript: script,
		Version:  scriptVersion,
	})
	return len(b.msg.TxOut) - 1
}

// SetLockTime sets the lock-time field.
func (b *Builder) SetLockTime(lockTime uint32) {
	b.msg.LockTime = lockTime
}

// SetInputScript overwrites the signature script of an already-added
// input, the step a signer performs after computing a signature.
func (b *Builder) SetInputScript(idx int, sigScript []byte) {
	b.msg.TxIn[idx].SignatureScript = sigScript
}

// ConnectedOutput returns the prevout connected to input idx, used by the
// signature engine to know what script and value it is signing against.
func (b *Builder) ConnectedOutput(idx int) ConnectedOutput {
	return b.connect[idx]
}

// NumInputs reports how many inputs have been added so far.
func (b *Builder) NumInputs() int {
	return len(b.msg.TxIn)
}

// MsgTx exposes the in-progress wire transaction, e.g. for the signature
// engine to compute a sighash digest over.
func (b *Builder) MsgTx() *wire.MsgTx {
	return b.msg
}

// Finish freezes the builder into an immutable Transaction. The builder
// must not be used afterwards.
func (b *Builder) Finish() *Transaction {
	return &Transaction{msg: b.msg}
}
