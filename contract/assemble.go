// Package contract assembles verified pledges and a project descriptor
// into a candidate funding transaction.
package contract

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/pledgeforge/contractcore/pledge"
	"github.com/pledgeforge/contractcore/project"
	"github.com/pledgeforge/contractcore/sigengine"
	"github.com/pledgeforge/contractcore/txmodel"
)

// Assemble combines proj's required outputs with one input per pledge,
// in any order — inputs are independent under the append-permitted
// sighash each pledge was signed with. The result may be under-, exactly,
// or over-funded relative to the project's goal; that determination is
// the caller's responsibility (spec.md §4.F).
func Assemble(proj *project.Descriptor, pledges []*pledge.VerifiedPledge) (*txmodel.Transaction, error) {
	b := txmodel.NewBuilder(1)

	for _, out := range proj.Outputs() {
		b.AddOutput(out.Amount, out.Script, out.Version)
	}

	for _, vp := range pledges {
		if err := appendPledgeInput(b, vp); err != nil {
			return nil, err
		}
	}

	return b.Finish(), nil
}

func appendPledgeInput(b *txmodel.Builder, vp *pledge.VerifiedPledge) error {
	inputs := vp.Tx.Inputs()
	if len(inputs) != 1 || len(vp.ResolvedInputs) != 1 {
		return fmt.Errorf("contract: pledge transaction has %d inputs, want 1", len(inputs))
	}
	in := inputs[0]
	b.AddInput(in.PreviousOutPoint, vp.ResolvedInputs[0], in.SignatureScript, in.Sequence)
	return nil
}

// TotalPledged sums the authoritative input value the oracle resolved
// for every pledge.
func TotalPledged(pledges []*pledge.VerifiedPledge) int64 {
	var total int64
	for _, vp := range pledges {
		total += vp.AuthoritativeValue
	}
	return total
}

// ErrIncomplete indicates a finalized contract's pledged total falls
// short of the project's goal. Kind reports pledge.ValueMismatch, so
// callers can switch on the same error vocabulary the verifier uses;
// this is the only place ValueMismatch is raised.
type ErrIncomplete struct {
	Goal    int64
	Pledged int64
}

func (e *ErrIncomplete) Error() string {
	return fmt.Sprintf("contract incomplete: pledged %d, goal %d", e.Pledged, e.Goal)
}

func (e *ErrIncomplete) Kind() pledge.ErrorKind {
	return pledge.ValueMismatch
}

// RequireComplete is the stricter variant spec.md §4.F alludes to: it
// fails with ErrIncomplete when the pledged total is less than the
// project's goal, rather than silently returning an unbroadcastable
// transaction.
func RequireComplete(proj *project.Descriptor, pledges []*pledge.VerifiedPledge) (*txmodel.Transaction, error) {
	goal, err := proj.Goal()
	if err != nil {
		return nil, err
	}
	pledged := TotalPledged(pledges)
	if pledged < goal.ToAtoms() {
		return nil, &ErrIncomplete{Goal: goal.ToAtoms(), Pledged: pledged}
	}
	return Assemble(proj, pledges)
}

// FeeWallet is the minimal collaborator FinalizeWithFee needs: a single
// spendable output to cover the network fee, and a key to sign it with.
type FeeWallet interface {
	FeeInput() (outpoint txmodel.OutPoint, output txmodel.Output, key *secp256k1.PrivateKey, err error)
}

// FinalizeWithFee appends one additional input drawn from feeWallet,
// covering at least minFee, and signs it with plain ALL sighash (no
// append-permitted: it must commit to the final shape of the
// transaction, since nothing may be appended after it). This is the
// fee-adding variant spec.md §4.F describes in prose without naming.
func FinalizeWithFee(proj *project.Descriptor, pledges []*pledge.VerifiedPledge,
	feeWallet FeeWallet, minFee int64) (*txmodel.Transaction, error) {

	outpoint, output, key, err := feeWallet.FeeInput()
	if err != nil {
		return nil, fmt.Errorf("contract: acquiring fee input: %w", err)
	}
	if output.Amount < minFee {
		return nil, fmt.Errorf("contract: fee input %d below minimum fee %d", output.Amount, minFee)
	}

	b := txmodel.NewBuilder(1)
	for _, out := range proj.Outputs() {
		b.AddOutput(out.Amount, out.Script, out.Version)
	}
	for _, vp := range pledges {
		if err := appendPledgeInput(b, vp); err != nil {
			return nil, err
		}
	}
	feeIdx := b.AddInput(outpoint, output, nil, 0xffffffff)

	sigScript, err := sigengine.SignatureScript(b.MsgTx(), feeIdx, output.Script, sigengine.PolicyAll, key)
	if err != nil {
		return nil, fmt.Errorf("contract: signing fee input: %w", err)
	}
	b.SetInputScript(feeIdx, sigScript)

	return b.Finish(), nil
}
