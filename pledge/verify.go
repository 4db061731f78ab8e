package pledge

import (
	"context"
	"time"

	"github.com/pledgeforge/contractcore/metrics"
	"github.com/pledgeforge/contractcore/project"
	"github.com/pledgeforge/contractcore/sigengine"
	"github.com/pledgeforge/contractcore/txmodel"
	"github.com/pledgeforge/contractcore/valuescript"
)

// VerifiedPledge is the result of a successful Verify call: the parsed
// pledge transaction, the authoritative input value the oracle resolved
// it to, and the resolved prevout for each input (same order as
// Tx.Inputs()), so a later contract assembly step never has to query the
// oracle a second time for the same outpoints.
type VerifiedPledge struct {
	Tx                 *txmodel.Transaction
	AuthoritativeValue int64
	ResolvedInputs     []txmodel.Output
}

// FastSanityCheck runs the pure, oracle-free subset of verification
// (spec.md §4.E phase 2): no duplicated outpoints, output count and
// content matching the project, and standard output scripts. It never
// touches the network and is safe to call from a UI thread on every
// keystroke of a pasted pledge.
func FastSanityCheck(m *Message, proj *project.Descriptor) (*txmodel.Transaction, error) {
	if len(m.Transactions) == 0 {
		return nil, fail(NoTransactionData, "pledge carries no transactions")
	}

	tx, err := m.PledgeTx()
	if err != nil {
		return nil, fail(NoTransactionData, "parsing pledge transaction: %v", err)
	}

	if dupeOutpoint(tx.Inputs()) {
		return nil, fail(DuplicatedOutPoint, "pledge inputs reference the same outpoint twice")
	}

	projOutputs := proj.Outputs()
	txOutputs := tx.Outputs()
	if len(txOutputs) != len(projOutputs) {
		return nil, fail(TxWrongNumberOfOutputs, "pledge has %d outputs, project requires %d",
			len(txOutputs), len(projOutputs))
	}

	for i := range projOutputs {
		if txOutputs[i].Amount != projOutputs[i].Amount ||
			!valuescript.ScriptsEqual(txOutputs[i].Script, projOutputs[i].Script) {
			return nil, fail(OutputMismatch, "output %d does not match the project's required output", i)
		}
	}

	for i, out := range txOutputs {
		class := valuescript.ClassifyScript(out.Version, out.Script)
		if !valuescript.Standard(class) {
			return nil, fail(NonStandard, "output %d script is non-standard", i)
		}
	}

	return tx, nil
}

func dupeOutpoint(inputs []txmodel.Input) bool {
	seen := make(map[txmodel.OutPoint]struct{}, len(inputs))
	for _, in := range inputs {
		if _, ok := seen[in.PreviousOutPoint]; ok {
			return true
		}
		seen[in.PreviousOutPoint] = struct{}{}
	}
	return false
}

// Verify runs phases 1-5 of the verification algorithm (spec.md §4.E):
// the no-transaction and structural sanity checks, UTXO resolution via
// oracle, declared-value cross-check, and per-input script validation.
// It does not compare the pledge's outputs against its inputs (see the
// phase 6 note below). The first failing phase returns; later phases
// are not attempted. ctx is
// plumbed through to the oracle call, the verifier's sole suspension
// point; a verification that has already resolved cannot be rolled back
// by cancelling ctx afterward.
func Verify(ctx context.Context, m *Message, proj *project.Descriptor, oracle UTXOOracle) (result *VerifiedPledge, err error) {
	defer func() {
		outcome := "success"
		if err != nil {
			if ve, ok := err.(*VerifyError); ok {
				outcome = ve.Kind.String()
			} else {
				outcome = "internal"
			}
		}
		metrics.VerifyOutcomes.WithLabelValues(outcome).Inc()
	}()

	tx, err := FastSanityCheck(m, proj)
	if err != nil {
		return nil, err
	}

	inputs := tx.Inputs()
	outpoints := make([]txmodel.OutPoint, len(inputs))
	for i, in := range inputs {
		outpoints[i] = in.PreviousOutPoint
	}

	oracleStart := time.Now()
	resolved, lookupErr := oracle.ResolveOutputs(ctx, outpoints)
	metrics.OracleLatency.Observe(time.Since(oracleStart).Seconds())
	if lookupErr != nil {
		return nil, fail(UnknownUTXO, "oracle lookup failed: %v", lookupErr)
	}
	if len(resolved) != len(outpoints) {
		return nil, fail(UnknownUTXO, "oracle returned %d entries for %d outpoints", len(resolved), len(outpoints))
	}
	for i, out := range resolved {
		if out == nil {
			return nil, fail(UnknownUTXO, "outpoint %s is unknown", outpoints[i])
		}
	}

	var totalResolved int64
	for _, out := range resolved {
		totalResolved += out.Amount
	}
	if totalResolved != m.TotalInputValue {
		return nil, fail(CachedValueMismatch,
			"declared total input value %d does not match resolved sum %d", m.TotalInputValue, totalResolved)
	}

	policy := sigengine.PolicyAllAppendPermitted
	for i, out := range resolved {
		if err := sigengine.Verify(tx.MsgTx(), i, out.Version, out.Script, out.Amount, policy); err != nil {
			return nil, fail(ScriptError, "input %d: %v", i, err)
		}
	}

	// Phase 6 (spec.md §4.E): a single pledge's own outputs (the
	// project's full required set) routinely exceed its own inputs — an
	// assurance contract's entire point is that an early, partial pledge
	// looks like an "invalid" standalone transaction until enough others
	// join it. ValueMismatch is raised only once, at combining time
	// (contract.RequireComplete), per spec.md §7's "(only when
	// combining)" qualifier — never here.

	resolvedOutputs := make([]txmodel.Output, len(resolved))
	for i, out := range resolved {
		resolvedOutputs[i] = *out
	}

	return &VerifiedPledge{Tx: tx, AuthoritativeValue: totalResolved, ResolvedInputs: resolvedOutputs}, nil
}
