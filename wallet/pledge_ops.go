package wallet

import (
	"context"
	"fmt"

	"github.com/pledgeforge/contractcore/pledge"
	"github.com/pledgeforge/contractcore/project"
	"github.com/pledgeforge/contractcore/sigengine"
	"github.com/pledgeforge/contractcore/txmodel"
	"github.com/pledgeforge/contractcore/valuescript"
)

// defaultDependencyFee is the flat fee a dependency transaction pays
// when CreatePledge has to manufacture a stub of exactly the requested
// value. A production wallet would estimate this from the dependency
// transaction's size; a fixed fee keeps this core's surface simple and
// is a parameter a caller building on top of it can override by
// constructing its own dependency and stub out-of-band.
const defaultDependencyFee = 10000

// ErrPreconditionViolated reports an operation attempted on a pledge
// whose current state doesn't allow it (spec.md §6): committing twice,
// revoking something not committed, and so on.
type ErrPreconditionViolated struct {
	Reason string
}

func (e *ErrPreconditionViolated) Error() string {
	return fmt.Sprintf("precondition violated: %s", e.Reason)
}

// CreatePledge locates a spendable output of exactly value not already
// pledged. If none exists, it builds a dependency transaction sending
// value to a fresh self-owned address (with change), producing a new
// output of exactly value. It then builds a pledge transaction with
// that stub as its sole input and proj's required outputs, signed with
// the single-input, append-permitted sighash. The result is tracked in
// PENDING state (reserving the stub against concurrent CreatePledge
// calls) but is not committed, broadcast, or observable by listeners
// until Commit is called.
func (w *Wallet) CreatePledge(proj *project.Descriptor, value valuescript.Amount) (*TrackedPledge, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	candidates, err := w.coins.SpendableOutputs()
	if err != nil {
		return nil, fmt.Errorf("wallet: listing spendable outputs: %w", err)
	}

	pledgedStubs := make(map[txmodel.OutPoint]struct{}, len(w.pledges))
	for op, p := range w.pledges {
		if p.State == StatePending || p.State == StateCommitted {
			pledgedStubs[op] = struct{}{}
		}
	}

	stub, dependency, feesPaid, err := w.acquireStub(candidates, pledgedStubs, value)
	if err != nil {
		return nil, err
	}

	tracked, err := w.buildPledgeLocked(proj, stub, dependency, feesPaid)
	if err != nil {
		return nil, err
	}

	w.pledges[stub.OutPoint] = tracked
	return tracked, nil
}

// acquireStub returns a spendable output of exactly value, building a
// dependency transaction to manufacture one if no exact match exists
// among candidates.
func (w *Wallet) acquireStub(candidates []SpendableOutput, pledged map[txmodel.OutPoint]struct{},
	value valuescript.Amount) (SpendableOutput, *txmodel.Transaction, int64, error) {

	target := value.ToAtoms()

	if exact := findExactMatch(excludePledged(candidates, pledged), target); exact != nil {
		return *exact, nil, 0, nil
	}

	selected, err := selectCoins(candidates, pledged, target+defaultDependencyFee)
	if err != nil {
		return SpendableOutput{}, nil, 0, err
	}

	var totalIn int64
	for _, c := range selected {
		totalIn += c.Output.Amount
	}
	change := totalIn - target - defaultDependencyFee

	destAddr, destPubKey, err := w.keys.FreshReceiveAddress()
	if err != nil {
		return SpendableOutput{}, nil, 0, fmt.Errorf("wallet: fresh receive address: %w", err)
	}
	version, script := destAddr.PaymentScript()

	b := txmodel.NewBuilder(1)
	for _, c := range selected {
		b.AddInput(c.OutPoint, c.Output, nil, 0xffffffff)
	}
	stubIdx := b.AddOutput(target, script, version)

	if change > 0 {
		changeAddr, _, err := w.keys.FreshReceiveAddress()
		if err != nil {
			return SpendableOutput{}, nil, 0, fmt.Errorf("wallet: fresh change address: %w", err)
		}
		cVersion, cScript := changeAddr.PaymentScript()
		b.AddOutput(change, cScript, cVersion)
	}

	for i, c := range selected {
		sigScript, err := sigengine.SignatureScript(b.MsgTx(), i, c.Output.Script, sigengine.PolicyAll, c.Key)
		if err != nil {
			return SpendableOutput{}, nil, 0, fmt.Errorf("wallet: signing dependency input %d: %w", i, err)
		}
		b.SetInputScript(i, sigScript)
	}

	dep := b.Finish()
	stubKey, found, err := w.keys.FindKeyByPubKey(destPubKey.SerializeCompressed())
	if err != nil {
		return SpendableOutput{}, nil, 0, fmt.Errorf("wallet: resolving stub key: %w", err)
	}
	if !found {
		return SpendableOutput{}, nil, 0, fmt.Errorf("wallet: key provider lost the stub address it just issued")
	}

	stub := SpendableOutput{
		OutPoint: txmodel.OutPoint{Hash: dep.Hash(), Index: uint32(stubIdx)},
		Output:   txmodel.Output{Amount: target, Script: script, Version: version},
		Key:      stubKey,
	}

	return stub, dep, defaultDependencyFee, nil
}

func excludePledged(candidates []SpendableOutput, pledged map[txmodel.OutPoint]struct{}) []SpendableOutput {
	out := make([]SpendableOutput, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := pledged[c.OutPoint]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// buildPledgeLocked builds and signs the pledge transaction proper,
// given the stub it spends. The caller must hold w.mu.
func (w *Wallet) buildPledgeLocked(proj *project.Descriptor, stub SpendableOutput,
	dependency *txmodel.Transaction, feesPaid int64) (*TrackedPledge, error) {

	b := txmodel.NewBuilder(1)
	b.AddInput(stub.OutPoint, stub.Output, nil, 0xffffffff)
	for _, out := range proj.Outputs() {
		b.AddOutput(out.Amount, out.Script, out.Version)
	}

	sigScript, err := sigengine.SignatureScript(
		b.MsgTx(), 0, stub.Output.Script, sigengine.PolicyAllAppendPermitted, stub.Key)
	if err != nil {
		return nil, fmt.Errorf("wallet: signing pledge input: %w", err)
	}
	b.SetInputScript(0, sigScript)

	tx := b.Finish()
	raw, err := tx.Serialize()
	if err != nil {
		return nil, fmt.Errorf("wallet: serializing pledge transaction: %w", err)
	}

	projectID, err := proj.ID()
	if err != nil {
		return nil, fmt.Errorf("wallet: hashing project id: %w", err)
	}

	transactions := [][]byte{raw}
	if dependency != nil {
		depRaw, err := dependency.Serialize()
		if err != nil {
			return nil, fmt.Errorf("wallet: serializing dependency transaction: %w", err)
		}
		transactions = [][]byte{depRaw, raw}
	}

	msg := &pledge.Message{
		Transactions:    transactions,
		TotalInputValue: stub.Output.Amount,
		Timestamp:       w.clock.Now(),
		ProjectID:       projectID,
	}

	return &TrackedPledge{
		State:        StatePending,
		Project:      proj,
		Message:      msg,
		StubOutPoint: stub.OutPoint,
		StubOutput:   stub.Output,
		StubKey:      stub.Key,
		Dependency:   dependency,
		FeesPaid:     feesPaid,
		PledgeHash:   tx.Hash(),
	}, nil
}

// Commit marks a pending pledge committed, optionally broadcasting its
// dependency transaction first. Committing twice fails a precondition
// (idempotence). Bookkeeping updates happen atomically under the wallet
// lock and must be durably flushed before this returns success; onPledge
// handlers fire afterward, outside the lock.
func (w *Wallet) Commit(ctx context.Context, p *TrackedPledge, persist func() error, broadcastDep bool) error {
	w.mu.Lock()
	if p.State != StatePending {
		w.mu.Unlock()
		return &ErrPreconditionViolated{Reason: fmt.Sprintf("pledge is %s, not PENDING", p.State)}
	}
	w.mu.Unlock()

	if broadcastDep && p.Dependency != nil {
		if err := w.broadcaster.Broadcast(ctx, p.Dependency); err != nil {
			return fmt.Errorf("wallet: broadcasting dependency: %w", err)
		}
	}

	w.mu.Lock()
	if p.State != StatePending {
		w.mu.Unlock()
		return &ErrPreconditionViolated{Reason: fmt.Sprintf("pledge is %s, not PENDING", p.State)}
	}
	p.State = StateCommitted
	w.projects[p.Message.ProjectID] = p
	if persist != nil {
		if err := persist(); err != nil {
			p.State = StatePending
			w.mu.Unlock()
			return fmt.Errorf("wallet: persisting commit: %w", err)
		}
	}
	w.mu.Unlock()

	w.notifyPledge(p)
	w.refreshActivePledgesGauge()
	return nil
}

// RevokePledge builds a fresh transaction spending the pledge's stub to
// a self-owned address, minus a minimum fee, and broadcasts it. On
// broadcast success the pledge moves to REVOKED, is removed from the
// active bookkeeping, persisted, and onRevoke fires. On failure, state
// is left untouched.
func (w *Wallet) RevokePledge(ctx context.Context, p *TrackedPledge, persist func() error, minFee int64) error {
	w.mu.Lock()
	if p.State != StateCommitted {
		w.mu.Unlock()
		return &ErrPreconditionViolated{Reason: fmt.Sprintf("pledge is %s, not COMMITTED", p.State)}
	}
	w.revokeInProgress[p.StubOutPoint] = struct{}{}
	w.mu.Unlock()

	revokeTx, err := w.buildRevocation(p, minFee)
	if err != nil {
		w.mu.Lock()
		delete(w.revokeInProgress, p.StubOutPoint)
		w.mu.Unlock()
		return err
	}

	if err := w.broadcaster.Broadcast(ctx, revokeTx); err != nil {
		w.mu.Lock()
		delete(w.revokeInProgress, p.StubOutPoint)
		w.mu.Unlock()
		log.Warnf("revoke broadcast failed for pledge %v: %v", p.PledgeHash, err)
		return fmt.Errorf("wallet: broadcasting revocation: %w", err)
	}

	w.mu.Lock()
	p.State = StateRevoked
	w.revoked[p.PledgeHash] = p.Message
	delete(w.pledges, p.StubOutPoint)
	delete(w.projects, p.Message.ProjectID)
	delete(w.revokeInProgress, p.StubOutPoint)
	if persist != nil {
		_ = persist()
	}
	w.mu.Unlock()

	w.notifyRevoke(p)
	w.refreshActivePledgesGauge()
	return nil
}

func (w *Wallet) buildRevocation(p *TrackedPledge, minFee int64) (*txmodel.Transaction, error) {
	destAddr, _, err := w.keys.FreshReceiveAddress()
	if err != nil {
		return nil, fmt.Errorf("wallet: fresh revocation address: %w", err)
	}
	version, script := destAddr.PaymentScript()

	b := txmodel.NewBuilder(1)
	b.AddInput(p.StubOutPoint, p.StubOutput, nil, 0xffffffff)
	amount := p.Message.TotalInputValue - minFee
	b.AddOutput(amount, script, version)

	sigScript, err := sigengine.SignatureScript(b.MsgTx(), 0, p.StubOutput.Script, sigengine.PolicyAll, p.StubKey)
	if err != nil {
		return nil, fmt.Errorf("wallet: signing revocation: %w", err)
	}
	b.SetInputScript(0, sigScript)

	return b.Finish(), nil
}

// ObserveSpend reports that spendingTx spends one of our tracked stubs.
// If the spend wasn't self-initiated (not in revoke-in-progress) and
// spendingTx's outputs match the project's outputs bytewise in order,
// onClaim fires. Otherwise the spend is logged as unrecognized — likely
// a wallet clone or an external revocation this instance didn't issue.
func (w *Wallet) ObserveSpend(stub txmodel.OutPoint, spendingTx *txmodel.Transaction) {
	w.mu.Lock()
	p, tracked := w.pledges[stub]
	if !tracked || p.State != StateCommitted {
		w.mu.Unlock()
		return
	}
	_, selfInitiated := w.revokeInProgress[stub]
	w.mu.Unlock()

	if selfInitiated {
		return
	}

	if !outputsMatchProject(spendingTx, p.Project) {
		log.Infof("unrecognized spend of pledged stub %v", stub)
		return
	}

	w.mu.Lock()
	p.State = StateClaimed
	w.mu.Unlock()

	w.notifyClaim(p)
	w.refreshActivePledgesGauge()
}

func outputsMatchProject(tx *txmodel.Transaction, proj *project.Descriptor) bool {
	projOutputs := proj.Outputs()
	txOutputs := tx.Outputs()
	if len(txOutputs) != len(projOutputs) {
		return false
	}
	for i := range projOutputs {
		if txOutputs[i].Amount != projOutputs[i].Amount ||
			!valuescript.ScriptsEqual(txOutputs[i].Script, projOutputs[i].Script) {
			return false
		}
	}
	return true
}
