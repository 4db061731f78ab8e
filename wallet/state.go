package wallet

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/pledgeforge/contractcore/pledge"
	"github.com/pledgeforge/contractcore/project"
	"github.com/pledgeforge/contractcore/txmodel"
)

// Snapshot is the durable persistence shape of a wallet's bookkeeping:
// every non-terminal pledge, the project each one targets, and the
// revoked set. It excludes runtime-only state (revoke-in-progress,
// listeners) that should never survive a restart.
type Snapshot struct {
	Active  []*TrackedPledge
	Revoked map[chainhash.Hash]*pledge.Message
}

// Snapshot captures the wallet's current durable state for a caller to
// serialize and write to disk.
func (w *Wallet) Snapshot() *Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	active := make([]*TrackedPledge, 0, len(w.pledges))
	for _, p := range w.pledges {
		if p.State == StatePending || p.State == StateCommitted {
			active = append(active, p)
		}
	}
	revoked := make(map[chainhash.Hash]*pledge.Message, len(w.revoked))
	for h, m := range w.revoked {
		revoked[h] = m
	}

	return &Snapshot{Active: active, Revoked: revoked}
}

// Restore replaces the wallet's bookkeeping with a previously captured
// snapshot. It must be called before any pledge operation; it does not
// merge with existing state.
func (w *Wallet) Restore(snap *Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pledges = make(map[txmodel.OutPoint]*TrackedPledge, len(snap.Active))
	w.projects = make(map[string]*TrackedPledge, len(snap.Active))
	for _, p := range snap.Active {
		w.pledges[p.StubOutPoint] = p
		if p.State == StateCommitted {
			w.projects[p.Message.ProjectID] = p
		}
	}

	w.revoked = make(map[chainhash.Hash]*pledge.Message, len(snap.Revoked))
	for h, m := range snap.Revoked {
		w.revoked[h] = m
	}
	w.revokeInProgress = make(map[txmodel.OutPoint]struct{})
}

// ProjectPledge returns the pledge this wallet committed to proj, if
// any — invariant 2 of spec.md §3 (one pledge per project).
func (w *Wallet) ProjectPledge(proj *project.Descriptor) (*TrackedPledge, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, err := proj.ID()
	if err != nil {
		return nil, false
	}
	p, ok := w.projects[id]
	return p, ok
}
