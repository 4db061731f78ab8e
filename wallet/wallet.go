package wallet

import (
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/pledgeforge/contractcore/metrics"
	"github.com/pledgeforge/contractcore/pledge"
	"github.com/pledgeforge/contractcore/project"
	"github.com/pledgeforge/contractcore/txmodel"
)

// State is a pledge's position in its lifecycle (spec.md §4.H):
//
//	NONE → PENDING (CreatePledge)
//	PENDING → COMMITTED (Commit)   | DROPPED (garbage collection of uncommitted)
//	COMMITTED → REVOKED (RevokePledge broadcast OK)
//	COMMITTED → CLAIMED (stub observed spent to project outputs)
//
// REVOKED and CLAIMED are terminal.
type State int

const (
	StatePending State = iota
	StateCommitted
	StateRevoked
	StateClaimed
	StateDropped
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateCommitted:
		return "COMMITTED"
	case StateRevoked:
		return "REVOKED"
	case StateClaimed:
		return "CLAIMED"
	case StateDropped:
		return "DROPPED"
	default:
		return "UNKNOWN"
	}
}

// TrackedPledge is everything the wallet keeps about one pledge it has
// created: the project it targets, the pledge message itself, the stub
// it spends, an optional dependency transaction, and its current state.
type TrackedPledge struct {
	State        State
	Project      *project.Descriptor
	Message      *pledge.Message
	StubOutPoint txmodel.OutPoint
	StubOutput   txmodel.Output
	StubKey      *secp256k1.PrivateKey
	Dependency   *txmodel.Transaction
	FeesPaid     int64
	PledgeHash   chainhash.Hash
}

// Wallet is the pledging wallet core. It tracks pledged stubs,
// constructs and commits pledges, revokes them, and detects claims
// observed on chain. All access to its bookkeeping maps happens under mu;
// listener dispatch happens outside it (spec.md §5).
type Wallet struct {
	mu sync.Mutex

	pledges          map[txmodel.OutPoint]*TrackedPledge // invariant 1: at most one non-revoked pledge per stub
	projects         map[string]*TrackedPledge           // project-id -> the one pledge this wallet made for it
	revoked          map[chainhash.Hash]*pledge.Message
	revokeInProgress map[txmodel.OutPoint]struct{}

	listeners []listenerEntry

	coins       CoinSource
	keys        KeyProvider
	broadcaster Broadcaster
	clock       Clock
}

// New constructs an empty wallet around the given collaborators.
func New(coins CoinSource, keys KeyProvider, broadcaster Broadcaster, clock Clock) *Wallet {
	return &Wallet{
		pledges:          make(map[txmodel.OutPoint]*TrackedPledge),
		projects:         make(map[string]*TrackedPledge),
		revoked:          make(map[chainhash.Hash]*pledge.Message),
		revokeInProgress: make(map[txmodel.OutPoint]struct{}),
		coins:            coins,
		keys:             keys,
		broadcaster:      broadcaster,
		clock:            clock,
	}
}

// Pledges returns a snapshot of every pledge this wallet currently
// tracks, including terminal ones still retained in memory.
func (w *Wallet) Pledges() []*TrackedPledge {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]*TrackedPledge, 0, len(w.pledges))
	for _, p := range w.pledges {
		out = append(out, p)
	}
	return out
}

// activeCountLocked reports the number of pledges in PENDING or COMMITTED
// state; the caller must hold mu.
func (w *Wallet) activeCountLocked() int {
	n := 0
	for _, p := range w.pledges {
		if p.State == StatePending || p.State == StateCommitted {
			n++
		}
	}
	return n
}

func (w *Wallet) refreshActivePledgesGauge() {
	w.mu.Lock()
	n := w.activeCountLocked()
	w.mu.Unlock()
	metrics.ActivePledges.Set(float64(n))
}
