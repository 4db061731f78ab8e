package wallet

// Executor runs a notification callback, letting the caller choose which
// goroutine or queue handler code actually runs on (a UI event loop, for
// instance). Listener dispatch always happens outside the wallet's
// mutex (spec.md §5).
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(fn func())

// Execute calls f(fn).
func (f ExecutorFunc) Execute(fn func()) { f(fn) }

// DirectExecutor runs the callback synchronously, on the calling
// goroutine. It's the right choice for tests and for single-threaded
// callers that don't need to hop threads.
var DirectExecutor Executor = ExecutorFunc(func(fn func()) { fn() })

// PledgeListener receives lifecycle notifications for pledges this
// wallet tracks. Notifications for a single pledge are totally ordered:
// onPledge happens-before any possible onRevoke or onClaim for that
// pledge (spec.md §5).
type PledgeListener interface {
	OnPledge(p *TrackedPledge)
	OnRevoke(p *TrackedPledge)
	OnClaim(p *TrackedPledge)
}

type listenerEntry struct {
	listener PledgeListener
	executor Executor
}

func (w *Wallet) notifyPledge(p *TrackedPledge) {
	w.dispatch(func(l PledgeListener) { l.OnPledge(p) })
}

func (w *Wallet) notifyRevoke(p *TrackedPledge) {
	w.dispatch(func(l PledgeListener) { l.OnRevoke(p) })
}

func (w *Wallet) notifyClaim(p *TrackedPledge) {
	w.dispatch(func(l PledgeListener) { l.OnClaim(p) })
}

// dispatch must be called with the wallet mutex already released: it
// hands each registered listener to its own executor so arbitrary
// handler code never runs while holding the lock.
func (w *Wallet) dispatch(call func(PledgeListener)) {
	w.mu.Lock()
	entries := append([]listenerEntry(nil), w.listeners...)
	w.mu.Unlock()

	for _, e := range entries {
		entry := e
		entry.executor.Execute(func() { call(entry.listener) })
	}
}

// AddListener registers l to receive pledge lifecycle notifications,
// delivered on executor.
func (w *Wallet) AddListener(l PledgeListener, executor Executor) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, listenerEntry{listener: l, executor: executor})
}
