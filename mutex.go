package syncbase

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/petermattis/goid"
)

// Hub is the process-scoped owner of all synchronization state: the global
// bootstrap mutex, the inc/dec mutex, the active backend, the installed
// callbacks and the statistics. Create one with New, pass it to whoever
// needs locking, and tear it down with Shutdown.
type Hub struct {
	log   logr.Logger
	debug bool

	// base is the build-selected (or WithBackend-injected) native backend;
	// backend is the active one, which SetMutexCallbacks may swap for a
	// callback backend. Both are startup-only configuration.
	base    Backend
	backend Backend
	atomics incDecOps

	// bootMu serializes first-use initialization of the global handle
	// itself; every other handle is serialized by the global handle.
	bootMu sync.Mutex
	global Handle
	incDec Handle

	// live counts outstanding backend objects. It is the pristine-state
	// gate: callback installation is refused while live != 0.
	live atomic.Int64

	// Reentrancy tracking for the global mutex, active only with
	// WithDebugChecks.
	recursion atomic.Int32
	holder    atomic.Int64

	s stats
}

var ErrNilCallback = errors.New(`callback must not be nil`)
var ErrInUse = errors.New(`hub is no longer in its pristine state`)
var ErrSelfTest = errors.New(`atomic callbacks failed self test`)

func New(opts ...Option) *Hub {

	x := &Hub{
		log: logr.Discard(),
	}
	x.base = defaultBackend()
	x.backend = x.base
	x.atomics = platformAtomics(x)

	for _, o := range opts {
		o(x)
	}
	return x
}

// Lock acquires the mutex behind h, blocking until it is available.
// A nil h means the global mutex. The handle must have been initialized;
// locking an uninitialized handle is misuse and panics under
// WithDebugChecks. Without debug checks it falls back to emergency
// initialization, which for non-global handles is not race-safe and exists
// only to reduce crash severity.
func (x *Hub) Lock(h *Handle) {
	h = x.resolve(h)

	sl := h.load()
	if sl == nil {
		if sl = x.lockMissing(h); sl == nil {
			return
		}
	}

	if x.debug && h == &x.global {
		if x.holder.Load() == goid.Get() {
			panic(`syncbase: reentrant lock of the global mutex`)
		}
	}

	x.backend.Lock(h, sl.state)
	x.s.locked()

	if x.debug && h == &x.global {
		x.holder.Store(goid.Get())
		if n := x.recursion.Add(1); n != 1 {
			panic(`syncbase: global mutex recursion counter out of balance`)
		}
	}
}

// Unlock releases the mutex behind h. A nil h means the global mutex.
// Unlocking an uninitialized handle panics under WithDebugChecks and is
// otherwise ignored.
func (x *Hub) Unlock(h *Handle) {
	h = x.resolve(h)

	sl := h.load()
	if sl == nil {
		if x.debug {
			panic(`syncbase: unlock of uninitialized handle`)
		}
		x.log.Error(nil, `Unlock of uninitialized handle ignored.`)
		return
	}

	if x.debug && h == &x.global {
		if n := x.recursion.Add(-1); n != 0 {
			panic(`syncbase: unlock of unlocked global mutex`)
		}
		x.holder.Store(0)
	}

	x.backend.Unlock(h, sl.state)
	x.s.unlocked()
}

// Init makes h ready for Lock/Unlock, creating its backend object on first
// use. It is idempotent and safe to call from any number of goroutines
// concurrently: exactly one backend object is ever published per handle, and
// no caller can observe a partially constructed one. A nil h initializes the
// global mutex (together with the inc/dec mutex).
//
// If the backend fails to create its object the handle stays uninitialized;
// callers that must know re-check h.Ready().
func (x *Hub) Init(h *Handle) {
	if h == nil || h == &x.global {
		x.initGlobal()
		return
	}

	// The global mutex bootstraps every other handle.
	x.initGlobal()

	x.Lock(nil)
	ready := h.load() != nil
	x.Unlock(nil)
	if ready {
		return
	}

	// Create outside the global mutex: backend creation may be expensive or
	// call back into user code.
	tmp, err := x.rawCreate(h)
	if err != nil {
		return
	}

	published := false
	x.Lock(nil)
	if h.load() == nil {
		h.publish(tmp)
		published = true
	}
	x.Unlock(nil)

	if !published {
		// Another goroutine won the race; discard the redundant object.
		x.backend.Destroy(h, tmp)
		x.live.Add(-1)
		x.s.destroyed()
		x.s.raceLost()
		x.log.V(1).Info(`Lost init race, destroyed redundant backend object.`)
	}
}

// Destroy releases h's backend object and returns the handle to its
// uninitialized state. Destroying an already-uninitialized handle is a
// no-op. Not safe under concurrent use of h. A nil h destroys the global
// mutex and, with it, the inc/dec mutex.
func (x *Hub) Destroy(h *Handle) {
	h = x.resolve(h)

	sl := h.load()
	if sl == nil {
		return
	}

	x.backend.Destroy(h, sl.state)
	h.clear()
	x.live.Add(-1)
	x.s.destroyed()

	// The inc/dec mutex lives and dies with the global one.
	if h == &x.global {
		x.Destroy(&x.incDec)
	}
}

// Shutdown destroys the global handles and removes any installed callbacks,
// returning the hub to its pristine state. Not thread-safe; the caller must
// guarantee that no mutex managed by this hub is in use.
func (x *Hub) Shutdown() {
	x.Destroy(nil)

	x.backend = x.base
	x.atomics = platformAtomics(x)
	x.recursion.Store(0)
	x.holder.Store(0)
	x.log.V(1).Info(`Hub shut down.`)
}

// Stats returns a snapshot of the hub statistics.
// The returned struct is a copy and safe to use without synchronization.
func (x *Hub) Stats() Stats {
	return x.s.snapshot()
}

func (x *Hub) resolve(h *Handle) *Handle {
	if h == nil {
		return &x.global
	}
	return h
}

// initGlobal creates the global and inc/dec handles together. The fast path
// is an unsynchronized read of the already-published handle; publication
// happens under bootMu, so first use is race-free.
func (x *Hub) initGlobal() {
	if x.global.load() != nil {
		return
	}

	x.bootMu.Lock()
	defer x.bootMu.Unlock()

	if x.global.load() != nil {
		return
	}

	st, err := x.rawCreate(&x.global)
	if err != nil {
		return
	}
	x.global.publish(st)
	x.recursion.Store(0)
	x.holder.Store(0)

	if st, err := x.rawCreate(&x.incDec); err == nil {
		x.incDec.publish(st)
	}
}

func (x *Hub) rawCreate(h *Handle) (any, error) {
	st, err := x.backend.Create(h)
	if err != nil {
		x.log.Error(err, `Backend create failed, handle left uninitialized.`)
		return nil, err
	}
	x.live.Add(1)
	x.s.created()
	return st, nil
}

// lockMissing handles locking of a handle that was never initialized.
func (x *Hub) lockMissing(h *Handle) *slot {
	if x.debug {
		panic(`syncbase: lock of uninitialized handle`)
	}
	x.s.emergency()
	x.log.Error(nil, `Lock of uninitialized handle, performing emergency init.`)
	x.Init(h)
	return h.load()
}

// inUse reports whether any backend object is outstanding. The callback
// installers refuse to run once this is true; Shutdown makes it false again.
func (x *Hub) inUse() bool {
	return x.live.Load() != 0
}
