// Package syncbase provides platform-independent mutual exclusion and atomic
// int32 increment/decrement with a runtime-swappable backend.
//
// # Overview
//
// Syncbase is the synchronization bedrock for libraries that must run on top
// of a host application's threading model:
//   - Lazy: handles initialize on first use, exactly once, race-free
//   - Opaque: a Handle is either uninitialized or ready, nothing in between
//   - Pluggable: native platform primitives by default, caller-supplied
//     callback functions when the host brings its own threading
//   - Bootstrapped: one global mutex serializes first-use initialization of
//     every other handle, and doubles as a shared process-wide lock
//   - Degradable: atomic inc/dec falls back to a dedicated mutex, or to
//     plain updates in single-threaded builds
//
// # Basic Usage
//
//	hub := syncbase.New()
//	defer hub.Shutdown()
//
//	var h syncbase.Handle
//	hub.Init(&h)
//
//	hub.Lock(&h)
//	// critical section
//	hub.Unlock(&h)
//
// Passing a nil handle addresses the global mutex:
//
//	hub.Lock(nil)
//	// touch process-wide state
//	hub.Unlock(nil)
//
// # Host-Supplied Backends
//
// An application embedding the library can route all locking through its own
// primitives. Installation is all-or-nothing and only legal while the hub is
// pristine, before any handle has been created:
//
//	err := hub.SetMutexCallbacks(myCtx,
//	    func(ctx any, h *syncbase.Handle) (any, error) { ... }, // init
//	    func(ctx, state any) { ... },                           // destroy
//	    func(ctx, state any) { ... },                           // lock
//	    func(ctx, state any) { ... },                           // unlock
//	)
//
// SetAtomicCallbacks works the same way for Increment/Decrement and self
// tests the supplied functions before accepting them.
//
// # Build Variants
//
// The native backend is chosen at build time: sync.Mutex by default,
// deadlock-detecting mutexes with -tags=deadlock, and a no-op sentinel
// backend with -tags=nothreads. Atomic operations use native instructions by
// default; -tags=mutexatomics serializes them through a dedicated mutex for
// platforms without atomics. The futex subpackage offers an opt-in
// Linux-only backend built on raw futex system calls:
//
//	b, err := futex.New()
//	if err == nil {
//	    hub = syncbase.New(syncbase.WithBackend(b))
//	}
//
// # Statistics
//
// Hub.Stats() returns vendor-agnostic counters (objects created and
// destroyed, init races lost, emergency initializations, lock traffic) that
// can be exported to any monitoring system.
//
// # Misuse
//
// Locking a handle that was never initialized is a programming error. With
// WithDebugChecks the hub panics; without it, it logs and performs an
// emergency initialization that is not race-safe and exists only to reduce
// crash severity. Reentrant locking of the global mutex deadlocks on
// non-recursive backends and is likewise detected under WithDebugChecks.
package syncbase
