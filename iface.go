package syncbase

// Backend performs the raw create/destroy/lock/unlock operations behind a
// Handle. Exactly one backend is active per Hub: the build-selected native
// one, a caller-injected implementation (see WithBackend), or the callback
// backend installed by SetMutexCallbacks.
//
// Create returns the backend-specific state to publish into the handle, or a
// non-nil error when that state could not be obtained; the handle is then
// left uninitialized. Destroy, Lock and Unlock receive the state previously
// returned by Create. Destroy must never race with concurrent Lock/Unlock on
// the same handle; that exclusion is the caller's responsibility.
type Backend interface {
	Create(h *Handle) (any, error)
	Destroy(h *Handle, state any)
	Lock(h *Handle, state any)
	Unlock(h *Handle, state any)
}

// MutexInitFunc is a caller-supplied replacement for Backend.Create. It
// returns the state to publish into the handle.
type MutexInitFunc func(context any, h *Handle) (any, error)

// MutexFunc is a caller-supplied replacement for Backend.Destroy, Lock or
// Unlock. It receives the state its init function returned. Destroy may see
// a state that was never published: the redundant object of a lost init
// race.
type MutexFunc func(context any, state any)

// AtomicFunc is a caller-supplied atomic increment or decrement. It must
// update *p and return the post-update value.
type AtomicFunc func(context any, p *int32) int32
