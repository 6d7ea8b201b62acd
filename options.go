package syncbase

import (
	"github.com/go-logr/logr"
)

type Option func(*Hub)

func WithLogr(l logr.Logger) Option {
	return func(x *Hub) { x.log = l }
}

// WithBackend replaces the build-selected native backend with a custom one,
// for example futex.New(). Callbacks installed with SetMutexCallbacks still
// take precedence over it.
func WithBackend(b Backend) Option {
	return func(x *Hub) {
		x.base = b
		x.backend = b
	}
}

// WithDebugChecks turns misuse into panics: locking or unlocking an
// uninitialized handle, reentrant locking of the global mutex, unbalanced
// unlocks of it, and a failing atomic-callback self test.
func WithDebugChecks() Option {
	return func(x *Hub) { x.debug = true }
}
