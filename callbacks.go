package syncbase

import "fmt"

// callbackBackend routes every mutex operation through caller-supplied
// functions, fully replacing the native backend for all handles. There is no
// per-handle override.
type callbackBackend struct {
	ctx     any
	init    MutexInitFunc
	destroy MutexFunc
	lock    MutexFunc
	unlock  MutexFunc
}

func (b *callbackBackend) Create(h *Handle) (any, error) { return b.init(b.ctx, h) }
func (b *callbackBackend) Destroy(_ *Handle, state any)  { b.destroy(b.ctx, state) }
func (b *callbackBackend) Lock(_ *Handle, state any)     { b.lock(b.ctx, state) }
func (b *callbackBackend) Unlock(_ *Handle, state any)   { b.unlock(b.ctx, state) }

// SetMutexCallbacks replaces the native backend with caller-supplied mutex
// functions. All four must be given (all-or-nothing), and the hub must still
// be pristine: no backend object created yet, or all of them destroyed again
// by Shutdown. The context value is passed to every callback.
//
// This is a startup-only configuration call. It is not safe to run
// concurrently with any in-flight Lock, Unlock, Init or Destroy.
func (x *Hub) SetMutexCallbacks(context any, init MutexInitFunc, destroy, lock, unlock MutexFunc) error {
	if init == nil || destroy == nil || lock == nil || unlock == nil {
		return fmt.Errorf(`set mutex callbacks: %w`, ErrNilCallback)
	}
	if x.inUse() {
		return fmt.Errorf(`set mutex callbacks: %w`, ErrInUse)
	}

	x.backend = &callbackBackend{
		ctx:     context,
		init:    init,
		destroy: destroy,
		lock:    lock,
		unlock:  unlock,
	}
	return nil
}

// SetAtomicCallbacks replaces the increment/decrement implementation with
// caller-supplied functions. The same argument and pristine-state rules as
// SetMutexCallbacks apply. Before committing, the candidate functions are
// run once against a scratch value; a backend that cannot count to one and
// back is refused with ErrSelfTest rather than silently accepted (the self
// test panics under WithDebugChecks).
func (x *Hub) SetAtomicCallbacks(context any, inc, dec AtomicFunc) error {
	if inc == nil || dec == nil {
		return fmt.Errorf(`set atomic callbacks: %w`, ErrNilCallback)
	}
	if x.inUse() {
		return fmt.Errorf(`set atomic callbacks: %w`, ErrInUse)
	}

	var scratch int32
	if inc(context, &scratch) != 1 || scratch != 1 ||
		dec(context, &scratch) != 0 || scratch != 0 {
		if x.debug {
			panic(`syncbase: atomic callbacks failed self test`)
		}
		return fmt.Errorf(`set atomic callbacks: %w`, ErrSelfTest)
	}

	x.atomics = callbackAtomics{ctx: context, inc: inc, dec: dec}
	return nil
}
