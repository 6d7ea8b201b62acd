package syncbase

import "sync/atomic"

// incDecOps is the active increment/decrement implementation. Dispatch
// priority: callbacks installed by SetAtomicCallbacks, then whatever
// platformAtomics selected at build time (native instructions by default,
// the inc/dec mutex with -tags=mutexatomics, plain updates with
// -tags=nothreads).
type incDecOps interface {
	increment(p *int32) int32
	decrement(p *int32) int32
}

// Increment atomically adds one to *p and returns the new value.
func (x *Hub) Increment(p *int32) int32 {
	return x.atomics.increment(p)
}

// Decrement atomically subtracts one from *p and returns the new value.
func (x *Hub) Decrement(p *int32) int32 {
	return x.atomics.decrement(p)
}

// nativeAtomics uses the platform's atomic instructions.
type nativeAtomics struct{}

func (nativeAtomics) increment(p *int32) int32 { return atomic.AddInt32(p, 1) }
func (nativeAtomics) decrement(p *int32) int32 { return atomic.AddInt32(p, -1) }

// mutexAtomics serializes updates through the dedicated inc/dec mutex, for
// builds without native atomic instructions. The dedicated handle keeps this
// path from contending with unrelated global-mutex critical sections.
type mutexAtomics struct{ hub *Hub }

func (a mutexAtomics) increment(p *int32) int32 { return a.apply(p, 1) }
func (a mutexAtomics) decrement(p *int32) int32 { return a.apply(p, -1) }

func (a mutexAtomics) apply(p *int32, d int32) int32 {
	x := a.hub
	x.initGlobal()

	sl := x.incDec.load()
	if sl == nil {
		// Creation of the inc/dec mutex failed earlier; degrade to an
		// unsynchronized update rather than crash.
		*p += d
		return *p
	}

	x.backend.Lock(&x.incDec, sl.state)
	*p += d
	v := *p
	x.backend.Unlock(&x.incDec, sl.state)
	return v
}

// unsyncAtomics is for single-threaded builds only.
type unsyncAtomics struct{}

func (unsyncAtomics) increment(p *int32) int32 { *p++; return *p }
func (unsyncAtomics) decrement(p *int32) int32 { *p--; return *p }

// callbackAtomics delegates to the functions installed by
// SetAtomicCallbacks.
type callbackAtomics struct {
	ctx any
	inc AtomicFunc
	dec AtomicFunc
}

func (a callbackAtomics) increment(p *int32) int32 { return a.inc(a.ctx, p) }
func (a callbackAtomics) decrement(p *int32) int32 { return a.dec(a.ctx, p) }
