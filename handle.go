package syncbase

import "sync/atomic"

// Handle is an opaque slot for one mutex. The zero value is uninitialized;
// pass it to Hub.Init (or let the first Hub.Lock trip the misuse path) to
// make it ready. A Handle must not be copied after first use.
type Handle struct {
	slot atomic.Pointer[slot]
}

// slot boxes the backend-specific state so that publication is a single
// pointer store. A handle is ready iff its slot pointer is non-nil; the state
// inside a published slot never changes.
type slot struct {
	state any
}

// Ready reports whether the handle has been initialized and not yet
// destroyed.
func (h *Handle) Ready() bool {
	return h.slot.Load() != nil
}

// State returns the backend state published into the handle, or nil if the
// handle is uninitialized. Callback backends use this to recover whatever
// their init function returned.
func (h *Handle) State() any {
	if s := h.slot.Load(); s != nil {
		return s.state
	}
	return nil
}

func (h *Handle) load() *slot       { return h.slot.Load() }
func (h *Handle) publish(state any) { h.slot.Store(&slot{state: state}) }
func (h *Handle) clear()            { h.slot.Store(nil) }
