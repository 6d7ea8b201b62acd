//go:build linux

// Package futex provides a syncbase.Backend built directly on Linux futex
// system calls, bypassing the Go runtime's mutex implementation.
//
// A waiting Lock parks the calling OS thread in the kernel, not just the
// goroutine, so this backend is only appropriate where that is acceptable
// (short critical sections, cgo-heavy hosts). For everything else the
// default backend is the right choice.
package futex

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/violin0622/syncbase"
)

const (
	unlocked  = 0
	locked    = 1
	contended = 2
)

// Futex operation codes, from the kernel's futex.h. x/sys/unix exports the
// syscall number but not these.
const (
	futexOpWait      = 0
	futexOpWake      = 1
	futexPrivateFlag = 0x80
)

// Backend allocates one futex word per handle.
type Backend struct{}

func New() (Backend, error) { return Backend{}, nil }

func (Backend) Create(*syncbase.Handle) (any, error) { return new(Mutex), nil }
func (Backend) Destroy(*syncbase.Handle, any)        {}
func (Backend) Lock(_ *syncbase.Handle, state any)   { state.(*Mutex).Lock() }
func (Backend) Unlock(_ *syncbase.Handle, state any) { state.(*Mutex).Unlock() }

// Mutex is a minimal futex-based mutual exclusion lock. The zero value is
// unlocked. It is non-recursive and does not track ownership.
type Mutex struct {
	word uint32
}

func (m *Mutex) Lock() {
	// Fast path: take an uncontended lock.
	if atomic.CompareAndSwapUint32(&m.word, unlocked, locked) {
		return
	}

	// Mark the lock contended and sleep until the word goes back to
	// unlocked. A swap observing unlocked means we took the lock (and
	// pessimistically marked it contended, costing one extra wake).
	for atomic.SwapUint32(&m.word, contended) != unlocked {
		futexWait(&m.word, contended)
	}
}

func (m *Mutex) Unlock() {
	if atomic.SwapUint32(&m.word, unlocked) == contended {
		futexWake(&m.word, 1)
	}
}

// futexWait blocks the calling thread while *addr == val. Spurious wakeups
// are fine; the caller rechecks the word.
func futexWait(addr *uint32, val uint32) {
	unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexOpWait|futexPrivateFlag),
		uintptr(val), 0, 0, 0)
}

func futexWake(addr *uint32, n uint32) {
	unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexOpWake|futexPrivateFlag),
		uintptr(n), 0, 0, 0)
}
