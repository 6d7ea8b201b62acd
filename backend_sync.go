//go:build !deadlock && !nothreads

package syncbase

import "sync"

// nativeBackend allocates one sync.Mutex per handle. Build with
// -tags=deadlock to swap in deadlock-detecting mutexes, or with
// -tags=nothreads for single-threaded builds that need no locking at all.
type nativeBackend struct{}

func defaultBackend() Backend { return nativeBackend{} }

func (nativeBackend) Create(*Handle) (any, error) { return new(sync.Mutex), nil }
func (nativeBackend) Destroy(*Handle, any)        {}
func (nativeBackend) Lock(_ *Handle, state any)   { state.(*sync.Mutex).Lock() }
func (nativeBackend) Unlock(_ *Handle, state any) { state.(*sync.Mutex).Unlock() }
