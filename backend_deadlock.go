//go:build deadlock && !nothreads

package syncbase

import deadlock "github.com/sasha-s/go-deadlock"

// nativeBackend allocates one deadlock-detecting mutex per handle.
// Compiled in with -tags=deadlock.
type nativeBackend struct{}

func defaultBackend() Backend { return nativeBackend{} }

func (nativeBackend) Create(*Handle) (any, error) { return new(deadlock.Mutex), nil }
func (nativeBackend) Destroy(*Handle, any)        {}
func (nativeBackend) Lock(_ *Handle, state any)   { state.(*deadlock.Mutex).Lock() }
func (nativeBackend) Unlock(_ *Handle, state any) { state.(*deadlock.Mutex).Unlock() }
