//go:build nothreads

package syncbase

// nativeBackend for builds without threading support. Create publishes a
// non-nil sentinel so readiness checks still pass; everything else is a
// no-op.
type nativeBackend struct{}

func defaultBackend() Backend { return nativeBackend{} }

type nothreadsState struct{}

func (nativeBackend) Create(*Handle) (any, error) { return nothreadsState{}, nil }
func (nativeBackend) Destroy(*Handle, any)        {}
func (nativeBackend) Lock(*Handle, any)           {}
func (nativeBackend) Unlock(*Handle, any)         {}
