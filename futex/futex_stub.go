//go:build !linux

// Package futex provides a syncbase.Backend built directly on Linux futex
// system calls. On other systems New returns ErrUnsupported.
package futex

import (
	"errors"

	"github.com/violin0622/syncbase"
)

var ErrUnsupported = errors.New(`futex backend requires linux`)

type Backend struct{}

func New() (Backend, error) { return Backend{}, ErrUnsupported }

func (Backend) Create(*syncbase.Handle) (any, error) { return nil, ErrUnsupported }
func (Backend) Destroy(*syncbase.Handle, any)        {}
func (Backend) Lock(*syncbase.Handle, any)           {}
func (Backend) Unlock(*syncbase.Handle, any)         {}
