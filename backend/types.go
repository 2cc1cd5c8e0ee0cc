package backend

import (
	"context"
	"io"

	"github.com/GlintPay/dockercluster/config"
	"github.com/GlintPay/dockercluster/store"
)

type Backends []Backend

// Backend is a source of cluster definitions.
type Backend interface {
	Ordering
	Init(ctxt context.Context, config config.ApplicationConfiguration) error
	GetCurrentState(ctxt context.Context, branch string, refresh bool) (*State, error)
	Close()
}

type Ordering interface {
	Order() int // lower is higher priority
}

type State struct {
	Version string
	Files   FileIterator
}

type FileIterator interface {
	ForEach(f func(f File) error) error
}

type File interface {
	Name() string // slash separated, relative to the backend root
	FullyQualifiedName() string

	IsReadable() (bool, string)
	Data() Blob
	ToStore() (*store.Store, error)
}

type Blob interface {
	Reader() (io.ReadCloser, error)
}
