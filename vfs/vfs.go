package vfs

import (
	"io"
)

// Element must stay cheap to construct: resolving project trees touches many
// paths that are never opened.
type Element interface {
	Name() string
	Path() string
	IsDirectory() bool
}

type File interface {
	Element
	Size() int64
	Open(readonly bool) error
	Close() error
	Reader() (*io.SectionReader, error)
	Copy(src io.Reader) error
}

type Directory interface {
	Element
	List() ([]string, error)
	GetElement(name string) (Element, error)
}
