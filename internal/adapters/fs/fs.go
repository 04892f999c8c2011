package fs

import (
	iofs "io/fs"
)

// FileSystem is where view sources are read from. Resolve turns a name into
// the canonical key modules are cached under.
type FileSystem interface {
	Resolve(name string) (string, error)
	ReadFile(path string) ([]byte, error)
	FileExists(path string) bool
}

var ErrNotExist = iofs.ErrNotExist
