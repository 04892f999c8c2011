package fs

import (
	"errors"
	iofs "io/fs"
	"path"
	"strings"
)

// IOFileSystem serves views from an io/fs.FS such as an embed.FS. Names are
// slash separated and relative to the FS root.
type IOFileSystem struct {
	fsys iofs.FS
}

func NewIOFileSystem(fsys iofs.FS) *IOFileSystem {
	return &IOFileSystem{fsys: fsys}
}

// Resolve returns the root of the FS as "", a prefix of every other key.
func (fs *IOFileSystem) Resolve(name string) (string, error) {
	cleaned := path.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" {
		return "", nil
	}
	if !iofs.ValidPath(cleaned) {
		return "", errors.New("invalid path: " + name)
	}
	return cleaned, nil
}

func (fs *IOFileSystem) ReadFile(path string) ([]byte, error) {
	return iofs.ReadFile(fs.fsys, path)
}

func (fs *IOFileSystem) FileExists(path string) bool {
	_, err := iofs.Stat(fs.fsys, path)
	return err == nil
}
