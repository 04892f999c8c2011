// Package module loads view modules by filename and caches them. Each file
// extension maps to an Extension that compiles source into exports; hooks can
// transform sources under a directory before they reach an Extension.
package module

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/3-lines-studio/storeview/internal/adapters/fs"
)

var (
	ErrUnsupportedSyntax = errors.New("no loader registered for file type")
	ErrModuleNotFound    = errors.New("module not found")
	ErrImportCycle       = errors.New("import cycle")
)

// Module is one loaded file.
type Module struct {
	Filename string
	// Source is what the Extension compiled, after any hook transform.
	Source  []byte
	Exports any
}

// Requirer loads modules on behalf of the module being compiled. Relative
// names resolve against that module's directory.
type Requirer interface {
	Require(name string) (*Module, error)
}

// Extension compiles src into m.Exports.
type Extension func(m *Module, src []byte, req Requirer) error

// Noop loads a file as a module with no exports.
func Noop(m *Module, src []byte, req Requirer) error {
	m.Exports = nil
	return nil
}

type Registry struct {
	mu      sync.RWMutex
	fs      fs.FileSystem
	cache   map[string]*Module
	exts    map[string]Extension
	defined map[string]func() any
	logger  *slog.Logger
}

func NewRegistry(fsys fs.FileSystem, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		fs:      fsys,
		cache:   make(map[string]*Module),
		exts:    make(map[string]Extension),
		defined: make(map[string]func() any),
		logger:  logger,
	}
}

func (r *Registry) Resolve(name string) (string, error) {
	return r.fs.Resolve(name)
}

func (r *Registry) SetExtension(ext string, e Extension) {
	r.mu.Lock()
	r.exts[ext] = e
	r.mu.Unlock()
}

func (r *Registry) Extension(ext string) (Extension, bool) {
	r.mu.RLock()
	e, ok := r.exts[ext]
	r.mu.RUnlock()
	return e, ok && e != nil
}

// Define registers an in-memory module. factory runs on every load, so an
// evicted definition is rebuilt on the next Require.
func (r *Registry) Define(filename string, factory func() any) error {
	key, err := r.fs.Resolve(filename)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.defined[key] = factory
	r.mu.Unlock()
	return nil
}

// Load is Require under the name the render pipeline expects of a loader.
func (r *Registry) Load(filename string) (*Module, error) {
	return r.Require(filename)
}

func (r *Registry) Require(filename string) (*Module, error) {
	return r.require(filename, nil)
}

func (r *Registry) require(filename string, chain []string) (*Module, error) {
	key, err := r.fs.Resolve(filename)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", filename, err)
	}

	r.mu.RLock()
	cached, ok := r.cache[key]
	factory, defined := r.defined[key]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	if slices.Contains(chain, key) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrImportCycle, strings.Join(chain, " -> "), key)
	}

	m := &Module{Filename: key}
	if defined {
		m.Exports = factory()
	} else if err := r.compile(m, append(slices.Clone(chain), key)); err != nil {
		return nil, err
	}

	r.mu.Lock()
	if cached, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return cached, nil
	}
	r.cache[key] = m
	r.mu.Unlock()

	r.logger.Debug("module loaded", "filename", key)
	return m, nil
}

func (r *Registry) compile(m *Module, chain []string) error {
	src, err := r.fs.ReadFile(m.Filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrModuleNotFound, m.Filename)
		}
		return fmt.Errorf("read %s: %w", m.Filename, err)
	}

	ext := filepath.Ext(m.Filename)
	load, ok := r.Extension(ext)
	if !ok {
		return fmt.Errorf("%w: %q (%s)", ErrUnsupportedSyntax, ext, m.Filename)
	}

	m.Source = src
	if err := load(m, src, &requirer{registry: r, parent: m.Filename, chain: chain}); err != nil {
		return fmt.Errorf("load %s: %w", m.Filename, err)
	}
	return nil
}

// Evict drops every cached module whose filename satisfies match and returns
// the dropped filenames in order.
func (r *Registry) Evict(match func(filename string) bool) []string {
	r.mu.Lock()
	var evicted []string
	for key, m := range r.cache {
		if match(m.Filename) {
			delete(r.cache, key)
			evicted = append(evicted, key)
		}
	}
	r.mu.Unlock()

	sort.Strings(evicted)
	return evicted
}

func (r *Registry) Cached() []string {
	r.mu.RLock()
	keys := make([]string, 0, len(r.cache))
	for key := range r.cache {
		keys = append(keys, key)
	}
	r.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

type requirer struct {
	registry *Registry
	parent   string
	chain    []string
}

func (q *requirer) Require(name string) (*Module, error) {
	if !isAbs(name) {
		name = joinDir(q.parent, name)
	}
	return q.registry.require(name, q.chain)
}

func isAbs(name string) bool {
	return filepath.IsAbs(name) || strings.HasPrefix(name, "/")
}

// joinDir resolves name against the directory of parent using the separator
// style parent was resolved with.
func joinDir(parent, name string) string {
	if strings.Contains(parent, "/") && !strings.Contains(parent, "\\") {
		return path.Join(path.Dir(parent), name)
	}
	return filepath.Join(filepath.Dir(parent), name)
}
