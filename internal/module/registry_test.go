package module

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/3-lines-studio/storeview/internal/adapters/fs"
)

// textExt exports the source as a string and requires every line that starts
// with "import ".
func textExt(m *Module, src []byte, req Requirer) error {
	var body []string
	for _, line := range strings.Split(string(src), "\n") {
		if name, ok := strings.CutPrefix(line, "import "); ok {
			if _, err := req.Require(name); err != nil {
				return err
			}
			continue
		}
		body = append(body, line)
	}
	m.Exports = strings.Join(body, "\n")
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	dir := t.TempDir()
	r := NewRegistry(fs.NewOSFileSystem(), nil)
	r.SetExtension(".txt", textExt)
	return r, dir
}

func TestRequireCachesModules(t *testing.T) {
	r, dir := newTestRegistry(t)
	file := filepath.Join(dir, "views", "home.txt")
	writeFile(t, file, "hello")

	first, err := r.Require(file)
	require.NoError(t, err)
	assert.Equal(t, "hello", first.Exports)
	assert.Equal(t, []byte("hello"), first.Source)

	writeFile(t, file, "changed")

	second, err := r.Require(file)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "hello", second.Exports)
}

func TestRequireResolvesRelativeImports(t *testing.T) {
	r, dir := newTestRegistry(t)
	home := filepath.Join(dir, "views", "home.txt")
	writeFile(t, home, "import ./partials/nav.txt\nhome")
	writeFile(t, filepath.Join(dir, "views", "partials", "nav.txt"), "nav")

	m, err := r.Require(home)
	require.NoError(t, err)
	assert.Equal(t, "home", m.Exports)

	assert.Equal(t, []string{
		filepath.Join(dir, "views", "home.txt"),
		filepath.Join(dir, "views", "partials", "nav.txt"),
	}, r.Cached())
}

func TestRequireErrors(t *testing.T) {
	r, dir := newTestRegistry(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := r.Require(filepath.Join(dir, "nope.txt"))
		assert.ErrorIs(t, err, ErrModuleNotFound)
	})

	t.Run("unknown extension", func(t *testing.T) {
		file := filepath.Join(dir, "style.css")
		writeFile(t, file, "body{}")

		_, err := r.Require(file)
		assert.ErrorIs(t, err, ErrUnsupportedSyntax)
	})

	t.Run("import cycle", func(t *testing.T) {
		a := filepath.Join(dir, "cycle", "a.txt")
		writeFile(t, a, "import ./b.txt\na")
		writeFile(t, filepath.Join(dir, "cycle", "b.txt"), "import ./a.txt\nb")

		_, err := r.Require(a)
		assert.ErrorIs(t, err, ErrImportCycle)
	})

	t.Run("failed loads are not cached", func(t *testing.T) {
		file := filepath.Join(dir, "broken", "view.txt")
		writeFile(t, file, "import ./missing.txt\nview")

		_, err := r.Require(file)
		require.ErrorIs(t, err, ErrModuleNotFound)
		assert.NotContains(t, r.Cached(), file)
	})
}

func TestNoopExtension(t *testing.T) {
	r, dir := newTestRegistry(t)
	r.SetExtension(".css", Noop)
	file := filepath.Join(dir, "style.css")
	writeFile(t, file, "body{}")

	m, err := r.Require(file)
	require.NoError(t, err)
	assert.Nil(t, m.Exports)
}

func TestDefine(t *testing.T) {
	r, dir := newTestRegistry(t)
	file := filepath.Join(dir, "views", "virtual.view")

	builds := 0
	require.NoError(t, r.Define(file, func() any {
		builds++
		return builds
	}))

	m, err := r.Require(file)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Exports)

	m, err = r.Require(file)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Exports, "cached definition is reused")

	r.Evict(func(string) bool { return true })

	m, err = r.Require(file)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Exports, "evicted definition is rebuilt")
}

func TestEvict(t *testing.T) {
	r, dir := newTestRegistry(t)
	views := filepath.Join(dir, "views")
	writeFile(t, filepath.Join(views, "home.txt"), "home")
	writeFile(t, filepath.Join(views, "about.txt"), "about")
	writeFile(t, filepath.Join(dir, "lib", "shared.txt"), "shared")

	for _, f := range []string{
		filepath.Join(views, "home.txt"),
		filepath.Join(views, "about.txt"),
		filepath.Join(dir, "lib", "shared.txt"),
	} {
		_, err := r.Require(f)
		require.NoError(t, err)
	}

	evicted := r.Evict(func(filename string) bool {
		return strings.HasPrefix(filename, views)
	})

	assert.Equal(t, []string{
		filepath.Join(views, "about.txt"),
		filepath.Join(views, "home.txt"),
	}, evicted)
	assert.Equal(t, []string{filepath.Join(dir, "lib", "shared.txt")}, r.Cached())
}

func TestHook(t *testing.T) {
	r, dir := newTestRegistry(t)
	views := filepath.Join(dir, "views")
	upper := TransformerFunc(func(_ string, src []byte) ([]byte, error) {
		return bytes.ToUpper(src), nil
	})

	require.NoError(t, r.Hook(Hook{
		Only:        views,
		Extensions:  []string{".up"},
		Transformer: upper,
		Target:      ".txt",
	}))

	inside := filepath.Join(views, "shout.up")
	writeFile(t, inside, "hello")
	m, err := r.Require(inside)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", m.Exports)
	assert.Equal(t, []byte("HELLO"), m.Source)

	outside := filepath.Join(dir, "other", "shout.up")
	writeFile(t, outside, "hello")
	_, err = r.Require(outside)
	assert.ErrorIs(t, err, ErrUnsupportedSyntax)
}

func TestHookFallsBackToPreviousLoader(t *testing.T) {
	r, dir := newTestRegistry(t)
	r.SetExtension(".up", textExt)

	require.NoError(t, r.Hook(Hook{
		Only:       filepath.Join(dir, "views"),
		Extensions: []string{".up"},
		Transformer: TransformerFunc(func(_ string, src []byte) ([]byte, error) {
			return bytes.ToUpper(src), nil
		}),
		Target: ".txt",
	}))

	outside := filepath.Join(dir, "other", "quiet.up")
	writeFile(t, outside, "hello")
	m, err := r.Require(outside)
	require.NoError(t, err)
	assert.Equal(t, "hello", m.Exports)
}

func TestHookUnknownTarget(t *testing.T) {
	r, dir := newTestRegistry(t)

	err := r.Hook(Hook{Only: dir, Extensions: []string{".md"}, Target: ".nope"})
	assert.ErrorIs(t, err, ErrUnsupportedSyntax)
}

func TestHookScopedToIOFileSystemRoot(t *testing.T) {
	r := NewRegistry(fs.NewIOFileSystem(fstest.MapFS{
		"shout.up":        &fstest.MapFile{Data: []byte("hello")},
		"nested/shout.up": &fstest.MapFile{Data: []byte("nested")},
	}), nil)
	r.SetExtension(".txt", textExt)

	require.NoError(t, r.Hook(Hook{
		Only:       ".",
		Extensions: []string{".up"},
		Transformer: TransformerFunc(func(_ string, src []byte) ([]byte, error) {
			return bytes.ToUpper(src), nil
		}),
		Target: ".txt",
	}))

	for name, want := range map[string]string{"shout.up": "HELLO", "nested/shout.up": "NESTED"} {
		m, err := r.Require(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, m.Exports, name)
	}
}

func TestRegistryOverIOFileSystem(t *testing.T) {
	r := NewRegistry(fs.NewIOFileSystem(fstest.MapFS{
		"views/home.txt":         &fstest.MapFile{Data: []byte("import partials/nav.txt\nhome")},
		"views/partials/nav.txt": &fstest.MapFile{Data: []byte("nav")},
	}), nil)
	r.SetExtension(".txt", textExt)

	m, err := r.Require("/views/home.txt")
	require.NoError(t, err)
	assert.Equal(t, "views/home.txt", m.Filename)
	assert.Equal(t, []string{"views/home.txt", "views/partials/nav.txt"}, r.Cached())
}

func TestRequireConcurrent(t *testing.T) {
	r, dir := newTestRegistry(t)
	file := filepath.Join(dir, "views", "home.txt")
	writeFile(t, file, "home")

	var wg sync.WaitGroup
	results := make([]*Module, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := r.Require(file)
			if err == nil {
				results[i] = m
			}
		}(i)
	}
	wg.Wait()

	for _, m := range results {
		require.NotNil(t, m)
		assert.Same(t, results[0], m)
	}
}
