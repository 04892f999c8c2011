// Package viewfile compiles .html view files: YAML front matter describing
// the store, pre and post fragments and imports, followed by an html/template
// body that renders the component.
package viewfile

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"maps"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/3-lines-studio/storeview/internal/core"
	"github.com/3-lines-studio/storeview/internal/module"
	"github.com/3-lines-studio/storeview/internal/ui"
)

const delimiter = "---"

var ErrFrontMatter = errors.New("invalid front matter")

type FrontMatter struct {
	Name    string         `yaml:"name"`
	Store   map[string]any `yaml:"store"`
	Pre     string         `yaml:"pre"`
	Post    string         `yaml:"post"`
	Imports []string       `yaml:"imports"`
	Default *FrontMatter   `yaml:"default"`
}

type Document struct {
	Meta FrontMatter
	Body string
}

// Split separates front matter from the body. A document without a leading
// "---" line has no front matter.
func Split(src []byte) (meta []byte, body []byte, err error) {
	text := bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, found := bytes.Cut(text, []byte("\n"))
	if !found || strings.TrimSpace(string(first)) != delimiter {
		return nil, text, nil
	}

	var metaLines [][]byte
	for len(rest) > 0 || found {
		var line []byte
		line, rest, found = bytes.Cut(rest, []byte("\n"))
		if strings.TrimSpace(string(line)) == delimiter {
			return bytes.Join(metaLines, []byte("\n")), rest, nil
		}
		metaLines = append(metaLines, line)
		if !found {
			break
		}
	}
	return nil, nil, fmt.Errorf("%w: missing closing %q", ErrFrontMatter, delimiter)
}

func Parse(src []byte) (*Document, error) {
	meta, body, err := Split(src)
	if err != nil {
		return nil, err
	}

	doc := &Document{Body: string(body)}
	if len(bytes.TrimSpace(meta)) > 0 {
		if err := yaml.Unmarshal(meta, &doc.Meta); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
		}
	}
	return doc, nil
}

// Extension is the module loader for .html views.
func Extension(m *module.Module, src []byte, req module.Requirer) error {
	doc, err := Parse(src)
	if err != nil {
		return err
	}

	meta := doc.Meta
	if meta.Default != nil {
		meta = *meta.Default
	}

	name := partialName(m.Filename, meta.Name)
	tmpl, err := template.New(name).Parse(doc.Body)
	if err != nil {
		return fmt.Errorf("parse component: %w", err)
	}

	for _, imp := range meta.Imports {
		dep, err := req.Require(imp)
		if err != nil {
			return fmt.Errorf("import %s: %w", imp, err)
		}
		if dep.Exports == nil {
			continue
		}
		if err := addPartial(tmpl, dep); err != nil {
			return fmt.Errorf("import %s: %w", imp, err)
		}
	}

	pre, err := template.New(name + ":pre").Parse(meta.Pre)
	if err != nil {
		return fmt.Errorf("parse pre: %w", err)
	}
	post, err := template.New(name + ":post").Parse(meta.Post)
	if err != nil {
		return fmt.Errorf("parse post: %w", err)
	}

	view := &core.View{
		Component: ui.Template(tmpl),
		GetStore:  storeFactory(meta.Store),
		Pre:       fragment(pre),
		Post:      fragment(post),
	}

	if doc.Meta.Default != nil {
		m.Exports = core.ESModule{Default: view}
	} else {
		m.Exports = view
	}
	return nil
}

func addPartial(tmpl *template.Template, dep *module.Module) error {
	doc, err := Parse(dep.Source)
	if err != nil {
		return err
	}
	meta := doc.Meta
	if meta.Default != nil {
		meta = *meta.Default
	}
	_, err = tmpl.New(partialName(dep.Filename, meta.Name)).Parse(doc.Body)
	return err
}

func partialName(filename, declared string) string {
	if declared != "" {
		return declared
	}
	base := path.Base(filepath.ToSlash(filename))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// storeFactory builds the store from the declared initial state with the
// request locals laid over it.
func storeFactory(initial map[string]any) func(core.Locals) (*ui.Store, error) {
	return func(locals core.Locals) (*ui.Store, error) {
		state := ui.State{}
		maps.Copy(state, initial)
		maps.Copy(state, locals)
		return ui.NewStore(nil, state), nil
	}
}

type FragmentData struct {
	Locals core.Locals
	State  ui.State
	Store  *ui.Store
}

func fragment(tmpl *template.Template) func(core.Locals, *ui.Store) (string, error) {
	return func(locals core.Locals, store *ui.Store) (string, error) {
		data := FragmentData{Locals: locals}
		if store != nil {
			data.State = store.GetState()
			data.Store = store
		}

		var sb strings.Builder
		if err := tmpl.Execute(&sb, data); err != nil {
			return "", err
		}
		return sb.String(), nil
	}
}
