package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/3-lines-studio/storeview/internal/ui"
)

var (
	ErrMalformedView = errors.New("malformed view module")
	ErrMissingViews  = errors.New("settings.views is required")
	ErrViewPanic     = errors.New("view panicked")
)

type Locals map[string]any

type View struct {
	Component ui.Component
	GetStore  func(locals Locals) (*ui.Store, error)
	Pre       func(locals Locals, store *ui.Store) (string, error)
	Post      func(locals Locals, store *ui.Store) (string, error)
}

// DefaultExporter is implemented by module exports that nest the view under a
// default export.
type DefaultExporter interface {
	DefaultExport() any
}

type ESModule struct {
	Default any
}

func (m ESModule) DefaultExport() any {
	return m.Default
}

// ResolveView turns module exports into a View. A default export is unwrapped
// once; anything that is not a complete View is rejected with
// ErrMalformedView.
func ResolveView(exports any) (*View, error) {
	if d, ok := exports.(DefaultExporter); ok {
		exports = d.DefaultExport()
	}

	var view *View
	switch v := exports.(type) {
	case *View:
		view = v
	case View:
		view = &v
	}
	if view == nil {
		return nil, fmt.Errorf("%w: exports are %T, want a view or a default export holding one", ErrMalformedView, exports)
	}

	var missing []string
	if view.Component == nil {
		missing = append(missing, "Component")
	}
	if view.GetStore == nil {
		missing = append(missing, "GetStore")
	}
	if view.Pre == nil {
		missing = append(missing, "Pre")
	}
	if view.Post == nil {
		missing = append(missing, "Post")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedView, strings.Join(missing, ", "))
	}

	return view, nil
}
