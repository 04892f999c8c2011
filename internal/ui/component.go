// Package ui is a small server-side component library: components write
// markup to an io.Writer, and a Provider makes a Store available to every
// component rendered beneath it.
package ui

import (
	"context"
	"errors"
	"html"
	"io"
	"sort"
	"strings"
)

var (
	ErrNilComponent = errors.New("ui: nil component")
	ErrNoStore      = errors.New("ui: no store in render context; wrap the component in a Provider")
)

// Component renders itself as HTML.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

type ComponentFunc func(ctx context.Context, w io.Writer) error

func (f ComponentFunc) Render(ctx context.Context, w io.Writer) error {
	return f(ctx, w)
}

// RenderToString renders c into a string. Output is deterministic for a
// given component tree and store state.
func RenderToString(ctx context.Context, c Component) (string, error) {
	if c == nil {
		return "", ErrNilComponent
	}

	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type Attrs map[string]string

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Element renders <tag attrs...>children</tag>. Attributes are written in
// key order.
func Element(tag string, attrs Attrs, children ...Component) Component {
	return ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString("<")
		sb.WriteString(tag)

		keys := make([]string, 0, len(attrs))
		for k := range attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(" ")
			sb.WriteString(k)
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(attrs[k]))
			sb.WriteString(`"`)
		}
		sb.WriteString(">")

		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}

		if voidElements[tag] {
			return nil
		}

		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</"+tag+">")
		return err
	})
}

func Text(s string) Component {
	return ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, html.EscapeString(s))
		return err
	})
}

// Raw writes s without escaping.
func Raw(s string) Component {
	return ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func Fragment(children ...Component) Component {
	return ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Connect builds a component from the state of the store supplied by the
// nearest Provider.
func Connect(render func(state State) Component) Component {
	return ComponentFunc(func(ctx context.Context, w io.Writer) error {
		store, ok := StoreFrom(ctx)
		if !ok {
			return ErrNoStore
		}
		child := render(store.GetState())
		if child == nil {
			return nil
		}
		return child.Render(ctx, w)
	})
}
