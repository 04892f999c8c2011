package ui

import (
	"context"
	"html/template"
	"io"
)

type storeKey struct{}

func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

func StoreFrom(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(storeKey{}).(*Store)
	return store, ok && store != nil
}

// Provider renders child with store available to it and all of its
// descendants.
func Provider(store *Store, child Component) Component {
	return ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if store == nil {
			return ErrNoStore
		}
		if child == nil {
			return ErrNilComponent
		}
		return child.Render(WithStore(ctx, store), w)
	})
}

// TemplateData is the value a TemplateComponent executes its template with.
type TemplateData struct {
	State State
	Store *Store
}

// TemplateComponent renders an html/template against the provider's store.
type TemplateComponent struct {
	tmpl *template.Template
}

func Template(tmpl *template.Template) *TemplateComponent {
	return &TemplateComponent{tmpl: tmpl}
}

func (c *TemplateComponent) Render(ctx context.Context, w io.Writer) error {
	store, ok := StoreFrom(ctx)
	if !ok {
		return ErrNoStore
	}
	return c.tmpl.Execute(w, TemplateData{
		State: store.GetState(),
		Store: store,
	})
}

func (c *TemplateComponent) Name() string {
	return c.tmpl.Name()
}
