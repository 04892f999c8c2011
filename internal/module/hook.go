package module

import (
	"fmt"
	"strings"
)

// Transformer rewrites a source file into the syntax of another extension.
type Transformer interface {
	Transform(filename string, src []byte) ([]byte, error)
}

type TransformerFunc func(filename string, src []byte) ([]byte, error)

func (f TransformerFunc) Transform(filename string, src []byte) ([]byte, error) {
	return f(filename, src)
}

// Hook routes files with one of Extensions that live under Only through
// Transformer and then through the loader registered for Target. Files
// outside Only keep whatever loader the extension had before the hook.
type Hook struct {
	Only        string
	Extensions  []string
	Transformer Transformer
	Target      string
}

func (r *Registry) Hook(h Hook) error {
	only, err := r.fs.Resolve(h.Only)
	if err != nil {
		return fmt.Errorf("resolve hook scope %s: %w", h.Only, err)
	}

	target, ok := r.Extension(h.Target)
	if !ok {
		return fmt.Errorf("%w: hook target %q", ErrUnsupportedSyntax, h.Target)
	}

	for _, ext := range h.Extensions {
		prev, hadPrev := r.Extension(ext)
		r.SetExtension(ext, func(m *Module, src []byte, req Requirer) error {
			if !strings.HasPrefix(m.Filename, only) {
				if !hadPrev {
					return fmt.Errorf("%w: %q (%s)", ErrUnsupportedSyntax, ext, m.Filename)
				}
				return prev(m, src, req)
			}

			out, err := h.Transformer.Transform(m.Filename, src)
			if err != nil {
				return fmt.Errorf("transform: %w", err)
			}
			m.Source = out
			return target(m, out, req)
		})
	}

	r.logger.Debug("transform hook registered", "only", only, "extensions", h.Extensions, "target", h.Target)
	return nil
}
