package usecase

import (
	"github.com/3-lines-studio/storeview/internal/core"
	"github.com/3-lines-studio/storeview/internal/module"
)

// Loader returns the module for a view file, compiling it on first use.
type Loader interface {
	Load(filename string) (*module.Module, error)
}

// The optional loader capabilities below are detected with type assertions.
// A loader that lacks one simply skips that step.

type Resolver interface {
	Resolve(name string) (string, error)
}

type Evictor interface {
	Evict(match func(filename string) bool) []string
}

type Hooker interface {
	Hook(h module.Hook) error
	SetExtension(ext string, e module.Extension)
}

type Beautifier interface {
	Beautify(markup string) string
}

type TransformerFactory func(cfg core.TransformConfig) (module.Transformer, error)
