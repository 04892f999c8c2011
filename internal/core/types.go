package core

import "net/http"

type LocalsLoader func(*http.Request) (Locals, error)

type RedirectError interface {
	RedirectURL() string
	RedirectStatusCode() int
}

type ViewConfig struct {
	ViewPath     string
	LocalsLoader LocalsLoader
}

type ViewOption func(*ViewConfig)

func WithLocals(loader LocalsLoader) ViewOption {
	return func(c *ViewConfig) {
		c.LocalsLoader = loader
	}
}

func NewViewConfig(viewPath string, opts ...ViewOption) ViewConfig {
	config := ViewConfig{ViewPath: viewPath}
	for _, opt := range opts {
		opt(&config)
	}
	return config
}
