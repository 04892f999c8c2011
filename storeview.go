// Package storeview renders view files on the server: it loads a view module,
// renders its component inside a store provider and splices the markup into
// a document.
package storeview

import (
	"context"
	"errors"
	iofs "io/fs"
	"log/slog"

	"github.com/3-lines-studio/storeview/internal/adapters/beautify"
	"github.com/3-lines-studio/storeview/internal/adapters/env"
	"github.com/3-lines-studio/storeview/internal/adapters/fs"
	"github.com/3-lines-studio/storeview/internal/adapters/markdown"
	"github.com/3-lines-studio/storeview/internal/core"
	"github.com/3-lines-studio/storeview/internal/module"
	"github.com/3-lines-studio/storeview/internal/usecase"
	"github.com/3-lines-studio/storeview/internal/viewfile"
)

type (
	Locals          = core.Locals
	View            = core.View
	ESModule        = core.ESModule
	EngineOptions   = core.EngineOptions
	TransformConfig = core.TransformConfig
	Module          = module.Module
	Loader          = usecase.Loader
)

var (
	ErrMalformedView     = core.ErrMalformedView
	ErrMissingViews      = core.ErrMissingViews
	ErrViewPanic         = core.ErrViewPanic
	ErrUnsupportedSyntax = module.ErrUnsupportedSyntax
	ErrModuleNotFound    = module.ErrModuleNotFound
	ErrUnknownPreset     = markdown.ErrUnknownPreset

	ErrNoRegistry = errors.New("engine uses a custom loader")
)

// Settings are the host settings passed with every render.
type Settings struct {
	// Views is the views directory. The first render fixes it for the
	// lifetime of the engine.
	Views string
	// Env is the render environment. Empty means STOREVIEW_ENV, or
	// "production" when that is unset.
	Env string
}

func (s Settings) environment() string {
	if s.Env != "" {
		return s.Env
	}
	return env.DetectEnv()
}

type RenderOptions struct {
	Settings Settings
	Locals   Locals
}

// Callback receives either an error or the rendered markup, never both.
type Callback func(err error, markup string)

type Option func(*engineConfig)

type engineConfig struct {
	options EngineOptions
	logger  *slog.Logger
	loader  Loader
	fsys    fs.FileSystem
}

func WithDoctype(doctype string) Option {
	return func(c *engineConfig) {
		c.options.Doctype = doctype
	}
}

func WithBeautify(beautify bool) Option {
	return func(c *engineConfig) {
		c.options.Beautify = beautify
	}
}

func WithTransformViews(transform bool) Option {
	return func(c *engineConfig) {
		c.options.TransformViews = transform
	}
}

// WithTransform replaces the whole transform configuration.
func WithTransform(cfg TransformConfig) Option {
	return func(c *engineConfig) {
		c.options.Transform = cfg
	}
}

// WithOptions replaces every engine option at once.
func WithOptions(options EngineOptions) Option {
	return func(c *engineConfig) {
		c.options = options
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithLoader substitutes the module loader. Loaders that also implement
// Resolve, Evict or Hook take part in path resolution, development eviction
// and transform registration.
func WithLoader(loader Loader) Option {
	return func(c *engineConfig) {
		c.loader = loader
	}
}

// WithFS loads views from fsys instead of the operating system.
func WithFS(fsys iofs.FS) Option {
	return func(c *engineConfig) {
		c.fsys = fs.NewIOFileSystem(fsys)
	}
}

type Engine struct {
	options  EngineOptions
	service  *usecase.ViewService
	registry *module.Registry
	logger   *slog.Logger
}

func CreateEngine(opts ...Option) *Engine {
	cfg := engineConfig{options: core.DefaultEngineOptions()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.fsys == nil {
		cfg.fsys = fs.NewOSFileSystem()
	}

	e := &Engine{
		options: cfg.options.Clone(),
		logger:  cfg.logger,
	}

	loader := cfg.loader
	if loader == nil {
		e.registry = module.NewRegistry(cfg.fsys, cfg.logger)
		e.registry.SetExtension(usecase.NativeExtension, viewfile.Extension)
		loader = e.registry
	}

	e.service = usecase.NewViewService(e.options, loader, beautify.HTML{}, newTransformer, cfg.logger)
	return e
}

func newTransformer(cfg core.TransformConfig) (module.Transformer, error) {
	t, err := markdown.New(cfg)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Options returns a copy of the options the engine was built with.
func (e *Engine) Options() EngineOptions {
	return e.options.Clone()
}

// RenderFile renders filename and calls callback exactly once before
// returning.
func (e *Engine) RenderFile(filename string, options RenderOptions, callback Callback) {
	markup, err := e.RenderContext(context.Background(), filename, options)
	if err != nil {
		callback(err, "")
		return
	}
	callback(nil, markup)
}

func (e *Engine) Render(filename string, options RenderOptions) (string, error) {
	return e.RenderContext(context.Background(), filename, options)
}

func (e *Engine) RenderContext(ctx context.Context, filename string, options RenderOptions) (string, error) {
	output := e.service.RenderView(ctx, e.input(filename, options))
	if output.Error != nil {
		return "", output.Error
	}
	return output.HTML, nil
}

func (e *Engine) input(filename string, options RenderOptions) usecase.RenderViewInput {
	return usecase.RenderViewInput{
		Filename: filename,
		Views:    options.Settings.Views,
		Env:      options.Settings.environment(),
		Locals:   options.Locals,
	}
}

// Define registers a view module built in Go. The factory runs again after a
// development eviction.
func (e *Engine) Define(filename string, factory func() any) error {
	if e.registry == nil {
		return ErrNoRegistry
	}
	return e.registry.Define(filename, factory)
}

// Cached lists the filenames of the modules currently loaded.
func (e *Engine) Cached() []string {
	if e.registry == nil {
		return nil
	}
	return e.registry.Cached()
}
