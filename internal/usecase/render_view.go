package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/3-lines-studio/storeview/internal/core"
	"github.com/3-lines-studio/storeview/internal/module"
	"github.com/3-lines-studio/storeview/internal/ui"
)

// NativeExtension is the loader transformed sources are handed to.
const NativeExtension = ".html"

var stylesheetExtensions = []string{".css", ".scss"}

type RenderViewInput struct {
	Filename string
	Views    string
	Env      string
	Locals   core.Locals
}

type RenderViewOutput struct {
	HTML    string
	Evicted []string
	Error   error
}

type ViewService struct {
	opts           core.EngineOptions
	loader         Loader
	beautifier     Beautifier
	newTransformer TransformerFactory
	logger         *slog.Logger

	initOnce sync.Once
	viewDir  string
	pattern  *regexp.Regexp
	initErr  error

	registerOnce sync.Once
	registerErr  error
}

func NewViewService(opts core.EngineOptions, loader Loader, beautifier Beautifier, newTransformer TransformerFactory, logger *slog.Logger) *ViewService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewService{
		opts:           opts,
		loader:         loader,
		beautifier:     beautifier,
		newTransformer: newTransformer,
		logger:         logger,
	}
}

func (s *ViewService) RenderView(ctx context.Context, input RenderViewInput) RenderViewOutput {
	start := time.Now()

	if err := s.init(input.Views); err != nil {
		return RenderViewOutput{Error: err}
	}
	if err := s.register(); err != nil {
		return RenderViewOutput{Error: err}
	}

	locals := input.Locals
	if locals == nil {
		locals = core.Locals{}
	}

	markup, evicted, err := s.render(ctx, input.Filename, input.Env, locals)
	if err != nil {
		return RenderViewOutput{Evicted: evicted, Error: err}
	}

	if s.opts.Beautify && s.beautifier != nil {
		markup = s.beautifier.Beautify(markup)
	}

	s.logger.Debug("view rendered", "filename", input.Filename, "duration", time.Since(start), "evicted", len(evicted))
	return RenderViewOutput{HTML: markup, Evicted: evicted}
}

// init captures the views directory of the first render. Later renders keep
// that directory even if they pass another one. A render without a views
// directory fails before anything is captured.
func (s *ViewService) init(views string) error {
	if views == "" {
		return core.ErrMissingViews
	}
	s.initOnce.Do(func() {
		dir := filepath.Clean(views)
		if r, ok := s.loader.(Resolver); ok {
			resolved, err := r.Resolve(views)
			if err != nil {
				s.initErr = fmt.Errorf("resolve views dir %s: %w", views, err)
				return
			}
			dir = resolved
		}

		s.viewDir = dir
		s.pattern = core.ViewDirPattern(dir)
	})
	return s.initErr
}

func (s *ViewService) register() error {
	s.registerOnce.Do(func() {
		if !s.opts.TransformViews {
			return
		}
		h, ok := s.loader.(Hooker)
		if !ok {
			s.logger.Debug("loader does not accept hooks, skipping transform registration")
			return
		}
		if s.newTransformer == nil {
			s.registerErr = fmt.Errorf("transform views: no transformer configured")
			return
		}

		t, err := s.newTransformer(s.opts.Transform)
		if err != nil {
			s.registerErr = fmt.Errorf("transform views: %w", err)
			return
		}

		err = h.Hook(module.Hook{
			Only:        s.viewDir,
			Extensions:  s.opts.Transform.Extensions,
			Transformer: t,
			Target:      NativeExtension,
		})
		if err != nil {
			s.registerErr = fmt.Errorf("transform views: %w", err)
			return
		}

		for _, ext := range stylesheetExtensions {
			h.SetExtension(ext, module.Noop)
		}
	})
	return s.registerErr
}

func (s *ViewService) render(ctx context.Context, filename, env string, locals core.Locals) (markup string, evicted []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			markup = ""
			err = fmt.Errorf("%w: %s: %v", core.ErrViewPanic, filename, r)
		}
		if core.IsDevelopment(env) {
			evicted = s.evict()
		}
	}()

	m, err := s.loader.Load(filename)
	if err != nil {
		return "", nil, fmt.Errorf("load view %s: %w", filename, err)
	}

	view, err := core.ResolveView(m.Exports)
	if err != nil {
		return "", nil, fmt.Errorf("view %s: %w", filename, err)
	}

	store, err := view.GetStore(locals)
	if err != nil {
		return "", nil, fmt.Errorf("get store %s: %w", filename, err)
	}

	body, err := ui.RenderToString(ctx, ui.Provider(store, view.Component))
	if err != nil {
		return "", nil, fmt.Errorf("render %s: %w", filename, err)
	}

	pre, err := view.Pre(locals, store)
	if err != nil {
		return "", nil, fmt.Errorf("pre %s: %w", filename, err)
	}
	post, err := view.Post(locals, store)
	if err != nil {
		return "", nil, fmt.Errorf("post %s: %w", filename, err)
	}

	return core.AssembleDocument(s.opts.Doctype, pre, body, post), nil, nil
}

func (s *ViewService) evict() []string {
	e, ok := s.loader.(Evictor)
	if !ok || s.pattern == nil {
		return nil
	}
	evicted := e.Evict(s.pattern.MatchString)
	if len(evicted) > 0 {
		s.logger.Debug("evicted view modules", "count", len(evicted))
	}
	return evicted
}
