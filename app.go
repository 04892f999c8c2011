package storeview

import (
	"fmt"
	iofs "io/fs"
	"net/http"

	httpadapter "github.com/3-lines-studio/storeview/internal/adapters/http"
	"github.com/3-lines-studio/storeview/internal/core"
)

type RedirectError = core.RedirectError

type ViewOption = core.ViewOption

type Route struct {
	Pattern  string
	ViewPath string
	Options  []ViewOption
}

// App serves views over HTTP, one route per view.
type App struct {
	engine   *Engine
	settings Settings
	routes   []Route
	public   iofs.FS
}

type router interface {
	http.Handler
	Handle(pattern string, handler http.Handler)
}

func New(engine *Engine, settings Settings, routes ...Route) (*App, error) {
	if engine == nil {
		return nil, fmt.Errorf("storeview: nil engine")
	}
	if settings.Views == "" {
		return nil, ErrMissingViews
	}
	for _, route := range routes {
		if err := core.ValidateRoutePath(route.Pattern); err != nil {
			return nil, fmt.Errorf("route %q: %w", route.Pattern, err)
		}
		if route.ViewPath == "" {
			return nil, fmt.Errorf("route %q: empty view path", route.Pattern)
		}
	}

	return &App{
		engine:   engine,
		settings: settings,
		routes:   routes,
	}, nil
}

// WithPublic serves files from public ahead of the view routes.
func (a *App) WithPublic(public iofs.FS) *App {
	a.public = public
	return a
}

func (a *App) Wrap(api router) http.Handler {
	if api == nil {
		panic("storeview: nil router passed to Wrap; use app.Handler()")
	}

	env := a.settings.environment()
	for _, route := range a.routes {
		config := core.NewViewConfig(route.ViewPath, route.Options...)
		handler := httpadapter.NewViewHandler(a.engine.service, config, a.settings.Views, env, a.engine.logger)
		api.Handle(route.Pattern, handler)
	}

	return httpadapter.NewPublicHandler(a.public, api)
}

func (a *App) Handler() http.Handler {
	return a.Wrap(http.NewServeMux())
}

func Page(pattern string, viewPath string, opts ...ViewOption) Route {
	return Route{
		Pattern:  pattern,
		ViewPath: viewPath,
		Options:  opts,
	}
}

func WithLocals(loader func(*http.Request) (Locals, error)) ViewOption {
	return core.WithLocals(loader)
}
