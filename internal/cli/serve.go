package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/3-lines-studio/storeview"
	clioutput "github.com/3-lines-studio/storeview/internal/adapters/cli"
	"github.com/3-lines-studio/storeview/internal/config"
)

const shutdownTimeout = 5 * time.Second

type ServeOptions struct {
	Addr string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configured routes over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(rootOpts *RootOptions, opts *ServeOptions, cmd *cobra.Command) error {
	cfg, logger, err := setup(rootOpts, cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = opts.Addr
	}

	handler, err := NewHandler(cfg, logger)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	out := clioutput.NewOutput(cmd.ErrOrStderr())
	out.PrintSuccess("Serving %d route(s) from %s", len(cfg.Routes), cfg.Views)
	out.PrintDetail("address", "http://"+ln.Addr().String())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, ln, handler, logger)
}

// NewHandler mounts every configured route on a chi router.
func NewHandler(cfg config.Config, logger *slog.Logger) (http.Handler, error) {
	engine := storeview.CreateEngine(
		storeview.WithOptions(cfg.EngineOptions()),
		storeview.WithLogger(logger),
	)

	routes := make([]storeview.Route, 0, len(cfg.Routes))
	for _, r := range cfg.Routes {
		var viewOpts []storeview.ViewOption
		if len(r.Locals) > 0 {
			viewOpts = append(viewOpts, storeview.WithLocals(staticLocals(r.Locals)))
		}
		routes = append(routes, storeview.Page(r.Pattern, r.View, viewOpts...))
	}

	app, err := storeview.New(engine, storeview.Settings{Views: cfg.Views, Env: cfg.Env}, routes...)
	if err != nil {
		return nil, err
	}
	if cfg.Public != "" {
		app.WithPublic(os.DirFS(cfg.Public))
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	return app.Wrap(r), nil
}

func staticLocals(locals map[string]any) func(*http.Request) (storeview.Locals, error) {
	return func(*http.Request) (storeview.Locals, error) {
		return maps.Clone(locals), nil
	}
}

// Serve runs handler on ln until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Debug("server shut down gracefully")
	return nil
}
