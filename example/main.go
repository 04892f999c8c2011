package main

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/3-lines-studio/storeview"
	"github.com/go-chi/chi/v5"
)

//go:embed all:views
var viewsFS embed.FS

//go:embed all:public
var publicFS embed.FS

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine := storeview.CreateEngine(
		storeview.WithFS(viewsFS),
		storeview.WithLogger(logger),
	)

	app, err := storeview.New(engine, storeview.Settings{Views: "views"},
		storeview.Page("/", "home.html", storeview.WithLocals(func(*http.Request) (storeview.Locals, error) {
			return storeview.Locals{"name": "World"}, nil
		})),
		storeview.Page("/about", "about.md"),
		storeview.Page("/nested", "nested/page.html"),
		storeview.Page("/message/{message}", "home.html", storeview.WithLocals(func(req *http.Request) (storeview.Locals, error) {
			message := chi.URLParam(req, "message")
			if message == "" {
				message = "World"
			}
			return storeview.Locals{"name": message}, nil
		})),
		storeview.Page("/error", "home.html", storeview.WithLocals(func(*http.Request) (storeview.Locals, error) {
			return nil, fmt.Errorf("this is a test error to verify the error page works correctly")
		})),
		storeview.Page("/error-render", "error-render.html"),
	)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	public, err := fs.Sub(publicFS, "public")
	if err != nil {
		log.Fatal(err)
	}

	router := chi.NewRouter()
	router.Get("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	addr := ":8080"
	log.Printf("Serving on http://localhost%s", addr)
	if err := http.ListenAndServe(addr, app.WithPublic(public).Wrap(router)); err != nil {
		log.Fatal(err)
	}
}
