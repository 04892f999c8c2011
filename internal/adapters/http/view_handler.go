package http

import (
	"bytes"
	"context"
	"errors"
	"html"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/3-lines-studio/storeview/internal/adapters/logging"
	"github.com/3-lines-studio/storeview/internal/core"
	"github.com/3-lines-studio/storeview/internal/usecase"
)

const RequestIDHeader = "X-Request-Id"

type ViewRenderer interface {
	RenderView(ctx context.Context, input usecase.RenderViewInput) usecase.RenderViewOutput
}

type ViewHandler struct {
	renderer ViewRenderer
	config   core.ViewConfig
	views    string
	env      string
	logger   *slog.Logger
}

func NewViewHandler(
	renderer ViewRenderer,
	config core.ViewConfig,
	views string,
	env string,
	logger *slog.Logger,
) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewHandler{
		renderer: renderer,
		config:   config,
		views:    views,
		env:      env,
		logger:   logger,
	}
}

func (h *ViewHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, requestID)

	logger := h.logger.With("request_id", requestID, "view", h.config.ViewPath)
	req = req.WithContext(logging.WithLogger(req.Context(), logger))

	locals := core.Locals{}
	if h.config.LocalsLoader != nil {
		loaded, err := h.config.LocalsLoader(req)
		if err != nil {
			h.handleLocalsError(w, req, requestID, err)
			return
		}
		if loaded != nil {
			locals = loaded
		}
	}

	output := h.renderer.RenderView(req.Context(), usecase.RenderViewInput{
		Filename: core.ViewFilename(h.views, h.config.ViewPath),
		Views:    h.views,
		Env:      h.env,
		Locals:   locals,
	})
	if output.Error != nil {
		logger.Error("render failed", "error", output.Error)
		h.serveError(w, requestID, output.Error)
		return
	}

	etag := core.ETag(output.HTML)
	w.Header().Set("ETag", etag)
	if req.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	logger.Debug("view served", "bytes", len(output.HTML))
	h.serveHTML(w, output.HTML)
}

func (h *ViewHandler) handleLocalsError(w http.ResponseWriter, req *http.Request, requestID string, err error) {
	var redirectErr core.RedirectError
	if !errors.As(err, &redirectErr) {
		logging.FromContext(req.Context()).Error("locals loader failed", "error", err)
		h.serveError(w, requestID, err)
		return
	}

	status := redirectErr.RedirectStatusCode()
	if status == 0 {
		status = http.StatusFound
	}
	http.Redirect(w, req, redirectErr.RedirectURL(), status)
}

func (h *ViewHandler) serveHTML(w http.ResponseWriter, markup string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(markup))
}

func (h *ViewHandler) serveError(w http.ResponseWriter, requestID string, err error) {
	data := core.ErrorData{
		View:      h.config.ViewPath,
		Message:   err.Error(),
		RequestID: requestID,
		IsDev:     core.IsDevelopment(h.env),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	var buf bytes.Buffer
	if err := core.ErrorTemplate.Execute(&buf, data); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<!doctype html><html><body><pre>" + html.EscapeString(data.Message) + "</pre></body></html>"))
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(buf.Bytes())
}
