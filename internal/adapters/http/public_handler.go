package http

import (
	"bytes"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/3-lines-studio/storeview/internal/core"
)

// PublicHandler serves files from a public directory and hands every other
// request to next.
type PublicHandler struct {
	public fs.FS
	next   http.Handler
}

func NewPublicHandler(public fs.FS, next http.Handler) http.Handler {
	if public == nil {
		return next
	}
	return &PublicHandler{
		public: public,
		next:   next,
	}
}

func (h *PublicHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	name := strings.TrimPrefix(path.Clean(core.NormalizePath(req.URL.Path)), "/")
	if name == "" || (req.Method != http.MethodGet && req.Method != http.MethodHead) {
		h.next.ServeHTTP(w, req)
		return
	}

	info, err := fs.Stat(h.public, name)
	if err != nil || info.IsDir() {
		h.next.ServeHTTP(w, req)
		return
	}

	data, err := fs.ReadFile(h.public, name)
	if err != nil {
		http.NotFound(w, req)
		return
	}

	w.Header().Set("Content-Type", core.PublicContentType(name))
	http.ServeContent(w, req, info.Name(), info.ModTime(), bytes.NewReader(data))
}
