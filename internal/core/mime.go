package core

import (
	"mime"
	"path/filepath"
	"strings"
)

// publicTypes covers what a views site keeps next to its views. Anything
// else falls back to the system table.
var publicTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".md":    "text/markdown; charset=utf-8",
	".txt":   "text/plain; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "text/javascript; charset=utf-8",
	".json":  "application/json",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".webp":  "image/webp",
	".ico":   "image/x-icon",
	".woff2": "font/woff2",
}

// PublicContentType picks the Content-Type a public file is served with.
func PublicContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ct, ok := publicTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
