package server

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// siteHandler serves the built site directory. Directory requests fall back
// to an index.html inside them; unknown API paths get a JSON 404 instead of
// site content so the page script sees a real error.
type siteHandler struct {
	dir    string
	static http.Handler
}

func newSiteHandler(dir string) http.Handler {
	return &siteHandler{
		dir:    dir,
		static: http.FileServer(http.Dir(dir)),
	}
}

func (h *siteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	urlPath := path.Clean(r.URL.Path)

	// API paths reaching this handler were not matched by any route.
	if strings.HasPrefix(urlPath, "/api/") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"not_found","message":"endpoint not found"}}`))
		return
	}

	// Serve rewritten markdown sources as plain text so hybrid output
	// (markdown with spliced HTML blocks) is at least inspectable.
	if strings.HasSuffix(urlPath, ".md") || strings.HasSuffix(urlPath, ".qmd") {
		if _, err := os.Stat(filepath.Join(h.dir, filepath.FromSlash(urlPath))); err == nil {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
	}

	h.static.ServeHTTP(w, r)
}
