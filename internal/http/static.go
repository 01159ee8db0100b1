package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// staticHandler serves the built web UI. Paths that do not name a file get
// index.html so client-side routes survive a reload.
type staticHandler struct {
	root       http.FileSystem
	indexPath  string
	fileServer http.Handler
}

// newStaticHandler returns false when dir does not exist or has no
// index.html, in which case the API runs without a UI.
func newStaticHandler(dir string) (*staticHandler, bool) {
	if dir == "" {
		return nil, false
	}

	indexPath := filepath.Join(dir, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		return nil, false
	}

	root := http.Dir(dir)
	return &staticHandler{
		root:       root,
		indexPath:  indexPath,
		fileServer: http.FileServer(root),
	}, true
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		handleNotFound(w, r)
		return
	}

	// Unknown API routes stay JSON.
	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		handleNotFound(w, r)
		return
	}

	if h.isFile(path.Clean("/" + r.URL.Path)) {
		h.fileServer.ServeHTTP(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, h.indexPath)
}

func (h *staticHandler) isFile(name string) bool {
	f, err := h.root.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false
	}
	return !info.IsDir()
}
