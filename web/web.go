// Package web holds the embedded HTML assets: the per-date page template
// consumed by the SSR renderer and the landing page.
package web

import (
	_ "embed"
	"net/http"
)

//go:embed page.html
var pageHTML string

//go:embed index.html
var indexHTML []byte

// PageTemplate returns the history page template with its substitution
// placeholders intact.
func PageTemplate() string {
	return pageHTML
}

// IndexHandler serves the landing page at the web root (/).
// Only GET and HEAD methods are allowed; other methods return 405.
func IndexHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		// The mux "/" pattern catches everything without a better match.
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(indexHTML)
	})
}
