package handlers

import (
	"net/http"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready     bool `json:"ready"`
	Documents int  `json:"documents"`
}

// Readyz reports ready once the content index has been loaded.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := d.Content.Count()
		ready := n > 0 || !d.Content.LastReload().IsZero()

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, status, readyzResponse{Ready: ready, Documents: n})
	}
}
