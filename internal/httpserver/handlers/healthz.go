package handlers

import (
	"net/http"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Date      string `json:"date,omitempty"`
	GoVersion string `json:"go,omitempty"`
}

// Healthz is liveness only. It never touches upstream or Redis.
func Healthz(d deps.Deps) http.HandlerFunc {
	build := buildInfo{Version: d.Version, Commit: d.Commit, Date: d.BuildDate, GoVersion: d.GoVersion}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, map[string]any{
			"status":         "ok",
			"uptime_seconds": int64(d.Now().Sub(d.StartTime).Seconds()),
			"build":          build,
		})
	}
}
