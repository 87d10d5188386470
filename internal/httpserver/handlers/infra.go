package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
)

const probeTimeout = 2 * time.Second

type componentStatus struct {
	OK         bool   `json:"ok"`
	Documents  *int   `json:"documents,omitempty"`
	Disabled   *int   `json:"disabled,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every dependency of the site.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"content":  contentStatus(d),
			"upstream": probe(r.Context(), d.Upstream, "api-unreachable"),
			"redis":    redisStatus(r.Context(), d),
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func contentStatus(d deps.Deps) componentStatus {
	total, disabled := 0, 0
	for _, e := range d.Content.All() {
		total++
		if e.Disabled {
			disabled++
		}
	}

	lastReload := "never"
	if t := d.Content.LastReload(); !t.IsZero() {
		lastReload = t.Format(time.DateTime)
	}
	return componentStatus{
		OK:         total > disabled,
		Documents:  &total,
		Disabled:   &disabled,
		LastReload: lastReload,
	}
}

func redisStatus(ctx context.Context, d deps.Deps) componentStatus {
	if d.Redis == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "views-not-recorded",
		}
	}
	return probe(ctx, d.Redis, "views-not-recorded")
}

func probe(ctx context.Context, p deps.Pinger, impact string) componentStatus {
	if p == nil {
		return componentStatus{OK: false, Impact: impact, Error: "not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := p.Ping(ctx); err != nil {
		return componentStatus{OK: false, Mode: "degraded", Impact: impact, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "optimal"}
}

// overallStatus: no content is critical, a failing upstream or Redis is degraded.
// A Redis that is simply not configured does not degrade the site.
func overallStatus(c map[string]componentStatus) string {
	if !c["content"].OK {
		return "critical"
	}
	if !c["upstream"].OK {
		return "degraded"
	}
	if rs := c["redis"]; !rs.OK && rs.Mode != "disabled" {
		return "degraded"
	}
	return "ok"
}
