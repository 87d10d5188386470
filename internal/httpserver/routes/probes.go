package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
	"github.com/dankservices/blog-site/internal/httpserver/handlers"
)

func init() { Register(registerProbes) }

// Liveness and readiness stay open to orchestrators.
func registerProbes(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
	r.Get("/readyz", handlers.Readyz(d))
}
