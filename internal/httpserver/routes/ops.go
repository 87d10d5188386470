package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
	"github.com/dankservices/blog-site/internal/httpserver/handlers"
	"github.com/dankservices/blog-site/internal/httpserver/mw"
)

func init() { Register(registerOps) }

func registerOps(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Get("/infra", handlers.Infra(d))
		r.Post("/reload", handlers.Reload(d))
		r.Delete("/views", handlers.ResetViews(d))
	})
}
