package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
	"github.com/dankservices/blog-site/internal/httpserver/handlers"
	"github.com/dankservices/blog-site/internal/proxy"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(r chi.Router) {
		r.Use(d.APIMiddleware...)

		r.Get("/home", handlers.Home(d))
		r.Get("/series", handlers.SeriesList(d))
		r.Get("/series/{slug}", handlers.Passthrough(d, proxy.SeriesDetail))
		r.Get("/series/{slug}/{id}", handlers.PostDetail(d))
		r.Get("/services", handlers.Passthrough(d, proxy.Services))

		r.Get("/content", handlers.ContentList(d))
		r.Get("/content/{slug}/{id}", handlers.ContentDocument(d))

		r.Get("/views", handlers.Views(d))
	})
}
