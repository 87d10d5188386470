package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
	"github.com/dankservices/blog-site/internal/httpserver/handlers"
)

func init() { Register(registerPages) }

func registerPages(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.HomePage(d))
	r.Get("/series", handlers.SeriesIndexPage(d))
	r.Get("/series/{slug}", handlers.SeriesPage(d))
	r.Get("/series/{slug}/{id}", handlers.PostPage(d))
	r.Get("/services", handlers.ServicesPage(d))
}
