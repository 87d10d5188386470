package handlers

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dankservices/blog-site/internal/content"
	"github.com/dankservices/blog-site/internal/httpserver/deps"
	"github.com/dankservices/blog-site/internal/logger"
	"github.com/dankservices/blog-site/internal/page"
	"github.com/dankservices/blog-site/internal/utils"
)

func HomePage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(d, w, r, page.TmplHome, d.Site.HomePage())
	}
}

func SeriesIndexPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(d, w, r, page.TmplSeriesIndex, d.Site.SeriesIndexPage(r.URL.Query().Get("q")))
	}
}

func SeriesPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(d, w, r, page.TmplSeries, d.Site.SeriesPage(chi.URLParam(r, "slug")))
	}
}

// PostPage serves only posts that exist as static documents.
func PostPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := content.Address{Slug: chi.URLParam(r, "slug"), ID: chi.URLParam(r, "id")}
		if addr.Validate() != nil {
			http.NotFound(w, r)
			return
		}
		p, ok := d.Site.PostPage(addr)
		if !ok {
			http.NotFound(w, r)
			return
		}
		renderPage(d, w, r, page.TmplPost, p)
	}
}

func ServicesPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(d, w, r, page.TmplServices, d.Site.ServicesPage())
	}
}

func renderPage[T page.Titled](d deps.Deps, w http.ResponseWriter, r *http.Request, name string, p *page.Page[T]) {
	ctx := page.WithVisitor(r.Context(), utils.ClientIP(r, d.TrustProxy))
	state := p.Load(ctx)
	if err := p.Err(); err != nil {
		d.Logger.Warn("page fetch failed",
			logger.String("page", name),
			logger.String("path", r.URL.Path),
			logger.Error(err))
	}

	var buf bytes.Buffer
	if err := page.Render(d.Renderer, &buf, name, p); err != nil {
		d.Logger.Error("page render failed", logger.String("page", name), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(page.StatusCode(state))
	_, _ = buf.WriteTo(w)
}
