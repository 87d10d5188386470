package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dankservices/blog-site/internal/content"
	"github.com/dankservices/blog-site/internal/httpserver/deps"
)

const msgPostNotFound = "Post not found"

// ContentList returns the addresses of every active static document.
func ContentList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Content.Addresses())
	}
}

// ContentDocument returns one pre-rendered document.
func ContentDocument(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := content.Address{Slug: chi.URLParam(r, "slug"), ID: chi.URLParam(r, "id")}
		if addr.Validate() != nil {
			writeMessage(w, http.StatusNotFound, msgPostNotFound)
			return
		}

		e, ok := d.Content.Get(addr)
		if !ok || e.Disabled {
			writeMessage(w, http.StatusNotFound, msgPostNotFound)
			return
		}
		writeJSON(w, http.StatusOK, e.Doc)
	}
}
