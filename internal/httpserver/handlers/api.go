package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
	"github.com/dankservices/blog-site/internal/logger"
	"github.com/dankservices/blog-site/internal/proxy"
)

// Home serves the aggregate of posts, series and services.
func Home(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.Proxy.Home(r.Context())
		writeResult(d, w, r, res, err)
	}
}

func SeriesList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.Proxy.SeriesList(r.Context())
		writeResult(d, w, r, res, err)
	}
}

// Passthrough forwards the request to res with the route's URL params.
func Passthrough(d deps.Deps, res proxy.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := d.Proxy.Passthrough(r.Context(), res, urlParams(r))
		writeResult(d, w, r, result, err)
	}
}

// PostDetail forwards to the post resource and counts a view on success.
func PostDetail(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := urlParams(r)
		res, err := d.Proxy.Passthrough(r.Context(), proxy.PostDetail, params)
		if res.OK() && d.Views != nil {
			if _, verr := d.Views.IncrementPostViews(r.Context(), params["id"]); verr != nil {
				d.Logger.Debug("failed to record post view",
					logger.String("id", params["id"]),
					logger.Error(verr))
			}
		}
		writeResult(d, w, r, res, err)
	}
}

func urlParams(r *http.Request) map[string]string {
	params := make(map[string]string)
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return params
	}
	for i, k := range rctx.URLParams.Keys {
		params[k] = rctx.URLParams.Values[i]
	}
	return params
}
