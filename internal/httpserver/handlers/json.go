package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
	"github.com/dankservices/blog-site/internal/logger"
	"github.com/dankservices/blog-site/internal/proxy"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	proxy.MessageResult(status, msg).WriteTo(w)
}

// writeResult sends a proxy result and logs anything worse than a 404.
func writeResult(d deps.Deps, w http.ResponseWriter, r *http.Request, res proxy.Result, err error) {
	if err != nil && !proxy.IsClientError(err) {
		d.Logger.Warn("upstream request failed",
			logger.String("path", r.URL.Path),
			logger.Int("status", res.Status),
			logger.Error(err))
	}
	res.WriteTo(w)
}
