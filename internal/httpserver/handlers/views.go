package handlers

import (
	"net/http"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
	"github.com/dankservices/blog-site/internal/logger"
	"github.com/dankservices/blog-site/internal/proxy"
	"github.com/dankservices/blog-site/internal/utils"
)

type viewsResponse struct {
	Posts map[string]int64 `json:"posts"`
}

// Views reports post view counters. Without Redis the map is empty.
func Views(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Views == nil {
			writeJSON(w, http.StatusOK, viewsResponse{Posts: map[string]int64{}})
			return
		}

		posts, err := d.Views.GetPostViews(r.Context())
		if err != nil {
			d.Logger.Warn("failed to read view counters", logger.Error(err))
			writeMessage(w, http.StatusInternalServerError, proxy.MsgInternal)
			return
		}
		if posts == nil {
			posts = map[string]int64{}
		}
		writeJSON(w, http.StatusOK, viewsResponse{Posts: posts})
	}
}

// ResetViews clears every view counter. It is a no-op without Redis.
func ResetViews(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Views != nil {
			if err := d.Views.ResetPostViews(r.Context()); err != nil {
				d.Logger.Warn("failed to reset view counters", logger.Error(err))
				writeMessage(w, http.StatusInternalServerError, proxy.MsgInternal)
				return
			}
			d.Logger.Info("view counters reset", logger.String("client_ip", utils.ClientIP(r, d.TrustProxy)))
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
