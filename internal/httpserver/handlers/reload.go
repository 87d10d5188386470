package handlers

import (
	"net/http"

	"github.com/dankservices/blog-site/internal/httpserver/deps"
	"github.com/dankservices/blog-site/internal/logger"
	"github.com/dankservices/blog-site/internal/utils"
)

// Reload queues a content reload. A reload already queued answers 429.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := utils.ClientIP(r, d.TrustProxy)

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual content reload triggered via endpoint", logger.String("client_ip", ip))
			writeMessage(w, http.StatusAccepted, "Reload triggered")
		default:
			d.Logger.Warn("content reload already pending", logger.String("client_ip", ip))
			w.Header().Set("Retry-After", "1")
			writeMessage(w, http.StatusTooManyRequests, "Reload already in progress")
		}
	}
}
