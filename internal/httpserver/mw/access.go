package mw

import (
	"net/http"
	"strings"

	"github.com/dankservices/blog-site/internal/logger"
	"github.com/dankservices/blog-site/internal/proxy"
	"github.com/dankservices/blog-site/internal/utils"
)

func passthrough(next http.Handler) http.Handler { return next }

// AllowOnlyCIDRS lets through clients whose IP falls in one of the allowed
// networks. An empty list disables the filter.
// trustProxy resolves the client from proxy headers (e.g. cloudflared).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m, invalid := utils.NewIPMatcher(allowed)
	if len(invalid) > 0 {
		log.Warn("ignoring invalid CIDR entries", logger.Strings("entries", invalid))
	}
	if m.IsEmpty() {
		return passthrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Debug("client rejected by CIDR filter",
					logger.String("client_ip", ip),
					logger.String("path", r.URL.Path))
				proxy.MessageResult(http.StatusForbidden, "Forbidden").WriteTo(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceHost accepts a request only when its Host (port stripped,
// case-insensitive) matches one of the patterns. "*.example.com" matches
// any subdomain but not example.com itself. An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			patterns = append(patterns, h)
		}
	}
	if len(patterns) == 0 {
		return passthrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(utils.ParseHostNoPort(r.Host))
			for _, p := range patterns {
				if matchHost(host, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Debug("host rejected", logger.String("host", r.Host))
			proxy.MessageResult(http.StatusForbidden, "Forbidden").WriteTo(w)
		})
	}
}

func matchHost(host, pattern string) bool {
	if host == pattern {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return len(host) > len(suffix) && strings.HasSuffix(host, suffix)
	}
	return false
}
