package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request handler budget, 0 = none

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Upstream content API
	UpstreamURL     string        // ex: "http://localhost:8000"
	UpstreamTimeout time.Duration // http.Client timeout, 0 = none

	// Pages
	SiteAPIURL     string // base URL the page layer fetches from (ex: "http://localhost:8080")
	ServicesDomain string // base domain of hosted services (ex: "dankservices.com")

	// Static content
	ContentDir     string        // root of <slug>/<id>.md files
	ReloadInterval time.Duration // periodic content reload (default: 1h)
	WatchContent   bool          // reload on filesystem events
	GCInterval     time.Duration // interval to purge removed documents (default: 24h)
	GCThreshold    time.Duration // how long a removed document is kept (default: 72h)

	// HTTP surface
	CORSOrigins      []string // ex: "https://dankservices.com, https://www.dankservices.com"
	RateLimitBurst   int      // per-IP burst on /api, 0 = disabled
	RateLimitPerMin  int      // per-IP refill rate on /api, 0 = disabled
	RateLimitMaxIPs  int      // tracked IPs before new ones are refused
	RateLimitIdleTTL time.Duration

	// Redis (optional, empty address disables view tracking and snapshots)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict /infra and /reload to specific Host headers
	AllowedCIDRS []string // optional, restrict /infra and /reload to specific networks
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

// RateLimitEnabled reports whether the /api limiter should be installed.
func (c *Config) RateLimitEnabled() bool { return c.RateLimitBurst > 0 && c.RateLimitPerMin > 0 }

func Load() *Config {
	// A missing .env is fine; real env vars always win.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BLOG_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BLOG_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("BLOG_REQUEST_TIMEOUT", 0),

		// Logging
		LogLevel:  getenv("BLOG_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BLOG_PRETTY_LOG", true),

		// Upstream
		UpstreamURL:     mustURL("BLOG_UPSTREAM_URL", "http://localhost:8000"),
		UpstreamTimeout: mustDuration("BLOG_UPSTREAM_TIMEOUT", 0),

		// Pages
		SiteAPIURL:     mustURL("BLOG_SITE_API_URL", "http://localhost:8080"),
		ServicesDomain: getenv("BLOG_SERVICES_DOMAIN", "dankservices.com"),

		// Content
		ContentDir:     getenv("BLOG_CONTENT_DIR", "./posts"),
		ReloadInterval: mustDuration("BLOG_RELOAD_INTERVAL", time.Hour),
		WatchContent:   mustBool("BLOG_WATCH_CONTENT", true),
		GCInterval:     mustDuration("BLOG_GC_INTERVAL", 24*time.Hour),
		GCThreshold:    mustDuration("BLOG_GC_THRESHOLD", 72*time.Hour),

		// HTTP surface
		CORSOrigins:      splitAndTrim(getenv("BLOG_CORS_ORIGINS", "*")),
		RateLimitBurst:   getenvInt("BLOG_RATE_LIMIT_BURST", 60),
		RateLimitPerMin:  getenvInt("BLOG_RATE_LIMIT_PER_MIN", 120),
		RateLimitMaxIPs:  getenvInt("BLOG_RATE_LIMIT_MAX_IPS", 10000),
		RateLimitIdleTTL: mustDuration("BLOG_RATE_LIMIT_IDLE_TTL", 10*time.Minute),

		// Redis settings
		RedisAddr:             getenv("BLOG_REDIS_ADDR", ""),
		RedisUser:             getenv("BLOG_REDIS_USERNAME", ""),
		RedisPasswordRequired: mustBool("BLOG_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("BLOG_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("BLOG_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("BLOG_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("BLOG_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("BLOG_TRUST_PROXY", true),
	}

	if cfg.RedisEnabled() && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: BLOG_REDIS_PASSWORD is required when BLOG_REDIS_PASSWORD_REQUIRED=true")
	}

	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return def
}

// mustURL panics on anything that is not an absolute http(s) URL.
// The trailing slash is stripped so paths can be appended directly.
func mustURL(key, def string) string {
	raw := getenv(key, def)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		panic(fmt.Sprintf("❌ FATAL: Invalid URL for %s: %q", key, raw))
	}
	return strings.TrimRight(raw, "/")
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
