package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/dankservices/blog-site/internal/index"
	"github.com/dankservices/blog-site/internal/logger"
	"github.com/dankservices/blog-site/internal/page"
	"github.com/dankservices/blog-site/internal/proxy"
)

// Pinger is anything /infra can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ViewCounter records and reports post views.
type ViewCounter interface {
	IncrementPostViews(ctx context.Context, id string) (int64, error)
	GetPostViews(ctx context.Context) (map[string]int64, error)
	ResetPostViews(ctx context.Context) error
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	AllowedHosts []string // Host headers allowed on /infra and /reload
	AllowedCIDRS []string // networks allowed on /infra and /reload
	TrustProxy   bool     // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins  []string

	Proxy    *proxy.Proxy
	Upstream Pinger             // upstream content API
	Content  *index.MemoryIndex // static documents
	Views    ViewCounter        // nil when Redis is disabled
	Redis    Pinger             // nil when Redis is disabled

	Site     *page.Site
	Renderer *page.Renderer

	ReloadTrigger chan struct{} // manual content reload

	// APIMiddleware wraps every /api route (rate limiting).
	APIMiddleware []func(http.Handler) http.Handler
}

func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
