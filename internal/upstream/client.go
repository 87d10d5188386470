package upstream

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dankservices/blog-site/internal/domain"
	"github.com/dankservices/blog-site/internal/utils"
)

// Upstream resource paths.
const (
	PostsPath    = "/api/posts"
	SeriesPath   = "/api/series"
	ServicesPath = "/api/services"
)

// SeriesDetailPath returns the upstream path of one series.
func SeriesDetailPath(slug string) string { return SeriesPath + "/" + url.PathEscape(slug) }

// PostDetailPath returns the upstream path of one post.
func PostDetailPath(id string) string { return PostsPath + "/" + url.PathEscape(id) }

// maxBodyBytes caps what we buffer from a single upstream response.
const maxBodyBytes = 8 << 20

// Response is a fully buffered upstream reply.
type Response struct {
	Status int
	Body   []byte
}

// OK reports a 200.
func (r *Response) OK() bool { return r.Status == http.StatusOK }

// Fetcher is what the proxy layer needs from the content API.
type Fetcher interface {
	Get(ctx context.Context, path string) (*Response, error)
}

// Client talks to the upstream content API. It performs exactly one
// attempt per call and never retries.
type Client struct {
	baseURL string
	http    *http.Client
}

// Options configures a Client. A zero Timeout means no client-side limit;
// cancellation then only comes from the caller's context.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

func New(opts Options) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        64,
		MaxIdleConnsPerHost: 16,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Don't follow redirects
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get issues a GET for path and buffers the body. Any status is returned
// as-is; only transport failures produce an error.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}
	defer utils.DrainClose(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrUpstreamUnavailable, path, err)
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// Ping reports whether the content API answers at all (any status).
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, PostsPath)
	return err
}
