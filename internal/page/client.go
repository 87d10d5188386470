package page

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dankservices/blog-site/internal/domain"
	"github.com/dankservices/blog-site/internal/utils"
)

// Client fetches page data from the proxy surface (/api/...).
// Any non-200 reply is a domain.ErrClientFetch; 404 and 500 look the same.
type Client struct {
	baseURL string
	http    *http.Client
}

type visitorKey struct{}

// WithVisitor tags ctx with the IP of the visitor a page is built for.
// The client forwards it as X-Forwarded-For so each visitor's page views
// count against their own /api rate limit.
func WithVisitor(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, visitorKey{}, ip)
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Home(ctx context.Context) (domain.Home, error) {
	var h domain.Home
	err := c.getJSON(ctx, "/api/home", &h)
	return h, err
}

func (c *Client) SeriesList(ctx context.Context) ([]domain.SeriesPreview, error) {
	var body struct {
		Series []domain.SeriesPreview `json:"series"`
	}
	if err := c.getJSON(ctx, "/api/series", &body); err != nil {
		return nil, err
	}
	return body.Series, nil
}

func (c *Client) Series(ctx context.Context, slug string) (domain.Series, error) {
	var s domain.Series
	err := c.getJSON(ctx, "/api/series/"+url.PathEscape(slug), &s)
	return s, err
}

func (c *Client) Post(ctx context.Context, slug, id string) (domain.Post, error) {
	var p domain.Post
	err := c.getJSON(ctx, "/api/series/"+url.PathEscape(slug)+"/"+url.PathEscape(id), &p)
	return p, err
}

func (c *Client) Services(ctx context.Context) ([]domain.Service, error) {
	var s []domain.Service
	err := c.getJSON(ctx, "/api/services", &s)
	return s, err
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrClientFetch, err)
	}
	req.Header.Set("Accept", "application/json")
	if ip, _ := ctx.Value(visitorKey{}).(string); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", domain.ErrClientFetch, path, err)
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s returned %d", domain.ErrClientFetch, path, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, 8<<20)).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", domain.ErrClientFetch, path, err)
	}
	return nil
}
