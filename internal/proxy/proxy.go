package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/dankservices/blog-site/internal/domain"
	"github.com/dankservices/blog-site/internal/upstream"
)

// Resource describes one pass-through: which upstream path to hit and what
// to say when upstream reports it missing.
type Resource struct {
	Name     string
	NotFound string
	Path     func(params map[string]string) string
}

// Pass-through resources exposed under /api.
var (
	SeriesDetail = Resource{
		Name:     "series",
		NotFound: "Series not found",
		Path:     func(p map[string]string) string { return upstream.SeriesDetailPath(p["slug"]) },
	}

	// PostDetail ignores the slug: upstream addresses posts by id only.
	PostDetail = Resource{
		Name:     "post",
		NotFound: "Post not found",
		Path:     func(p map[string]string) string { return upstream.PostDetailPath(p["id"]) },
	}

	Services = Resource{
		Name:     "services",
		NotFound: "Services not found",
		Path:     func(map[string]string) string { return upstream.ServicesPath },
	}
)

// Proxy maps client requests onto the upstream content API.
// It holds no state between requests.
type Proxy struct {
	upstream upstream.Fetcher
}

func New(f upstream.Fetcher) *Proxy {
	return &Proxy{upstream: f}
}

// Passthrough forwards one request to res and maps the outcome.
func (p *Proxy) Passthrough(ctx context.Context, res Resource, params map[string]string) (Result, error) {
	resp, err := p.upstream.Get(ctx, res.Path(params))
	return MapStatus(resp, err, res.NotFound)
}

// seriesList is the envelope of GET /api/series.
type seriesList struct {
	Series json.RawMessage `json:"series"`
}

// SeriesList wraps the upstream series list as {"series": [...]}.
// Only a 200 carrying a JSON list succeeds; everything else is a 500.
func (p *Proxy) SeriesList(ctx context.Context) (Result, error) {
	raw, err := p.fetchList(ctx, upstream.SeriesPath)
	if err != nil {
		return InternalError(), err
	}

	body, err := marshal(seriesList{Series: raw})
	if err != nil {
		return InternalError(), err
	}
	return Result{Status: http.StatusOK, Body: body}, nil
}

// Home fans out to posts, series and services concurrently and composes the
// aggregate only if all three succeed. The first failure cancels the others
// and no partial data is ever returned.
func (p *Proxy) Home(ctx context.Context) (Result, error) {
	var posts, series, services json.RawMessage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = p.fetchList(gctx, upstream.PostsPath)
		return err
	})
	g.Go(func() (err error) {
		series, err = p.fetchList(gctx, upstream.SeriesPath)
		return err
	})
	g.Go(func() (err error) {
		services, err = p.fetchList(gctx, upstream.ServicesPath)
		return err
	})

	if err := g.Wait(); err != nil {
		return InternalError(), fmt.Errorf("%w: %w", domain.ErrPartialAggregation, err)
	}

	body, err := marshal(domain.NewHomeAggregate(posts, series, services))
	if err != nil {
		return InternalError(), err
	}
	return Result{Status: http.StatusOK, Body: body}, nil
}

// fetchList returns the raw body of a 200 reply from path carrying a JSON
// list.
func (p *Proxy) fetchList(ctx context.Context, path string) (json.RawMessage, error) {
	resp, err := p.upstream.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: GET %s returned %d", domain.ErrUpstreamStatus, path, resp.Status)
	}
	if !json.Valid(resp.Body) {
		return nil, fmt.Errorf("%w: GET %s returned non-JSON body", domain.ErrUpstreamStatus, path)
	}
	if body := bytes.TrimLeft(resp.Body, " \t\r\n"); len(body) == 0 || body[0] != '[' {
		return nil, fmt.Errorf("%w: GET %s did not return a JSON list", domain.ErrUpstreamStatus, path)
	}
	return json.RawMessage(resp.Body), nil
}
