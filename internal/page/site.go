package page

import (
	"context"

	"github.com/dankservices/blog-site/internal/content"
	"github.com/dankservices/blog-site/internal/index"
)

// StaticSource looks up pre-rendered documents.
type StaticSource interface {
	Get(addr content.Address) (*index.Entry, bool)
}

// Site builds the pages of the public website. Each call returns a fresh
// Page in the Loading state.
type Site struct {
	client         *Client
	static         StaticSource
	servicesDomain string
}

func NewSite(client *Client, static StaticSource, servicesDomain string) *Site {
	return &Site{client: client, static: static, servicesDomain: servicesDomain}
}

func (s *Site) HomePage() *Page[HomeView] {
	return New(func(ctx context.Context) (HomeView, error) {
		h, err := s.client.Home(ctx)
		if err != nil {
			return HomeView{}, err
		}
		return NewHomeView(h, s.servicesDomain), nil
	})
}

// SeriesIndexPage lists every series. A non-empty query filters the
// "All Series" card.
func (s *Site) SeriesIndexPage(query string) *Page[SeriesIndexView] {
	return New(func(ctx context.Context) (SeriesIndexView, error) {
		all, err := s.client.SeriesList(ctx)
		if err != nil {
			return SeriesIndexView{}, err
		}
		return NewSeriesIndexView(all, query), nil
	})
}

func (s *Site) SeriesPage(slug string) *Page[SeriesView] {
	return New(func(ctx context.Context) (SeriesView, error) {
		series, err := s.client.Series(ctx, slug)
		if err != nil {
			return SeriesView{}, err
		}
		return NewSeriesView(series), nil
	})
}

// PostPage returns false when no static document exists at addr; such
// addresses are not part of the site at all.
func (s *Site) PostPage(addr content.Address) (*Page[PostView], bool) {
	e, ok := s.static.Get(addr)
	if !ok || e.Disabled {
		return nil, false
	}
	doc := e.Doc

	return New(func(ctx context.Context) (PostView, error) {
		// The API call still happens so the post is counted as viewed.
		p, err := s.client.Post(ctx, addr.Slug, addr.ID)
		if err != nil {
			return PostView{}, err
		}
		return PostView{Post: p, Doc: doc}, nil
	}), true
}

func (s *Site) ServicesPage() *Page[ServicesView] {
	return New(func(ctx context.Context) (ServicesView, error) {
		services, err := s.client.Services(ctx)
		if err != nil {
			return ServicesView{}, err
		}
		return ServicesView{Services: serviceCards(services, s.servicesDomain)}, nil
	})
}
