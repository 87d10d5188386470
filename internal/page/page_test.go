package page

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dankservices/blog-site/internal/content"
	"github.com/dankservices/blog-site/internal/domain"
	"github.com/dankservices/blog-site/internal/index"
)

func TestPage_LoadsOnce(t *testing.T) {
	var calls atomic.Int32
	p := New(func(context.Context) (string, error) {
		calls.Add(1)
		return "hello", nil
	})

	assert.Equal(t, Loading, p.State())
	_, ok := p.Data()
	assert.False(t, ok)

	assert.Equal(t, Loaded, p.Load(context.Background()))
	assert.Equal(t, Loaded, p.Load(context.Background()))
	assert.EqualValues(t, 1, calls.Load())

	got, ok := p.Data()
	require.True(t, ok)
	assert.Equal(t, "hello", got)
	assert.NoError(t, p.Err())
}

func TestPage_ErrorIsTerminal(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("boom")
	p := New(func(context.Context) (int, error) {
		calls.Add(1)
		return 0, boom
	})

	assert.Equal(t, Error, p.Load(context.Background()))
	assert.Equal(t, Error, p.Load(context.Background()))
	assert.EqualValues(t, 1, calls.Load())
	assert.ErrorIs(t, p.Err(), boom)

	_, ok := p.Data()
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "loaded", Loaded.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusOK, StatusCode(Loaded))
	assert.Equal(t, http.StatusBadGateway, StatusCode(Error))
	assert.Equal(t, http.StatusAccepted, StatusCode(Loading))
}

// ─────────────────────────────
// Client
// ─────────────────────────────

const (
	homeJSON = `{
		"heroTitle":"Welcome to DankServices!",
		"heroTextContent":"hi",
		"blogPosts":[
			{"id":1,"title":"P1","slug":"rust","tags":[]},
			{"id":4,"title":"P4","slug":"rust","tags":[]},
			{"id":2,"title":"P2","slug":"go","tags":[]},
			{"id":3,"title":"P3","slug":"go","tags":[]}
		],
		"recentSeries":[{"id":7,"views":1,"title":"Rust","slug":"rust","tags":[{"name":"rust","color":"orange"}]}],
		"liveServices":[{"id":1,"name":"Gitea","description":"git","subdomain":"git","tags":[]}]
	}`
	seriesListJSON = `{"series":[
		{"id":1,"views":50,"title":"A","slug":"a"},
		{"id":2,"views":10,"title":"B","slug":"b"},
		{"id":3,"views":30,"title":"C","slug":"c"},
		{"id":4,"views":20,"title":"D","slug":"d"}
	]}`
	seriesJSON = `{"id":1,"views":5,"title":"Rust","long_description":"all about rust","slug":"rust",
		"posts":[{"id":9,"title":"Late","slug":"rust"},{"id":2,"title":"Early","slug":"rust"}]}`
	postJSON     = `{"id":2,"views":3,"title":"API title","slug":"rust","tags":[]}`
	servicesJSON = `[{"id":1,"name":"Gitea","description":"git","subdomain":"git","tags":[{"name":"foss","color":"green"}]}]`
)

func newTestClient(t *testing.T, routes map[string]string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Post not found"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 0)
}

func TestClient_ForwardsVisitor(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("X-Forwarded-For"))
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, 0)

	_, err := c.Services(WithVisitor(context.Background(), "203.0.113.7"))
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", got.Load())

	_, err = c.Services(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", got.Load())
}

func TestClient_Decodes(t *testing.T) {
	c := newTestClient(t, map[string]string{
		"/api/home":          homeJSON,
		"/api/series":        seriesListJSON,
		"/api/series/rust":   seriesJSON,
		"/api/series/rust/2": postJSON,
		"/api/services":      servicesJSON,
	})
	ctx := context.Background()

	h, err := c.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.HeroTitle, h.HeroTitle)
	assert.Len(t, h.BlogPosts, 4)

	list, err := c.SeriesList(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)

	s, err := c.Series(ctx, "rust")
	require.NoError(t, err)
	assert.Len(t, s.Posts, 2)

	p, err := c.Post(ctx, "rust", "2")
	require.NoError(t, err)
	assert.Equal(t, "API title", p.Title)

	svcs, err := c.Services(ctx)
	require.NoError(t, err)
	require.Len(t, svcs, 1)
	assert.Equal(t, "git", svcs[0].Subdomain)
}

func TestClient_NonOKIsFetchError(t *testing.T) {
	c := newTestClient(t, map[string]string{"/api/home": `not json`})
	ctx := context.Background()

	_, err := c.Post(ctx, "rust", "404")
	assert.ErrorIs(t, err, domain.ErrClientFetch)

	_, err = c.Home(ctx)
	assert.ErrorIs(t, err, domain.ErrClientFetch)
}

// ─────────────────────────────
// Views
// ─────────────────────────────

func TestHomeView_TopThreeByID(t *testing.T) {
	h := domain.Home{
		HeroTitle: "t",
		BlogPosts: []domain.Post{{ID: 1}, {ID: 4}, {ID: 2}, {ID: 3}},
		LiveServices: []domain.Service{
			{ID: 1, Subdomain: "git"},
			{ID: 2},
		},
	}

	v := NewHomeView(h, "dankservices.com")

	var ids []int
	for _, p := range v.Posts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{4, 3, 2}, ids)
	require.Len(t, v.Services, 2)
	assert.Equal(t, "https://dankservices.com", v.Services[0].Link)
	assert.Equal(t, "https://git.dankservices.com", v.Services[1].Link)
	assert.Empty(t, v.Series)
	assert.Equal(t, "DankServices", v.Title())
}

func TestSeriesIndexView(t *testing.T) {
	all := []domain.SeriesPreview{
		{ID: 1, Views: 50}, {ID: 2, Views: 10}, {ID: 3, Views: 30}, {ID: 4, Views: 20},
	}

	v := NewSeriesIndexView(all, "")

	ids := func(s []domain.SeriesPreview) []int {
		out := make([]int, 0, len(s))
		for _, x := range s {
			out = append(out, x.ID)
		}
		return out
	}
	assert.Equal(t, []int{1, 3, 4}, ids(v.MostPopular))
	assert.Equal(t, []int{4, 3, 2}, ids(v.MostRecent))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(v.All))
	assert.Equal(t, "DankServices - Series", v.Title())
}

func TestSeriesIndexView_QueryNarrowsAllOnly(t *testing.T) {
	all := []domain.SeriesPreview{
		{ID: 1, Views: 50, Title: "Homelab Notes", Slug: "homelab"},
		{ID: 2, Views: 10, Title: "Rust Adventures", Slug: "rust-adventures"},
		{ID: 3, Views: 30, Title: "Kubernetes", Slug: "k8s", Tags: []domain.Tag{{Name: "Rust"}}},
	}

	v := NewSeriesIndexView(all, "  rust ")

	require.Len(t, v.All, 2)
	assert.Equal(t, 2, v.All[0].ID)
	assert.Equal(t, 3, v.All[1].ID)
	assert.Len(t, v.MostPopular, 3)
	assert.Len(t, v.MostRecent, 3)
	assert.Equal(t, "rust", v.Query)
}

func TestSeriesView_TimelineAscending(t *testing.T) {
	v := NewSeriesView(domain.Series{
		Title: "Rust",
		Posts: []domain.PostPreview{{ID: 9}, {ID: 2}, {ID: 5}},
	})

	require.Len(t, v.Timeline, 3)
	assert.Equal(t, 2, v.Timeline[0].ID)
	assert.Equal(t, 9, v.Timeline[2].ID)
	assert.Equal(t, "DankServices - Rust", v.Title())
}

// ─────────────────────────────
// Site and rendering
// ─────────────────────────────

func testSite(t *testing.T) *Site {
	t.Helper()
	c := newTestClient(t, map[string]string{
		"/api/home":          homeJSON,
		"/api/series":        seriesListJSON,
		"/api/series/rust":   seriesJSON,
		"/api/series/rust/2": postJSON,
		"/api/services":      servicesJSON,
	})

	idx := index.NewMemoryIndex()
	idx.Update([]*index.Entry{
		{Doc: &content.Document{
			Address:     content.Address{Slug: "rust", ID: "2"},
			FrontMatter: content.FrontMatter{Title: "Static title", SubTitle: "Sub"},
			HTML:        "<p>static <em>body</em></p>",
		}},
		{Doc: &content.Document{
			Address:     content.Address{Slug: "rust", ID: "404"},
			FrontMatter: content.FrontMatter{Title: "Orphan"},
			HTML:        "<p>orphan</p>",
		}},
	})
	return NewSite(c, idx, "dankservices.com")
}

func render[T Titled](t *testing.T, r *Renderer, name string, p *Page[T]) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(r, &buf, name, p))
	return buf.String()
}

func TestRender_LoadingAndError(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	p := New(func(context.Context) (ServicesView, error) { return ServicesView{}, errors.New("down") })

	out := render(t, r, TmplServices, p)
	assert.Contains(t, out, "Loading...")
	assert.NotContains(t, out, "Active Services")

	p.Load(context.Background())
	out = render(t, r, TmplServices, p)
	assert.Contains(t, out, "Failed to load")
	assert.NotContains(t, out, "Active Services")
	assert.Contains(t, out, "<title>DankServices</title>")
}

func TestRender_Pages(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	site := testSite(t)
	ctx := context.Background()

	home := site.HomePage()
	require.Equal(t, Loaded, home.Load(ctx))
	out := render(t, r, TmplHome, home)
	assert.Contains(t, out, "Welcome to DankServices!")
	assert.Contains(t, out, "P4")
	assert.NotContains(t, out, "P1")
	assert.Contains(t, out, `href="https://git.dankservices.com"`)
	assert.Contains(t, out, `data-color="orange"`)

	idx := site.SeriesIndexPage("")
	require.Equal(t, Loaded, idx.Load(ctx))
	out = render(t, r, TmplSeriesIndex, idx)
	for _, h := range []string{"Blog Series", "Most Popular", "Most Recent", "All Series", "Search for a series..."} {
		assert.Contains(t, out, h)
	}

	miss := site.SeriesIndexPage("nothing-like-this")
	require.Equal(t, Loaded, miss.Load(ctx))
	out = render(t, r, TmplSeriesIndex, miss)
	assert.Contains(t, out, `No series match "nothing-like-this".`)
	assert.NotContains(t, out, "All Series")
	assert.Contains(t, out, "Most Popular")

	series := site.SeriesPage("rust")
	require.Equal(t, Loaded, series.Load(ctx))
	out = render(t, r, TmplSeries, series)
	assert.Contains(t, out, "<title>DankServices - Rust</title>")
	assert.Less(t, strings.Index(out, "Early"), strings.Index(out, "Late"))
	assert.Contains(t, out, `href="/series/rust/2"`)

	svcs := site.ServicesPage()
	require.Equal(t, Loaded, svcs.Load(ctx))
	out = render(t, r, TmplServices, svcs)
	assert.Contains(t, out, "Active Services")
	assert.Contains(t, out, "Open Service")
	assert.Contains(t, out, `data-color="green"`)
}

func TestPostPage_UsesStaticDocument(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	site := testSite(t)
	ctx := context.Background()

	p, ok := site.PostPage(content.Address{Slug: "rust", ID: "2"})
	require.True(t, ok)
	require.Equal(t, Loaded, p.Load(ctx))

	out := render(t, r, TmplPost, p)
	assert.Contains(t, out, "<title>DankServices - Static title</title>")
	assert.Contains(t, out, "<p>static <em>body</em></p>")
	assert.NotContains(t, out, "API title")
}

func TestPostPage_MissingDocument(t *testing.T) {
	site := testSite(t)

	_, ok := site.PostPage(content.Address{Slug: "rust", ID: "77"})
	assert.False(t, ok)
}

func TestPostPage_APIFailureIsError(t *testing.T) {
	site := testSite(t)

	p, ok := site.PostPage(content.Address{Slug: "rust", ID: "404"})
	require.True(t, ok)
	assert.Equal(t, Error, p.Load(context.Background()))
	assert.ErrorIs(t, p.Err(), domain.ErrClientFetch)
}
