package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dankservices/blog-site/internal/domain"
	"github.com/dankservices/blog-site/internal/upstream"
)

type reply struct {
	status int
	body   string
}

// fakeUpstream serves canned replies per path and counts hits.
func fakeUpstream(t *testing.T, routes map[string]reply) (*Proxy, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		rep, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.status)
		_, _ = w.Write([]byte(rep.body))
	}))
	t.Cleanup(srv.Close)
	return New(upstream.New(upstream.Options{BaseURL: srv.URL})), &hits
}

const (
	postsJSON    = `[{"id":1,"views":3,"title":"First","short_description":"s","date":"2023-01-01","content":"<p>x</p>","slug":"intro","tags":[]}]`
	seriesJSON   = `[{"id":5,"views":40,"title":"Rust","short_description":"d","slug":"rust","updated":[2023,10],"created":[2023,1],"tags":[{"name":"rust","color":"orange"}]}]`
	servicesJSON = `[{"id":2,"image":"git.png","name":"Gitea","description":"git","subdomain":"git","tags":[]}]`
)

func TestHome_AllSucceed(t *testing.T) {
	p, hits := fakeUpstream(t, map[string]reply{
		"/api/posts":    {200, postsJSON},
		"/api/series":   {200, seriesJSON},
		"/api/services": {200, servicesJSON},
	})

	res, err := p.Home(context.Background())

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.EqualValues(t, 3, hits.Load())

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(res.Body, &got))
	assert.JSONEq(t, postsJSON, string(got["blogPosts"]))
	assert.JSONEq(t, seriesJSON, string(got["recentSeries"]))
	assert.JSONEq(t, servicesJSON, string(got["liveServices"]))

	var home domain.Home
	require.NoError(t, json.Unmarshal(res.Body, &home))
	assert.Equal(t, domain.HeroTitle, home.HeroTitle)
	assert.Equal(t, domain.HeroTextContent, home.HeroTextContent)
	assert.Len(t, home.BlogPosts, 1)
	assert.Equal(t, "git", home.LiveServices[0].Subdomain)
	_, hasButton := got["heroButtonText"]
	assert.False(t, hasButton)
}

func TestHome_AnyFailureIsInternalError(t *testing.T) {
	ok := map[string]reply{
		"/api/posts":    {200, postsJSON},
		"/api/series":   {200, seriesJSON},
		"/api/services": {200, servicesJSON},
	}

	tests := []struct {
		name    string
		failing string
		reply   reply
	}{
		{"series unavailable", "/api/series", reply{503, `{"message":"down"}`}},
		{"posts not found", "/api/posts", reply{404, ``}},
		{"services server error", "/api/services", reply{500, ``}},
		{"posts invalid json", "/api/posts", reply{200, `<html>`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes := map[string]reply{}
			for k, v := range ok {
				routes[k] = v
			}
			routes[tt.failing] = tt.reply
			p, _ := fakeUpstream(t, routes)

			res, err := p.Home(context.Background())

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrPartialAggregation))
			assert.Equal(t, http.StatusInternalServerError, res.Status)
			assert.JSONEq(t, `{"message":"Internal server error"}`, string(res.Body))
			for _, leaked := range []string{"First", "Rust", "Gitea"} {
				assert.NotContains(t, string(res.Body), leaked, "no partial data")
			}
		})
	}
}

func TestHome_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	p := New(upstream.New(upstream.Options{BaseURL: base}))
	res, err := p.Home(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnavailable))
	assert.Equal(t, http.StatusInternalServerError, res.Status)
}

func TestPassthrough_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		res        Resource
		params     map[string]string
		path       string
		reply      reply
		wantStatus int
		wantBody   string
	}{
		{
			name:       "series detail 200",
			res:        SeriesDetail,
			params:     map[string]string{"slug": "rust"},
			path:       "/api/series/rust",
			reply:      reply{200, `{"id":1,"title":"Rust"}`},
			wantStatus: 200,
			wantBody:   `{"id":1,"title":"Rust"}`,
		},
		{
			name:       "series detail 404",
			res:        SeriesDetail,
			params:     map[string]string{"slug": "missing"},
			path:       "/api/series/missing",
			reply:      reply{404, ``},
			wantStatus: 404,
			wantBody:   `{"message":"Series not found"}`,
		},
		{
			name:       "post detail 503",
			res:        PostDetail,
			params:     map[string]string{"slug": "rust", "id": "4"},
			path:       "/api/posts/4",
			reply:      reply{503, `{"message":"busy"}`},
			wantStatus: 500,
			wantBody:   `{"message":"Internal server error"}`,
		},
		{
			name:       "post detail 404",
			res:        PostDetail,
			params:     map[string]string{"slug": "rust", "id": "99"},
			path:       "/api/posts/99",
			reply:      reply{404, ``},
			wantStatus: 404,
			wantBody:   `{"message":"Post not found"}`,
		},
		{
			name:       "services 404",
			res:        Services,
			path:       "/api/services",
			reply:      reply{404, ``},
			wantStatus: 404,
			wantBody:   `{"message":"Services not found"}`,
		},
		{
			name:       "services 200 non-json",
			res:        Services,
			path:       "/api/services",
			reply:      reply{200, `not json`},
			wantStatus: 500,
			wantBody:   `{"message":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := fakeUpstream(t, map[string]reply{tt.path: tt.reply})

			res, err := p.Passthrough(context.Background(), tt.res, tt.params)

			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, tt.wantBody, string(res.Body))
			if tt.wantStatus == 200 {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
			assert.Equal(t, tt.wantStatus == 404, IsClientError(err))
		})
	}
}

func TestPassthrough_ForwardsIdenticalBytes(t *testing.T) {
	body := "{\n  \"id\": 1,\n  \"content\": \"<p>a & b</p>\"\n}"
	p, _ := fakeUpstream(t, map[string]reply{"/api/posts/1": {200, body}})

	res, err := p.Passthrough(context.Background(), PostDetail, map[string]string{"id": "1"})

	require.NoError(t, err)
	assert.Equal(t, body, string(res.Body))
}

func TestPassthrough_Idempotent(t *testing.T) {
	p, hits := fakeUpstream(t, map[string]reply{"/api/series/rust": {200, seriesJSON}})
	params := map[string]string{"slug": "rust"}

	first, err1 := p.Passthrough(context.Background(), SeriesDetail, params)
	second, err2 := p.Passthrough(context.Background(), SeriesDetail, params)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 2, hits.Load(), "no caching between calls")
}

func TestSeriesList(t *testing.T) {
	t.Run("wraps upstream list", func(t *testing.T) {
		p, _ := fakeUpstream(t, map[string]reply{"/api/series": {200, seriesJSON}})

		res, err := p.SeriesList(context.Background())

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Status)
		assert.JSONEq(t, `{"series":`+seriesJSON+`}`, string(res.Body))
	})

	t.Run("non-200 is internal error", func(t *testing.T) {
		p, _ := fakeUpstream(t, map[string]reply{"/api/series": {502, ``}})

		res, err := p.SeriesList(context.Background())

		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.True(t, strings.Contains(string(res.Body), MsgInternal))
	})
}

// barrierFetcher holds every reply until want requests are in flight at
// once. Sequential callers never get past the first request.
type barrierFetcher struct {
	want    int
	arrived atomic.Int32
	release chan struct{}
	bodies  map[string]string
}

func (b *barrierFetcher) Get(ctx context.Context, path string) (*upstream.Response, error) {
	if int(b.arrived.Add(1)) == b.want {
		close(b.release)
	}
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &upstream.Response{Status: http.StatusOK, Body: []byte(b.bodies[path])}, nil
}

func TestHome_FetchesConcurrently(t *testing.T) {
	f := &barrierFetcher{
		want:    3,
		release: make(chan struct{}),
		bodies: map[string]string{
			upstream.PostsPath:    postsJSON,
			upstream.SeriesPath:   seriesJSON,
			upstream.ServicesPath: servicesJSON,
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := New(f).Home(ctx)

	require.NoError(t, err, "the three upstream calls must be in flight together")
	assert.Equal(t, http.StatusOK, res.Status)
	assert.EqualValues(t, 3, f.arrived.Load())
}

func TestFetchList_RejectsNonList(t *testing.T) {
	p, _ := fakeUpstream(t, map[string]reply{
		"/api/posts":    {200, postsJSON},
		"/api/series":   {200, `{"series":[]}`},
		"/api/services": {200, servicesJSON},
	})

	res, err := p.SeriesList(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamStatus)
	assert.Equal(t, http.StatusInternalServerError, res.Status)

	res, err = p.Home(context.Background())
	assert.ErrorIs(t, err, domain.ErrPartialAggregation)
	assert.Equal(t, http.StatusInternalServerError, res.Status)
}
