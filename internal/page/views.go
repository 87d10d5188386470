package page

import (
	"html/template"
	"strings"

	"github.com/dankservices/blog-site/internal/content"
	"github.com/dankservices/blog-site/internal/domain"
)

const siteName = "DankServices"

// ServiceCard is a service with its resolved public address.
type ServiceCard struct {
	domain.Service
	Link string
}

func serviceCards(services []domain.Service, baseDomain string) []ServiceCard {
	cards := make([]ServiceCard, 0, len(services))
	for _, s := range services {
		cards = append(cards, ServiceCard{Service: s, Link: s.URL(baseDomain)})
	}
	return cards
}

// ─────────────────────────────
// Home
// ─────────────────────────────

type HomeView struct {
	HeroTitle      string
	HeroText       string
	HeroButtonText string
	HeroButtonLink string

	// Each list holds the three most recent entries.
	Posts    []domain.PostPreview
	Series   []domain.SeriesPreview
	Services []ServiceCard
}

func NewHomeView(h domain.Home, servicesDomain string) HomeView {
	return HomeView{
		HeroTitle:      h.HeroTitle,
		HeroText:       h.HeroTextContent,
		HeroButtonText: h.HeroButtonText,
		HeroButtonLink: h.HeroButtonLink,
		Posts:          postPreviews(domain.MostRecentPosts(h.BlogPosts)),
		Series:         domain.MostRecentSeries(h.RecentSeries),
		Services:       serviceCards(domain.MostRecentServices(h.LiveServices), servicesDomain),
	}
}

func (HomeView) Title() string { return siteName }

func postPreviews(posts []domain.Post) []domain.PostPreview {
	out := make([]domain.PostPreview, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Preview())
	}
	return out
}

// ─────────────────────────────
// Series index
// ─────────────────────────────

type SeriesIndexView struct {
	MostPopular []domain.SeriesPreview
	MostRecent  []domain.SeriesPreview

	// All keeps the upstream order unless Query is set, in which case it
	// holds only the matches, best first.
	All   []domain.SeriesPreview
	Query string
}

// NewSeriesIndexView ranks the top listings over every series. The query
// only narrows the "All Series" card.
func NewSeriesIndexView(all []domain.SeriesPreview, query string) SeriesIndexView {
	return SeriesIndexView{
		MostPopular: domain.MostPopularSeries(all),
		MostRecent:  domain.MostRecentSeries(all),
		All:         domain.SearchSeries(query, all),
		Query:       strings.TrimSpace(query),
	}
}

func (SeriesIndexView) Title() string { return siteName + " - Series" }

// ─────────────────────────────
// Series detail
// ─────────────────────────────

type SeriesView struct {
	Series   domain.Series
	Timeline []domain.PostPreview
}

func NewSeriesView(s domain.Series) SeriesView {
	return SeriesView{Series: s, Timeline: domain.SeriesTimeline(s.Posts)}
}

func (v SeriesView) Title() string { return siteName + " - " + v.Series.Title }

// ─────────────────────────────
// Post
// ─────────────────────────────

// PostView pairs the API post with its pre-rendered static document.
// The static document provides what is displayed.
type PostView struct {
	Post domain.Post
	Doc  *content.Document
}

func (v PostView) Title() string { return siteName + " - " + v.Doc.Title }

// Body is the rendered Markdown of the static document.
func (v PostView) Body() template.HTML { return template.HTML(v.Doc.HTML) }

// ─────────────────────────────
// Services
// ─────────────────────────────

type ServicesView struct {
	Services []ServiceCard
}

func (ServicesView) Title() string { return siteName + " - Services" }
