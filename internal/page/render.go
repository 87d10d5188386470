package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/dankservices/blog-site/internal/domain"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Template names, one per page.
const (
	TmplHome        = "home"
	TmplSeriesIndex = "series_index"
	TmplSeries      = "series"
	TmplPost        = "post"
	TmplServices    = "services"
)

// Titled views provide the document title.
type Titled interface {
	Title() string
}

type seriesCard struct {
	Heading string
	Series  []domain.SeriesPreview
}

var funcs = template.FuncMap{
	"card": func(heading string, series []domain.SeriesPreview) seriesCard {
		return seriesCard{Heading: heading, Series: series}
	},
}

// Renderer holds one parsed template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{TmplHome, TmplSeriesIndex, TmplSeries, TmplPost, TmplServices} {
		set, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := set.ParseFS(templateFS, "templates/"+name+".gohtml"); err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = set
	}
	return r, nil
}

type layoutData struct {
	Title string
	State string
	Data  any
}

// Render writes the variant of p matching its state: the loading
// placeholder, the "Failed to load" message, or the page itself.
// On error w may hold a partial page; callers render into a buffer.
func Render[T Titled](r *Renderer, w io.Writer, name string, p *Page[T]) error {
	set, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}

	ld := layoutData{Title: siteName, State: p.State().String()}
	if data, ok := p.Data(); ok {
		ld.Title = data.Title()
		ld.Data = data
	}

	if err := set.ExecuteTemplate(w, "layout", ld); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// StatusCode maps a page state to the HTTP status of the rendered page.
func StatusCode(s State) int {
	switch s {
	case Loaded:
		return http.StatusOK
	case Error:
		return http.StatusBadGateway
	default:
		return http.StatusAccepted
	}
}
