package content

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/dankservices/blog-site/internal/domain"
)

// Ext is the file extension of post documents.
const Ext = ".md"

// Address locates a static post: <slug>/<id>.md under the content root.
type Address struct {
	Slug string `json:"slug"`
	ID   string `json:"id"`
}

func (a Address) String() string { return a.Slug + "/" + a.ID }

// File is the path of the document relative to the content root.
func (a Address) File() string { return a.Slug + "/" + a.ID + Ext }

// Validate rejects empty segments and anything that could escape the root.
func (a Address) Validate() error {
	for _, seg := range []string{a.Slug, a.ID} {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) {
			return fmt.Errorf("%w: %q", domain.ErrInvalidAddress, a.String())
		}
	}
	if !fs.ValidPath(a.File()) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidAddress, a.String())
	}
	return nil
}

// ParseAddress parses "slug/id".
func ParseAddress(s string) (Address, error) {
	slug, id, ok := strings.Cut(s, "/")
	if !ok {
		return Address{}, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, s)
	}
	a := Address{Slug: slug, ID: strings.TrimSuffix(id, Ext)}
	return a, a.Validate()
}

// FrontMatter is the YAML header of a document.
type FrontMatter struct {
	Title            string       `yaml:"title" json:"title"`
	SubTitle         string       `yaml:"subTitle" json:"subTitle"`
	ShortDescription string       `yaml:"shortDescription" json:"shortDescription"`
	Date             string       `yaml:"date" json:"date"`
	Tags             []domain.Tag `yaml:"tags" json:"tags,omitempty"`
}

// Document is a loaded post: metadata plus the rendered HTML body.
type Document struct {
	Address
	FrontMatter

	HTML string `json:"contentHtml"`
}

// Post maps the document onto the API post shape. Non-numeric ids map to 0.
func (d *Document) Post() domain.Post {
	id, _ := strconv.Atoi(d.ID)
	return domain.Post{
		ID:               id,
		Title:            d.Title,
		ShortDescription: d.ShortDescription,
		Date:             d.Date,
		Content:          d.HTML,
		Slug:             d.Slug,
		Tags:             d.Tags,
	}
}
