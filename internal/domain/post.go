package domain

// Tag is a display label attached to posts, series and services.
type Tag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// PostPreview is the listing form of a post, embedded in series and lists.
type PostPreview struct {
	// ─────────────────────────────
	// Identity (owned by upstream)
	// ─────────────────────────────

	ID int `json:"id"`

	// SeriesID is nil for standalone posts.
	SeriesID *int `json:"series_id,omitempty"`

	// ─────────────────────────────
	// Display
	// ─────────────────────────────

	Title            string `json:"title"`
	Date             string `json:"date"`
	ShortDescription string `json:"short_description"`
	Slug             string `json:"slug"`
	Tags             []Tag  `json:"tags"`
}

// Post is a full post with its rendered HTML body.
type Post struct {
	ID       int  `json:"id"`
	SeriesID *int `json:"series_id,omitempty"`

	// Views is maintained by upstream.
	Views int `json:"views"`

	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	Date             string `json:"date"`

	// Content is HTML, already rendered.
	Content string `json:"content"`

	Slug string `json:"slug"`
	Tags []Tag  `json:"tags"`
}

// Preview returns the listing form of p.
func (p Post) Preview() PostPreview {
	return PostPreview{
		ID:               p.ID,
		SeriesID:         p.SeriesID,
		Title:            p.Title,
		Date:             p.Date,
		ShortDescription: p.ShortDescription,
		Slug:             p.Slug,
		Tags:             p.Tags,
	}
}
