package domain

// SeriesPreview is the listing form of a series.
//
// Updated and Created are upstream date tuples (year, day-of-year, ...)
// and are passed through untouched.
type SeriesPreview struct {
	ID               int    `json:"id"`
	Views            int    `json:"views"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	Slug             string `json:"slug"`
	Updated          []int  `json:"updated"`
	Created          []int  `json:"created"`
	Tags             []Tag  `json:"tags"`
}

// Series is the detail form of a series. Posts are embedded, not fetched
// separately.
type Series struct {
	ID              int           `json:"id"`
	Views           int           `json:"views"`
	Title           string        `json:"title"`
	LongDescription string        `json:"long_description"`
	Slug            string        `json:"slug"`
	Updated         []int         `json:"updated"`
	Created         []int         `json:"created"`
	Tags            []Tag         `json:"tags"`
	Posts           []PostPreview `json:"posts"`
}
