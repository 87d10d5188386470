package domain

import (
	"cmp"
	"slices"
)

// RankLimit is the number of entries shown in every "top" listing.
const RankLimit = 3

// Ranker orders a collection and keeps at most Limit entries.
// A Limit of 0 keeps everything.
type Ranker[T any] struct {
	Compare func(a, b T) int
	Limit   int
}

// Apply returns a sorted, truncated copy of items. Ties keep their input
// order and items itself is never reordered.
func (r Ranker[T]) Apply(items []T) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.SortStableFunc(out, r.Compare)
	if r.Limit > 0 && len(out) > r.Limit {
		out = out[:r.Limit]
	}
	return out
}

// ─────────────────────────────
// Comparators
// ─────────────────────────────

// ByIDDesc treats a higher id as more recent.
// This is provisional until upstream exposes a proper ordering key.
func ByIDDesc[T any](id func(T) int) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(id(b), id(a)) }
}

// ByIDAsc orders by id, oldest first.
func ByIDAsc[T any](id func(T) int) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(id(a), id(b)) }
}

// ByViewsDesc orders by view count, highest first.
func ByViewsDesc[T any](views func(T) int) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(views(b), views(a)) }
}

// ─────────────────────────────
// Listings
// ─────────────────────────────

func MostRecentPosts(posts []Post) []Post {
	return Ranker[Post]{
		Compare: ByIDDesc(func(p Post) int { return p.ID }),
		Limit:   RankLimit,
	}.Apply(posts)
}

func MostRecentSeries(series []SeriesPreview) []SeriesPreview {
	return Ranker[SeriesPreview]{
		Compare: ByIDDesc(func(s SeriesPreview) int { return s.ID }),
		Limit:   RankLimit,
	}.Apply(series)
}

func MostRecentServices(services []Service) []Service {
	return Ranker[Service]{
		Compare: ByIDDesc(func(s Service) int { return s.ID }),
		Limit:   RankLimit,
	}.Apply(services)
}

func MostPopularSeries(series []SeriesPreview) []SeriesPreview {
	return Ranker[SeriesPreview]{
		Compare: ByViewsDesc(func(s SeriesPreview) int { return s.Views }),
		Limit:   RankLimit,
	}.Apply(series)
}

// SeriesTimeline returns the posts of a series in reading order.
// It is never truncated.
func SeriesTimeline(posts []PostPreview) []PostPreview {
	return Ranker[PostPreview]{
		Compare: ByIDAsc(func(p PostPreview) int { return p.ID }),
	}.Apply(posts)
}
