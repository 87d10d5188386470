package domain

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode"
)

const (
	// Scoring weights
	ScoreExactMatch     = 100.0
	ScorePrefixMatch    = 75.0
	ScoreSubstringMatch = 50.0
	ScoreFuzzyMatch     = 25.0

	// Position bonus (earlier words score higher)
	ScorePositionBonus = 10.0

	// Title matches outrank slug and tag matches
	ScoreTitleWeight = 1.5

	// Fuzzy matching is skipped for shorter fragments
	fuzzyMinLen = 3
)

// Query is a parsed search input. Every fragment must match for a series
// to be a hit.
type Query struct {
	Raw       string
	Fragments []string
}

// ParseQuery lowercases input and splits it on whitespace. Punctuation is
// dropped inside each fragment.
func ParseQuery(input string) Query {
	q := Query{Raw: strings.TrimSpace(input)}
	for _, f := range strings.Fields(q.Raw) {
		if f = normalizeFragment(f); f != "" {
			q.Fragments = append(q.Fragments, f)
		}
	}
	return q
}

func (q Query) IsEmpty() bool { return len(q.Fragments) == 0 }

// SeriesCandidate is a series with its match score.
type SeriesCandidate struct {
	Series SeriesPreview
	Score  float64
}

// ScoreSeries scores s against q. Zero means no match.
func ScoreSeries(q Query, s SeriesPreview) float64 {
	if q.IsEmpty() {
		return 0
	}

	title := words(s.Title)
	var rest []string
	rest = append(rest, strings.Split(strings.ToLower(s.Slug), "-")...)
	for _, t := range s.Tags {
		rest = append(rest, words(t.Name)...)
	}

	var total float64
	for _, frag := range q.Fragments {
		best := bestFragmentScore(frag, title) * ScoreTitleWeight
		best = max(best, bestFragmentScore(frag, rest))
		if best == 0 {
			return 0
		}
		total += best
	}
	return total
}

// RankSeries returns the series matching q, best first. Equal scores keep
// their input order.
func RankSeries(q Query, series []SeriesPreview) []SeriesCandidate {
	candidates := make([]SeriesCandidate, 0, len(series))
	for _, s := range series {
		if score := ScoreSeries(q, s); score > 0 {
			candidates = append(candidates, SeriesCandidate{Series: s, Score: score})
		}
	}
	slices.SortStableFunc(candidates, func(a, b SeriesCandidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return candidates
}

// SearchSeries filters series by a free-text query. An empty query returns
// every series in input order.
func SearchSeries(input string, series []SeriesPreview) []SeriesPreview {
	q := ParseQuery(input)
	if q.IsEmpty() {
		out := slices.Clone(series)
		if out == nil {
			out = []SeriesPreview{}
		}
		return out
	}

	ranked := RankSeries(q, series)
	out := make([]SeriesPreview, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, c.Series)
	}
	return out
}

func bestFragmentScore(frag string, targets []string) float64 {
	var best float64
	for i, t := range targets {
		best = max(best, scoreFragment(frag, t, i))
	}
	return best
}

// scoreFragment scores one query fragment against one word.
func scoreFragment(frag, word string, position int) float64 {
	word = normalizeFragment(word)
	if frag == "" || word == "" {
		return 0
	}

	switch {
	case frag == word:
		return ScoreExactMatch + positionBonus(position)
	case strings.HasPrefix(word, frag):
		return ScorePrefixMatch + positionBonus(position)
	case strings.Contains(word, frag):
		idx := strings.Index(word, frag)
		return ScoreSubstringMatch + ScorePositionBonus*(1.0-float64(idx)/float64(len(word)))
	}

	if len(frag) < fuzzyMinLen {
		return 0
	}
	if sim := similarity(frag, word); sim > 0.5 {
		return ScoreFuzzyMatch * sim
	}
	return 0
}

func positionBonus(position int) float64 {
	return ScorePositionBonus * math.Exp(-float64(position)*0.3)
}

// similarity is the share of frag's runes that appear in word.
func similarity(frag, word string) float64 {
	runes := []rune(frag)
	matches := 0
	for _, r := range runes {
		if strings.ContainsRune(word, r) {
			matches++
		}
	}
	return float64(matches) / float64(len(runes))
}

func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalizeFragment(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
