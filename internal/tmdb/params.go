package tmdb

import (
	"net/url"
	"strconv"
)

// DefaultSort is used by discover when the caller does not pick an order.
const DefaultSort = "popularity.desc"

var sortOrders = map[string]struct{}{
	"popularity.asc":            {},
	"popularity.desc":           {},
	"primary_release_date.asc":  {},
	"primary_release_date.desc": {},
	"revenue.asc":               {},
	"revenue.desc":              {},
	"original_title.asc":        {},
	"original_title.desc":       {},
	"title.asc":                 {},
	"title.desc":                {},
	"vote_average.asc":          {},
	"vote_average.desc":         {},
	"vote_count.asc":            {},
	"vote_count.desc":           {},
}

// ValidSort reports whether sortBy is an order /discover/movie accepts.
// The empty string selects DefaultSort and is valid.
func ValidSort(sortBy string) bool {
	if sortBy == "" {
		return true
	}
	_, ok := sortOrders[sortBy]
	return ok
}

// DiscoverParams are the attribute filters accepted by /discover/movie.
// Nil fields are omitted from the request entirely.
type DiscoverParams struct {
	Page      int
	SortBy    string
	GenreID   *int
	MinYear   *int
	MaxYear   *int
	MinRating *float64
	MaxRating *float64
}

// Params renders the upstream query parameters. The same map feeds the cache
// key so cached entries always match what was sent.
func (p DiscoverParams) Params() map[string]string {
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = DefaultSort
	}
	out := map[string]string{
		"page":    strconv.Itoa(p.Page),
		"sort_by": sortBy,
	}
	if p.GenreID != nil {
		out["with_genres"] = strconv.Itoa(*p.GenreID)
	}
	if p.MinYear != nil {
		out["primary_release_date.gte"] = strconv.Itoa(*p.MinYear) + "-01-01"
	}
	if p.MaxYear != nil {
		out["primary_release_date.lte"] = strconv.Itoa(*p.MaxYear) + "-12-31"
	}
	if p.MinRating != nil {
		out["vote_average.gte"] = formatFloat(*p.MinRating)
	}
	if p.MaxRating != nil {
		out["vote_average.lte"] = formatFloat(*p.MaxRating)
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toValues(params map[string]string) url.Values {
	values := make(url.Values, len(params))
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	return values
}
