package catalog

import (
	"strings"

	"github.com/Clark-Hu/cinecraze/internal/apperr"
	"github.com/Clark-Hu/cinecraze/internal/tmdb"
)

const (
	minRatingBound = 0
	maxRatingBound = 10

	minYearBound = 1000
	maxYearBound = 9999
)

// ListingRequest is a normalized movie catalog query. Nil filters are absent.
type ListingRequest struct {
	Search    string
	GenreID   *int
	MinYear   *int
	MaxYear   *int
	MinRating *float64
	MaxRating *float64
	Sort      string
	Page      int
}

// SearchText returns the trimmed search string.
func (r ListingRequest) SearchText() string {
	return strings.TrimSpace(r.Search)
}

// Validate rejects out-of-range ratings and years, an inverted year range,
// unknown sort orders and pages below 1. The rating pair itself is not
// order-checked.
func (r ListingRequest) Validate() error {
	if r.MinRating != nil && outOfRatingRange(*r.MinRating) {
		return apperr.Validation("minRating", "Ratings must be between 0 and 10")
	}
	if r.MaxRating != nil && outOfRatingRange(*r.MaxRating) {
		return apperr.Validation("maxRating", "Ratings must be between 0 and 10")
	}
	if r.MinYear != nil && outOfYearRange(*r.MinYear) {
		return apperr.Validation("minYear", "Years must be between 1000 and 9999")
	}
	if r.MaxYear != nil && outOfYearRange(*r.MaxYear) {
		return apperr.Validation("maxYear", "Years must be between 1000 and 9999")
	}
	if r.MinYear != nil && r.MaxYear != nil && *r.MinYear > *r.MaxYear {
		return apperr.Validation("minYear", "minYear cannot exceed maxYear")
	}
	if !tmdb.ValidSort(r.Sort) {
		return apperr.Validation("sort", "invalid sort value")
	}
	if r.Page < 1 {
		return apperr.Validation("page", "page must be a positive integer")
	}
	return nil
}

func outOfRatingRange(v float64) bool {
	return v < minRatingBound || v > maxRatingBound || v != v
}

func outOfYearRange(v int) bool {
	return v < minYearBound || v > maxYearBound
}
