package tmdb

import "testing"

func TestDiscoverParams(t *testing.T) {
	minYear, maxYear := 1990, 1999
	minRating, maxRating := 6.5, 9.0

	got := DiscoverParams{
		Page:      3,
		SortBy:    "vote_average.desc",
		MinYear:   &minYear,
		MaxYear:   &maxYear,
		MinRating: &minRating,
		MaxRating: &maxRating,
	}.Params()

	want := map[string]string{
		"page":                     "3",
		"sort_by":                  "vote_average.desc",
		"primary_release_date.gte": "1990-01-01",
		"primary_release_date.lte": "1999-12-31",
		"vote_average.gte":         "6.5",
		"vote_average.lte":         "9",
	}
	if len(got) != len(want) {
		t.Fatalf("Params() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("Params()[%s] = %q, want %q", k, got[k], v)
		}
	}
}

func TestDiscoverParamsDefaults(t *testing.T) {
	got := DiscoverParams{Page: 1}.Params()
	if got["sort_by"] != DefaultSort {
		t.Fatalf("sort_by = %q, want %q", got["sort_by"], DefaultSort)
	}
	if _, ok := got["with_genres"]; ok {
		t.Fatalf("absent genre must not be sent")
	}
}

func FuzzDiscoverParams(f *testing.F) {
	f.Add(1, 28, 2000, 2010, 5.5, 8.0)
	f.Fuzz(func(t *testing.T, page, genre, minYear, maxYear int, minRating, maxRating float64) {
		params := DiscoverParams{
			Page:      page,
			GenreID:   &genre,
			MinYear:   &minYear,
			MaxYear:   &maxYear,
			MinRating: &minRating,
			MaxRating: &maxRating,
		}.Params()
		for k, v := range params {
			if v == "" {
				t.Fatalf("param %s rendered empty", k)
			}
		}
	})
}

func TestValidSort(t *testing.T) {
	tests := []struct {
		sortBy string
		want   bool
	}{
		{"", true},
		{DefaultSort, true},
		{"vote_average.desc", true},
		{"primary_release_date.asc", true},
		{"rating", false},
		{"popularity.desc:with_genres:28", false},
		{"POPULARITY.DESC", false},
	}
	for _, tt := range tests {
		if got := ValidSort(tt.sortBy); got != tt.want {
			t.Fatalf("ValidSort(%q) = %v, want %v", tt.sortBy, got, tt.want)
		}
	}
}
