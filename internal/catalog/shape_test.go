package catalog

import (
	"testing"

	"github.com/Clark-Hu/cinecraze/internal/domain"
	"github.com/Clark-Hu/cinecraze/internal/tmdb"
)

func TestReleaseYear(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2022-03-01", "2022"},
		{"1989", "1989"},
		{"", "N/A"},
		{"20-01-01", "20"},
	}
	for _, tt := range tests {
		if got := releaseYear(tt.date); got != tt.want {
			t.Fatalf("releaseYear(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func FuzzReleaseYear(f *testing.F) {
	seeds := []string{"2022-03-01", "", "-", "abcd-ef", "1999--"}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, date string) {
		got := releaseYear(date)
		if date == "" {
			if got != "N/A" {
				t.Fatalf("empty date produced %q", got)
			}
			return
		}
		if len(got) > len(date) || date[:len(got)] != got {
			t.Fatalf("releaseYear(%q) = %q is not a prefix", date, got)
		}
	})
}

func TestImageURL(t *testing.T) {
	if got := imageURL(posterBase, ""); got != nil {
		t.Fatalf("empty path should give nil, got %q", *got)
	}
	got := imageURL(posterBase, "/a.jpg")
	if got == nil || *got != "https://image.tmdb.org/t/p/w500/a.jpg" {
		t.Fatalf("unexpected poster url %v", got)
	}
}

func TestExtractTrailersKeepsOnlyYouTubeTrailers(t *testing.T) {
	videos := []tmdb.Video{
		{Name: "Teaser", Key: "a", Site: "YouTube", Type: "Teaser"},
		{Name: "Official Trailer", Key: "b", Site: "YouTube", Type: "Trailer"},
		{Name: "Clip", Key: "c", Site: "YouTube", Type: "Clip"},
		{Name: "Trailer 2", Key: "d", Site: "YouTube", Type: "Trailer"},
	}
	got := extractTrailers(videos)
	if len(got) != 2 || got[0].Name != "Official Trailer" || got[1].URL != "https://www.youtube.com/watch?v=d" {
		t.Fatalf("unexpected trailers %+v", got)
	}
	if out := extractTrailers(nil); out == nil || len(out) != 0 {
		t.Fatalf("nil videos should give an empty, non-nil slice")
	}
}

func TestApplyPostFilter(t *testing.T) {
	movies := []domain.MovieSummary{
		{ID: 1, ReleaseYear: "1999", Rating: 8.1},
		{ID: 2, ReleaseYear: "2015", Rating: 5.0},
		{ID: 3, ReleaseYear: "N/A", Rating: 9.0},
		{ID: 4, ReleaseYear: "2010", Rating: 7.0},
	}
	min7 := 7.0
	max8 := 8.0
	from := 2000
	to := 2012

	tests := []struct {
		name string
		req  ListingRequest
		want []int
	}{
		{"no filters", ListingRequest{}, []int{1, 2, 3, 4}},
		{"min rating", ListingRequest{MinRating: &min7}, []int{1, 3, 4}},
		{"max rating", ListingRequest{MaxRating: &max8}, []int{2, 4}},
		{"year range drops undated", ListingRequest{MinYear: &from, MaxYear: &to}, []int{4}},
		{"upper year only", ListingRequest{MaxYear: &to}, []int{1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyPostFilter(movies, tt.req)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d movies, want %v", len(got), tt.want)
			}
			for i, m := range got {
				if m.ID != tt.want[i] {
					t.Fatalf("position %d: got id %d, want %d", i, m.ID, tt.want[i])
				}
			}
		})
	}
}
