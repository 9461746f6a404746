package catalog

import (
	"strconv"
	"strings"

	"github.com/Clark-Hu/cinecraze/internal/domain"
	"github.com/Clark-Hu/cinecraze/internal/tmdb"
)

const (
	posterBase   = "https://image.tmdb.org/t/p/w500"
	profileBase  = "https://image.tmdb.org/t/p/w300"
	backdropBase = "https://image.tmdb.org/t/p/original"
	youtubeWatch = "https://www.youtube.com/watch?v="

	unknownYear = "N/A"
	maxCast     = 5

	trailerType = "Trailer"
	trailerSite = "YouTube"
)

func imageURL(base, path string) *string {
	if path == "" {
		return nil
	}
	u := base + path
	return &u
}

// releaseYear returns the leading segment of a YYYY-MM-DD date, or "N/A".
func releaseYear(date string) string {
	if date == "" {
		return unknownYear
	}
	return strings.SplitN(date, "-", 2)[0]
}

func toSummary(m tmdb.Movie) domain.MovieSummary {
	return domain.MovieSummary{
		ID:          m.ID,
		Title:       m.Title,
		Poster:      imageURL(posterBase, m.PosterPath),
		ReleaseYear: releaseYear(m.ReleaseDate),
		Rating:      m.VoteAverage,
		GenreIDs:    m.GenreIDs,
	}
}

func toSummaries(movies []tmdb.Movie, withBackdrop bool) []domain.MovieSummary {
	out := make([]domain.MovieSummary, 0, len(movies))
	for _, m := range movies {
		s := toSummary(m)
		if withBackdrop {
			s.Backdrop = imageURL(backdropBase, m.BackdropPath)
		}
		out = append(out, s)
	}
	return out
}

func toTrending(movies []tmdb.Movie) []domain.TrendingMovie {
	out := make([]domain.TrendingMovie, 0, len(movies))
	for _, m := range movies {
		s := toSummary(m)
		s.Backdrop = imageURL(backdropBase, m.BackdropPath)
		out = append(out, domain.TrendingMovie{MovieSummary: s, TrendingScore: m.Popularity})
	}
	return out
}

// extractTrailers keeps YouTube videos of type Trailer, in upstream order.
func extractTrailers(videos []tmdb.Video) []domain.Trailer {
	out := make([]domain.Trailer, 0)
	for _, v := range videos {
		if v.Type != trailerType || v.Site != trailerSite || v.Key == "" {
			continue
		}
		out = append(out, domain.Trailer{Name: v.Name, URL: youtubeWatch + v.Key})
	}
	return out
}

// topCast keeps the first five credits in upstream order.
func topCast(cast []tmdb.CastCredit) []domain.CastMember {
	if len(cast) > maxCast {
		cast = cast[:maxCast]
	}
	out := make([]domain.CastMember, 0, len(cast))
	for _, c := range cast {
		out = append(out, domain.CastMember{
			Name:      c.Name,
			Character: c.Character,
			Profile:   imageURL(profileBase, c.ProfilePath),
		})
	}
	return out
}

func toDetail(d *tmdb.MovieDetails) domain.MovieDetail {
	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}
	return domain.MovieDetail{
		ID:          d.ID,
		Title:       d.Title,
		Synopsis:    d.Overview,
		Genres:      genres,
		Rating:      d.VoteAverage,
		ReleaseDate: d.ReleaseDate,
		Poster:      imageURL(posterBase, d.PosterPath),
		Backdrop:    imageURL(backdropBase, d.BackdropPath),
		Trailers:    extractTrailers(d.Videos.Results),
		Cast:        topCast(d.Credits.Cast),
	}
}

func toGenres(list *tmdb.GenreList) []domain.Genre {
	out := make([]domain.Genre, 0, len(list.Genres))
	for _, g := range list.Genres {
		out = append(out, domain.Genre{ID: g.ID, Name: g.Name})
	}
	return out
}

// applyPostFilter re-applies rating and year bounds to a search page. Genre is
// not re-applied. Movies without a release year fail any active year bound.
func applyPostFilter(results []domain.MovieSummary, req ListingRequest) []domain.MovieSummary {
	if req.MinRating == nil && req.MaxRating == nil && req.MinYear == nil && req.MaxYear == nil {
		return results
	}
	out := make([]domain.MovieSummary, 0, len(results))
	for _, m := range results {
		if req.MinRating != nil && m.Rating < *req.MinRating {
			continue
		}
		if req.MaxRating != nil && m.Rating > *req.MaxRating {
			continue
		}
		if req.MinYear != nil || req.MaxYear != nil {
			year, err := strconv.Atoi(m.ReleaseYear)
			if err != nil {
				continue
			}
			if req.MinYear != nil && year < *req.MinYear {
				continue
			}
			if req.MaxYear != nil && year > *req.MaxYear {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}
