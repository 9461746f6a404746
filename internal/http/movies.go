package httpserver

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/cinecraze/internal/catalog"
	"github.com/Clark-Hu/cinecraze/internal/domain"
	"github.com/Clark-Hu/cinecraze/internal/tmdb"
)

type listingResponse struct {
	Success    bool                  `json:"success"`
	Cached     bool                  `json:"cached"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"totalPages"`
	Results    []domain.MovieSummary `json:"results"`
}

type trendingResponse struct {
	Success    bool                   `json:"success"`
	Cached     bool                   `json:"cached"`
	TimeWindow string                 `json:"timeWindow"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"totalPages"`
	Results    []domain.TrendingMovie `json:"results"`
}

type genresResponse struct {
	Success bool           `json:"success"`
	Cached  bool           `json:"cached"`
	Genres  []domain.Genre `json:"genres"`
}

type detailResponse struct {
	Success bool               `json:"success"`
	Cached  bool               `json:"cached"`
	Movie   domain.MovieDetail `json:"movie"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	req, err := buildListingRequest(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, cached, err := s.deps.Catalog.ListMovies(r.Context(), req)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, listingResponse{
		Success:    true,
		Cached:     cached,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Results:    nonNil(page.Results),
	})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	window := strings.TrimSpace(query.Get("time_window"))
	if window == "" {
		window = tmdb.WindowDay
	}
	pageNum, err := parsePage(query)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, cached, err := s.deps.Catalog.Trending(r.Context(), window, pageNum)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, trendingResponse{
		Success:    true,
		Cached:     cached,
		TimeWindow: window,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Results:    nonNil(page.Results),
	})
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	pageNum, err := parsePage(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, cached, err := s.deps.Catalog.Popular(r.Context(), pageNum)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, listingResponse{
		Success:    true,
		Cached:     cached,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Results:    nonNil(page.Results),
	})
}

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	genres, cached, err := s.deps.Catalog.Genres(r.Context())
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, genresResponse{Success: true, Cached: cached, Genres: nonNil(genres)})
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.respondError(w, http.StatusBadRequest, "Invalid movie id")
		return
	}

	movie, cached, err := s.deps.Catalog.MovieDetails(r.Context(), id)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, detailResponse{Success: true, Cached: cached, Movie: movie})
}

// buildListingRequest parses the listing query string. Absent or blank values
// leave the filter unset; malformed numbers are rejected.
func buildListingRequest(query url.Values) (catalog.ListingRequest, error) {
	req := catalog.ListingRequest{
		Search: strings.TrimSpace(query.Get("search")),
		Sort:   strings.TrimSpace(query.Get("sort")),
	}

	var err error
	if req.GenreID, err = optionalInt(query, "genre"); err != nil {
		return req, err
	}
	if req.MinYear, err = optionalInt(query, "minYear"); err != nil {
		return req, err
	}
	if req.MaxYear, err = optionalInt(query, "maxYear"); err != nil {
		return req, err
	}
	if req.MinRating, err = optionalFloat(query, "minRating"); err != nil {
		return req, err
	}
	if req.MaxRating, err = optionalFloat(query, "maxRating"); err != nil {
		return req, err
	}
	if req.Page, err = parsePage(query); err != nil {
		return req, err
	}
	return req, nil
}

func parsePage(query url.Values) (int, error) {
	val := strings.TrimSpace(query.Get("page"))
	if val == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(val)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page value")
	}
	return page, nil
}

func optionalInt(query url.Values, name string) (*int, error) {
	val := strings.TrimSpace(query.Get(name))
	if val == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value", name)
	}
	return &n, nil
}

func optionalFloat(query url.Values, name string) (*float64, error) {
	val := strings.TrimSpace(query.Get(name))
	if val == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("invalid %s value", name)
	}
	return &f, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
