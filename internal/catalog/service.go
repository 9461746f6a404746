// Package catalog resolves movie catalog requests against the upstream movie
// API, with a response cache in front of every non-search lookup.
package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/cinecraze/internal/apperr"
	"github.com/Clark-Hu/cinecraze/internal/cache"
	"github.com/Clark-Hu/cinecraze/internal/domain"
	"github.com/Clark-Hu/cinecraze/internal/metrics"
	"github.com/Clark-Hu/cinecraze/internal/tmdb"
)

// ResponseCache is the best-effort cache the service reads through. Get
// reports a miss for any failure; Set never fails the caller.
type ResponseCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any, ttl time.Duration)
}

// Messages written to clients.
const (
	msgNotFound       = "Resource not found"
	msgFetchMovies    = "Failed to fetch movies"
	msgFetchTrending  = "Failed to fetch trending movies"
	msgFetchPopular   = "Failed to fetch popular"
	msgFetchGenres    = "Failed to fetch genres"
	msgFetchDetails   = "Failed to fetch details"
	msgInvalidWindow  = "Invalid time window. Use 'day' or 'week'"
	msgInvalidMovieID = "Invalid movie id"
)

// Service implements the catalog operations.
type Service struct {
	upstream tmdb.Client
	cache    ResponseCache
	logger   *logrus.Logger
}

// NewService wires the upstream client and cache. A nil cache disables caching.
func NewService(upstream tmdb.Client, rc ResponseCache, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{upstream: upstream, cache: rc, logger: logger}
}

// ListMovies resolves a listing request. Non-empty search text goes to the
// search endpoint with filters re-applied locally and is never cached; any
// other request goes to the discover endpoint through the cache.
func (s *Service) ListMovies(ctx context.Context, req ListingRequest) (domain.Page[domain.MovieSummary], bool, error) {
	if err := req.Validate(); err != nil {
		return domain.Page[domain.MovieSummary]{}, false, err
	}

	if query := req.SearchText(); query != "" {
		resp, err := s.upstream.SearchMovies(ctx, query, req.Page)
		if err != nil {
			return domain.Page[domain.MovieSummary]{}, false, s.upstreamError("search", msgFetchMovies, err)
		}
		results := applyPostFilter(toSummaries(resp.Results, false), req)
		return domain.Page[domain.MovieSummary]{
			Page:       resp.Page,
			TotalPages: resp.TotalPages,
			Results:    results,
		}, false, nil
	}

	params := tmdb.DiscoverParams{
		Page:      req.Page,
		SortBy:    req.Sort,
		GenreID:   req.GenreID,
		MinYear:   req.MinYear,
		MaxYear:   req.MaxYear,
		MinRating: req.MinRating,
		MaxRating: req.MaxRating,
	}
	key := cache.Key("discover", params.Params())

	var page domain.Page[domain.MovieSummary]
	if s.lookup(ctx, "discover", key, &page) {
		return page, true, nil
	}

	resp, err := s.upstream.DiscoverMovies(ctx, params)
	if err != nil {
		return domain.Page[domain.MovieSummary]{}, false, s.upstreamError("discover", msgFetchMovies, err)
	}
	page = domain.Page[domain.MovieSummary]{
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
		Results:    toSummaries(resp.Results, false),
	}
	s.store(ctx, key, page, cache.PopularTTL)
	return page, false, nil
}

// Trending returns the trending page for window, which must be day or week.
func (s *Service) Trending(ctx context.Context, window string, page int) (domain.Page[domain.TrendingMovie], bool, error) {
	if window != tmdb.WindowDay && window != tmdb.WindowWeek {
		return domain.Page[domain.TrendingMovie]{}, false, apperr.Validation("time_window", msgInvalidWindow)
	}
	if page < 1 {
		return domain.Page[domain.TrendingMovie]{}, false, apperr.Validation("page", "page must be a positive integer")
	}

	key := cache.Key("trending", map[string]string{
		"page":       strconv.Itoa(page),
		"timeWindow": window,
	})
	var out domain.Page[domain.TrendingMovie]
	if s.lookup(ctx, "trending", key, &out) {
		return out, true, nil
	}

	resp, err := s.upstream.TrendingMovies(ctx, window, page)
	if err != nil {
		return domain.Page[domain.TrendingMovie]{}, false, s.upstreamError("trending", msgFetchTrending, err)
	}
	out = domain.Page[domain.TrendingMovie]{
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
		Results:    toTrending(resp.Results),
	}
	s.store(ctx, key, out, cache.TrendingTTL)
	return out, false, nil
}

// Popular returns a page of the upstream popular list.
func (s *Service) Popular(ctx context.Context, page int) (domain.Page[domain.MovieSummary], bool, error) {
	if page < 1 {
		return domain.Page[domain.MovieSummary]{}, false, apperr.Validation("page", "page must be a positive integer")
	}

	key := cache.Key("popular", map[string]string{"page": strconv.Itoa(page)})
	var out domain.Page[domain.MovieSummary]
	if s.lookup(ctx, "popular", key, &out) {
		return out, true, nil
	}

	resp, err := s.upstream.PopularMovies(ctx, page)
	if err != nil {
		return domain.Page[domain.MovieSummary]{}, false, s.upstreamError("popular", msgFetchPopular, err)
	}
	out = domain.Page[domain.MovieSummary]{
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
		Results:    toSummaries(resp.Results, true),
	}
	s.store(ctx, key, out, cache.PopularTTL)
	return out, false, nil
}

// Genres returns the upstream genre list.
func (s *Service) Genres(ctx context.Context) ([]domain.Genre, bool, error) {
	key := cache.Key("genres", nil)
	var out []domain.Genre
	if s.lookup(ctx, "genres", key, &out) {
		return out, true, nil
	}

	resp, err := s.upstream.Genres(ctx)
	if err != nil {
		return nil, false, s.upstreamError("genres", msgFetchGenres, err)
	}
	out = toGenres(resp)
	s.store(ctx, key, out, cache.GenresTTL)
	return out, false, nil
}

// MovieDetails returns the shaped detail record for id.
func (s *Service) MovieDetails(ctx context.Context, id int) (domain.MovieDetail, bool, error) {
	if id <= 0 {
		return domain.MovieDetail{}, false, apperr.Validation("id", msgInvalidMovieID)
	}

	key := cache.Key("details", map[string]string{"id": strconv.Itoa(id)})
	var out domain.MovieDetail
	if s.lookup(ctx, "details", key, &out) {
		return out, true, nil
	}

	resp, err := s.upstream.MovieDetails(ctx, id)
	if err != nil {
		return domain.MovieDetail{}, false, s.upstreamError("details", msgFetchDetails, err)
	}
	out = toDetail(resp)
	s.store(ctx, key, out, cache.DetailsTTL)
	return out, false, nil
}

func (s *Service) lookup(ctx context.Context, endpoint, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit := s.cache.Get(ctx, key, dst)
	metrics.RecordCacheLookup(endpoint, hit)
	return hit
}

func (s *Service) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	s.cache.Set(ctx, key, value, ttl)
}

func (s *Service) upstreamError(endpoint, message string, err error) error {
	if errors.Is(err, tmdb.ErrNotFound) {
		return apperr.NotFound(msgNotFound, err)
	}
	s.logger.WithError(err).WithField("endpoint", endpoint).Error("upstream request failed")
	return apperr.Upstream(message, err)
}
