// Package favorites manages the per-user set of saved movies.
package favorites

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/cinecraze/internal/apperr"
	"github.com/Clark-Hu/cinecraze/internal/domain"
	"github.com/Clark-Hu/cinecraze/internal/repository"
)

// Store is the persistence the service needs.
type Store interface {
	Create(ctx context.Context, params repository.FavoriteCreateParams) (domain.Favorite, error)
	Exists(ctx context.Context, userID string, movieID int) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
	Delete(ctx context.Context, userID string, movieID int) (domain.Favorite, error)
}

// AddInput is the movie a user wants to save.
type AddInput struct {
	MovieID     int
	Title       string
	Poster      *string
	ReleaseYear string
	Rating      float64
	Genres      []int
	Overview    string
}

// Service implements add/list/remove. Reads always go to the store.
type Service struct {
	store  Store
	logger *logrus.Logger
}

// NewService constructs a Service.
func NewService(store Store, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{store: store, logger: logger}
}

// Add saves the movie for userID. A movie can be saved once per user.
func (s *Service) Add(ctx context.Context, userID string, in AddInput) (domain.Favorite, error) {
	if in.MovieID <= 0 {
		return domain.Favorite{}, apperr.Validation("movieId", "movieId is required")
	}
	if in.Title == "" {
		return domain.Favorite{}, apperr.Validation("title", "title is required")
	}

	exists, err := s.store.Exists(ctx, userID, in.MovieID)
	if err != nil {
		return domain.Favorite{}, apperr.Internal("Failed to add favorite", fmt.Errorf("check favorite: %w", err))
	}
	if exists {
		return domain.Favorite{}, apperr.Conflict("Movie already in favorites", nil)
	}

	fav, err := s.store.Create(ctx, repository.FavoriteCreateParams{
		UserID:      userID,
		MovieID:     in.MovieID,
		Title:       in.Title,
		Poster:      in.Poster,
		ReleaseYear: in.ReleaseYear,
		Rating:      in.Rating,
		Genres:      in.Genres,
		Overview:    in.Overview,
	})
	if err != nil {
		// A concurrent add can pass the existence check; the unique index decides.
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Favorite{}, apperr.Conflict("Movie already in favorites", err)
		}
		return domain.Favorite{}, apperr.Internal("Failed to add favorite", fmt.Errorf("create favorite: %w", err))
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "movie_id": in.MovieID}).Info("favorite added")
	return fav, nil
}

// List returns every favorite of userID.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	favs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to get favorites", fmt.Errorf("list favorites: %w", err))
	}
	return favs, nil
}

// Remove deletes the favorite and returns the removed record.
func (s *Service) Remove(ctx context.Context, userID string, movieID int) (domain.Favorite, error) {
	if movieID <= 0 {
		return domain.Favorite{}, apperr.Validation("movieId", "movieId is required")
	}
	fav, err := s.store.Delete(ctx, userID, movieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Favorite{}, apperr.NotFound("Favorite not found", err)
		}
		return domain.Favorite{}, apperr.Internal("Failed to remove favorite", fmt.Errorf("delete favorite: %w", err))
	}

	s.logger.WithFields(logrus.Fields{"user_id": userID, "movie_id": movieID}).Info("favorite removed")
	return fav, nil
}
