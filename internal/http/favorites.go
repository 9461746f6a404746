package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/cinecraze/internal/auth"
	"github.com/Clark-Hu/cinecraze/internal/domain"
	"github.com/Clark-Hu/cinecraze/internal/favorites"
)

type favoriteRequest struct {
	MovieID     int     `json:"movieId" validate:"required,gt=0"`
	Title       string  `json:"title" validate:"required"`
	Poster      *string `json:"poster"`
	ReleaseYear string  `json:"releaseYear"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=10"`
	Genres      []int   `json:"genres"`
	Overview    string  `json:"overview"`
}

type favoriteResponse struct {
	Success  bool            `json:"success"`
	Favorite domain.Favorite `json:"favorite"`
}

type favoritesResponse struct {
	Success   bool              `json:"success"`
	Favorites []domain.Favorite `json:"favorites"`
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req favoriteRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "movieId and title are required")
		return
	}

	fav, err := s.deps.Favorites.Add(r.Context(), userID, favorites.AddInput{
		MovieID:     req.MovieID,
		Title:       req.Title,
		Poster:      req.Poster,
		ReleaseYear: req.ReleaseYear,
		Rating:      req.Rating,
		Genres:      req.Genres,
		Overview:    req.Overview,
	})
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, favoriteResponse{Success: true, Favorite: fav})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	favs, err := s.deps.Favorites.List(r.Context(), userID)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, favoritesResponse{Success: true, Favorites: nonNil(favs)})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	movieID, err := strconv.Atoi(chi.URLParam(r, "movieId"))
	if err != nil || movieID <= 0 {
		s.respondError(w, http.StatusBadRequest, "Invalid movie id")
		return
	}

	fav, err := s.deps.Favorites.Remove(r.Context(), userID, movieID)
	if err != nil {
		s.respondAppError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("%s is removed from Favorites", fav.Title),
	})
}
