package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/cinecraze/internal/domain"
)

// FavoritesRepository stores per-user favorite movies.
type FavoritesRepository struct {
	pool *pgxpool.Pool
}

const favoriteColumns = `
    id,
    user_id,
    movie_id,
    title,
    poster,
    release_year,
    rating,
    genres,
    overview,
    created_at,
    updated_at
`

// FavoriteCreateParams captures the denormalized movie fields kept with a favorite.
type FavoriteCreateParams struct {
	UserID      string
	MovieID     int
	Title       string
	Poster      *string
	ReleaseYear string
	Rating      float64
	Genres      []int
	Overview    string
}

// Create inserts a favorite. A second insert for the same (user, movie) pair
// returns ErrDuplicate.
func (r *FavoritesRepository) Create(ctx context.Context, params FavoriteCreateParams) (domain.Favorite, error) {
	genres := params.Genres
	if genres == nil {
		genres = []int{}
	}
	releaseYear := params.ReleaseYear
	if releaseYear == "" {
		releaseYear = "N/A"
	}
	const query = `
        INSERT INTO favorites (user_id, movie_id, title, poster, release_year, rating, genres, overview)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING ` + favoriteColumns

	row := r.pool.QueryRow(ctx, query,
		params.UserID,
		params.MovieID,
		params.Title,
		params.Poster,
		releaseYear,
		params.Rating,
		genres,
		params.Overview,
	)
	return scanFavorite(row)
}

// Exists reports whether the user already saved the movie.
func (r *FavoritesRepository) Exists(ctx context.Context, userID string, movieID int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND movie_id = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, movieID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByUser returns the user's favorites, newest first.
func (r *FavoritesRepository) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	const query = `SELECT ` + favoriteColumns + ` FROM favorites WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.Favorite, 0)
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Delete removes the favorite and returns the deleted row, or ErrNotFound
// when nothing matched.
func (r *FavoritesRepository) Delete(ctx context.Context, userID string, movieID int) (domain.Favorite, error) {
	const query = `DELETE FROM favorites WHERE user_id = $1 AND movie_id = $2 RETURNING ` + favoriteColumns
	return scanFavorite(r.pool.QueryRow(ctx, query, userID, movieID))
}

func scanFavorite(row pgx.Row) (domain.Favorite, error) {
	var f domain.Favorite
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.MovieID,
		&f.Title,
		&f.Poster,
		&f.ReleaseYear,
		&f.Rating,
		&f.Genres,
		&f.Overview,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return domain.Favorite{}, translate(err)
	}
	return f, nil
}
