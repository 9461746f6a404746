package domain

import "time"

// Favorite is a movie a user saved, with the display fields denormalized so
// the favorites page renders without calling the upstream.
type Favorite struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	MovieID     int       `json:"movieId"`
	Title       string    `json:"title"`
	Poster      *string   `json:"poster"`
	ReleaseYear string    `json:"releaseYear"`
	Rating      float64   `json:"rating"`
	Genres      []int     `json:"genres"`
	Overview    string    `json:"overview"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
