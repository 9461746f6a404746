package domain

// MovieSummary is the listing shape returned by search, discover and popular.
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Poster      *string `json:"poster"`
	ReleaseYear string  `json:"releaseYear"`
	Rating      float64 `json:"rating"`
	GenreIDs    []int   `json:"genreIds,omitempty"`
	Backdrop    *string `json:"backdrop,omitempty"`
}

// TrendingMovie adds the upstream popularity score to a summary.
type TrendingMovie struct {
	MovieSummary
	TrendingScore float64 `json:"trendingScore"`
}

// Trailer is a playable video link extracted from the upstream videos list.
type Trailer struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CastMember is one of the top billed actors of a movie.
type CastMember struct {
	Name      string  `json:"name"`
	Character string  `json:"character"`
	Profile   *string `json:"profile"`
}

// MovieDetail is the shaped payload for a single movie.
type MovieDetail struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Synopsis    string       `json:"synopsis"`
	Genres      []string     `json:"genres"`
	Rating      float64      `json:"rating"`
	ReleaseDate string       `json:"releaseDate"`
	Poster      *string      `json:"poster"`
	Backdrop    *string      `json:"backdrop"`
	Trailers    []Trailer    `json:"trailers"`
	Cast        []CastMember `json:"cast"`
}

// Genre mirrors the upstream genre list entries.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Page is a single upstream result page after shaping. Page and TotalPages are
// copied verbatim from the upstream response.
type Page[T any] struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Results    []T `json:"results"`
}
