// Package tmdb is a client for The Movie Database v3 API, covering the
// endpoints the catalog proxies.
package tmdb

// Movie is a record from any listing endpoint (search, discover, trending,
// popular). Missing paths and dates decode as empty strings.
type Movie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
}

// ListResponse is a paginated listing.
type ListResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is an entry of the movie genre list.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the /genre/movie/list payload.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// Video is an entry of the appended videos sub-resource.
type Video struct {
	Name     string `json:"name"`
	Key      string `json:"key"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// CastCredit is an entry of the appended credits.cast sub-resource.
type CastCredit struct {
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// MovieDetails is /movie/{id} with videos and credits appended.
type MovieDetails struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	Genres       []Genre `json:"genres"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Runtime      int     `json:"runtime"`
	Videos       struct {
		Results []Video `json:"results"`
	} `json:"videos"`
	Credits struct {
		Cast []CastCredit `json:"cast"`
	} `json:"credits"`
}
