package main

import (
	"flag"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/cinecraze/internal/tmdb"
)

// fixtures is the on-disk shape of the mock data file.
type fixtures struct {
	Movies   []tmdb.Movie                 `json:"movies"`
	Genres   []tmdb.Genre                 `json:"genres"`
	Details  map[string]tmdb.MovieDetails `json:"details"`
	PageSize int                          `json:"pageSize"`
}

func main() {
	var (
		port    = flag.String("port", "9099", "port to listen on")
		data    = flag.String("data", "mock-tmdb.json", "path to mock data file")
		apiKey  = flag.String("api-key", "", "reject requests whose api_key differs (empty accepts any)")
		verbose = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}
	var fx fixtures
	if err := json.Unmarshal(file, &fx); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}
	if fx.PageSize <= 0 {
		fx.PageSize = 20
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if *apiKey != "" && req.URL.Query().Get("api_key") != *apiKey {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"status_code": 7, "status_message": "Invalid API key"})
				return
			}
			if *verbose {
				log.WithFields(logrus.Fields{"method": req.Method, "path": req.URL.Path}).Info("mock request")
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Route("/3", func(r chi.Router) {
		r.Get("/search/movie", func(w http.ResponseWriter, req *http.Request) {
			query := strings.ToLower(req.URL.Query().Get("query"))
			var matched []tmdb.Movie
			for _, m := range fx.Movies {
				if strings.Contains(strings.ToLower(m.Title), query) {
					matched = append(matched, m)
				}
			}
			writeJSON(w, http.StatusOK, paginate(matched, pageParam(req), fx.PageSize))
		})
		r.Get("/discover/movie", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, paginate(discover(fx.Movies, req), pageParam(req), fx.PageSize))
		})
		r.Get("/trending/movie/{window}", func(w http.ResponseWriter, req *http.Request) {
			window := chi.URLParam(req, "window")
			if window != tmdb.WindowDay && window != tmdb.WindowWeek {
				writeJSON(w, http.StatusNotFound, map[string]any{"status_code": 34})
				return
			}
			writeJSON(w, http.StatusOK, paginate(fx.Movies, pageParam(req), fx.PageSize))
		})
		r.Get("/movie/popular", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, paginate(fx.Movies, pageParam(req), fx.PageSize))
		})
		r.Get("/genre/movie/list", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, tmdb.GenreList{Genres: fx.Genres})
		})
		r.Get("/movie/{id}", func(w http.ResponseWriter, req *http.Request) {
			details, ok := fx.Details[chi.URLParam(req, "id")]
			if !ok {
				writeJSON(w, http.StatusNotFound, map[string]any{"status_code": 34, "status_message": "The resource you requested could not be found."})
				return
			}
			writeJSON(w, http.StatusOK, details)
		})
	})

	addr := ":" + *port
	log.WithFields(logrus.Fields{"addr": addr, "movies": len(fx.Movies), "details": len(fx.Details)}).Info("mock tmdb listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// discover applies the subset of discover filters the catalog sends.
func discover(movies []tmdb.Movie, req *http.Request) []tmdb.Movie {
	q := req.URL.Query()
	genre, hasGenre := atoi(q.Get("with_genres"))
	minRating, hasMin := atof(q.Get("vote_average.gte"))
	maxRating, hasMax := atof(q.Get("vote_average.lte"))
	from := q.Get("primary_release_date.gte")
	to := q.Get("primary_release_date.lte")

	var out []tmdb.Movie
	for _, m := range movies {
		if hasGenre && !containsInt(m.GenreIDs, genre) {
			continue
		}
		if hasMin && m.VoteAverage < minRating {
			continue
		}
		if hasMax && m.VoteAverage > maxRating {
			continue
		}
		if from != "" && (m.ReleaseDate == "" || m.ReleaseDate < from) {
			continue
		}
		if to != "" && (m.ReleaseDate == "" || m.ReleaseDate > to) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func paginate(movies []tmdb.Movie, page, size int) tmdb.ListResponse {
	total := (len(movies) + size - 1) / size
	if total == 0 {
		total = 1
	}
	resp := tmdb.ListResponse{Page: page, TotalPages: total, TotalResults: len(movies), Results: []tmdb.Movie{}}
	start := (page - 1) * size
	if start >= len(movies) {
		return resp
	}
	end := start + size
	if end > len(movies) {
		end = len(movies)
	}
	resp.Results = movies[start:end]
	return resp
}

func pageParam(req *http.Request) int {
	if page, ok := atoi(req.URL.Query().Get("page")); ok && page > 0 {
		return page
	}
	return 1
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

func atof(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
