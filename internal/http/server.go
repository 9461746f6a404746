// Package httpserver exposes the catalog, favorites and auth services over
// HTTP.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Clark-Hu/cinecraze/internal/auth"
	"github.com/Clark-Hu/cinecraze/internal/catalog"
	"github.com/Clark-Hu/cinecraze/internal/config"
	"github.com/Clark-Hu/cinecraze/internal/domain"
	"github.com/Clark-Hu/cinecraze/internal/favorites"
)

// Catalog is the movie lookup surface used by the handlers.
type Catalog interface {
	ListMovies(ctx context.Context, req catalog.ListingRequest) (domain.Page[domain.MovieSummary], bool, error)
	Trending(ctx context.Context, window string, page int) (domain.Page[domain.TrendingMovie], bool, error)
	Popular(ctx context.Context, page int) (domain.Page[domain.MovieSummary], bool, error)
	Genres(ctx context.Context) ([]domain.Genre, bool, error)
	MovieDetails(ctx context.Context, id int) (domain.MovieDetail, bool, error)
}

// Favorites is the per-user favorites surface.
type Favorites interface {
	Add(ctx context.Context, userID string, in favorites.AddInput) (domain.Favorite, error)
	List(ctx context.Context, userID string) ([]domain.Favorite, error)
	Remove(ctx context.Context, userID string, movieID int) (domain.Favorite, error)
}

// Accounts is the registration, login and token surface.
type Accounts interface {
	Register(ctx context.Context, in auth.RegisterInput) (auth.Session, error)
	Login(ctx context.Context, in auth.LoginInput) (auth.Session, error)
	Me(ctx context.Context, userID string) (domain.User, error)
	Authenticate(token string) (string, error)
}

// HealthChecker is implemented by the postgres store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CacheStatus is implemented by the response cache.
type CacheStatus interface {
	State() string
}

// Deps groups the services the server routes to.
type Deps struct {
	Catalog   Catalog
	Favorites Favorites
	Accounts  Accounts
	DB        HealthChecker
	Cache     CacheStatus
}

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg      config.Config
	deps     Deps
	validate *validator.Validate
	logger   *logrus.Logger
	router   chi.Router
	httpSrv  *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, deps Deps, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(recordMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSAllowedOrigins),
		MaxAge:           300,
	}))
	if cfg.IsProduction() {
		r.Use(securityHeaders)
	}

	s := &Server{
		cfg:      cfg,
		deps:     deps,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
		router:   r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		if s.cfg.RateLimitRequests > 0 {
			r.Use(httprate.LimitByIP(s.cfg.RateLimitRequests, time.Duration(s.cfg.RateLimitWindowSecs)*time.Second))
		}

		r.Route("/movies", func(r chi.Router) {
			r.Get("/all", s.handleListMovies)
			r.Get("/trending", s.handleTrending)
			r.Get("/popular", s.handlePopular)
			r.Get("/genres", s.handleGenres)
			r.Get("/details/{id}", s.handleMovieDetails)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListFavorites)
			r.Post("/", s.handleAddFavorite)
			r.Delete("/{movieId}", s.handleRemoveFavorite)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.With(s.requireAuth).Get("/me", s.handleMe)
		})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("CineCraze backend running"))
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Cache: "disabled"}
	if s.deps.Cache != nil {
		resp.Cache = s.deps.Cache.State()
	}

	// The cache degrades to misses, so only the database decides readiness.
	if s.deps.DB == nil {
		resp.Database = "disabled"
	} else if err := s.deps.DB.HealthCheck(ctx); err != nil {
		s.logger.WithError(err).Warn("health check: database unreachable")
		resp.Status = "unavailable"
		resp.Database = "unreachable"
		s.respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
