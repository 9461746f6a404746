package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Clark-Hu/cinecraze/internal/auth"
	"github.com/Clark-Hu/cinecraze/internal/cache"
	"github.com/Clark-Hu/cinecraze/internal/catalog"
	"github.com/Clark-Hu/cinecraze/internal/config"
	"github.com/Clark-Hu/cinecraze/internal/favorites"
	httpserver "github.com/Clark-Hu/cinecraze/internal/http"
	"github.com/Clark-Hu/cinecraze/internal/logger"
	"github.com/Clark-Hu/cinecraze/internal/repository"
	"github.com/Clark-Hu/cinecraze/internal/store"
	"github.com/Clark-Hu/cinecraze/internal/tmdb"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 log,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer st.Close()

	responseCache := cache.New(newCacheBackend(ctx, cfg, log), log, cache.DefaultOptions())
	defer responseCache.Close()

	upstream, err := tmdb.NewHTTPClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, tmdb.Options{
		Timeout:   time.Duration(cfg.TMDBTimeoutSecs) * time.Second,
		RateLimit: rate.Limit(cfg.TMDBRateLimitRPS),
		Burst:     cfg.TMDBRateLimitBurst,
		Logger:    log,
	})
	if err != nil {
		log.Fatalf("init tmdb client: %v", err)
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)
	if err != nil {
		log.Fatalf("init token manager: %v", err)
	}

	repo := repository.New(st)
	server := httpserver.New(cfg, httpserver.Deps{
		Catalog:   catalog.NewService(upstream, responseCache, log),
		Favorites: favorites.NewService(repo.Favorites, log),
		Accounts:  auth.NewService(repo.Users, tokens, auth.PasswordCost, log),
		DB:        st,
		Cache:     responseCache,
	}, log)

	log.WithFields(logrus.Fields{"port": cfg.Port, "env": cfg.AppEnv, "cache": cfg.CacheBackend}).Info("server starting")

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("graceful shutdown error")
	}
	log.Info("server stopped")
}

// newCacheBackend builds the configured backend. An unreachable redis is
// logged and kept: the cache treats its failures as misses until it recovers.
func newCacheBackend(ctx context.Context, cfg config.Config, log *logrus.Logger) cache.Backend {
	if cfg.CacheBackend == config.CacheBackendMemory {
		log.WithField("max_entries", cfg.CacheMemoryMaxEntries).Info("using in-memory response cache")
		return cache.NewMemoryWithLimit(cfg.CacheMemoryMaxEntries)
	}

	backend := cache.NewRedis(cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := backend.Ping(pingCtx); err != nil {
		log.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unreachable, serving without cache until it recovers")
	} else {
		log.WithField("addr", cfg.RedisAddr).Info("connected to redis")
	}
	return backend
}
