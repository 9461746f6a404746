package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Cache backends.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	Port             string
	AppEnv           string
	LogLevel         string
	LogFormat        string
	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	IdleTimeoutSecs  int

	DBURL             string
	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int

	CacheBackend          string
	CacheMemoryMaxEntries int
	RedisAddr             string
	RedisPassword         string
	RedisDB               int

	TMDBBaseURL        string
	TMDBAPIKey         string
	TMDBTimeoutSecs    int
	TMDBRateLimitRPS   int
	TMDBRateLimitBurst int

	JWTSecret   string
	JWTTTLHours int

	CORSAllowedOrigins  []string
	RateLimitRequests   int
	RateLimitWindowSecs int
}

// Load reads configuration from environment variables, applying defaults and validation.
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		ReadTimeoutSecs:  getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),

		DBURL:             os.Getenv("DB_URL"),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:  getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),

		CacheBackend:          strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendRedis)),
		CacheMemoryMaxEntries: getEnvInt("CACHE_MEMORY_MAX_ENTRIES", 10000),
		RedisAddr:             getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvInt("REDIS_DB", 0),

		TMDBBaseURL:        getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBAPIKey:         os.Getenv("TMDB_API_KEY"),
		TMDBTimeoutSecs:    getEnvInt("TMDB_TIMEOUT_SECS", 10),
		TMDBRateLimitRPS:   getEnvInt("TMDB_RATE_LIMIT_RPS", 40),
		TMDBRateLimitBurst: getEnvInt("TMDB_RATE_LIMIT_BURST", 20),

		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),

		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRequests:   getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindowSecs: getEnvInt("RATE_LIMIT_WINDOW_SECS", 60),
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.TMDBAPIKey == "" {
		return Config{}, fmt.Errorf("TMDB_API_KEY is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TMDBTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("TMDB_TIMEOUT_SECS must be positive")
	}
	if cfg.TMDBRateLimitRPS <= 0 || cfg.TMDBRateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("TMDB_RATE_LIMIT_RPS and TMDB_RATE_LIMIT_BURST must be positive")
	}
	if cfg.JWTTTLHours <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL_HOURS must be positive")
	}
	if cfg.CacheBackend != CacheBackendRedis && cfg.CacheBackend != CacheBackendMemory {
		return Config{}, fmt.Errorf("CACHE_BACKEND must be %q or %q", CacheBackendRedis, CacheBackendMemory)
	}
	if cfg.CacheMemoryMaxEntries <= 0 {
		return Config{}, fmt.Errorf("CACHE_MEMORY_MAX_ENTRIES must be positive")
	}
	if cfg.CacheBackend == CacheBackendRedis && cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMaxConns > 0 && cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return Config{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	if cfg.RateLimitRequests < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_REQUESTS must be non-negative")
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV selects production behaviour.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
