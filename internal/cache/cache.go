// Package cache implements the response cache in front of the movie data
// source: key building, TTL tiers and a best-effort read/write boundary.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/Clark-Hu/cinecraze/internal/metrics"
)

// Options tunes the circuit breaker that guards the backend.
type Options struct {
	// FailureThreshold is the number of consecutive backend failures that
	// opens the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// OpTimeout bounds every backend call.
	OpTimeout time.Duration
}

// DefaultOptions returns the settings used by the server.
func DefaultOptions() Options {
	return Options{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		OpTimeout:        300 * time.Millisecond,
	}
}

// Cache is the guarded read/write boundary used by the catalog. Backend
// failures never escape it: reads degrade to misses and writes are dropped.
type Cache struct {
	backend Backend
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *logrus.Logger
	opts    Options
}

// New wraps backend with a circuit breaker and error isolation.
func New(backend Backend, logger *logrus.Logger, opts Options) *Cache {
	if logger == nil {
		logger = logrus.New()
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = DefaultOptions().FailureThreshold
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = DefaultOptions().OpenTimeout
	}

	c := &Cache{backend: backend, logger: logger, opts: opts}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "response-cache",
		Timeout: opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("cache breaker state changed")
		},
	})
	return c
}

// Get loads key into dst. It returns true only when a payload was found and
// decoded; absent, expired and malformed entries and backend failures all
// report a miss.
func (c *Cache) Get(ctx context.Context, key string, dst any) bool {
	if c == nil || c.backend == nil {
		return false
	}

	raw, err := c.breaker.Execute(func() ([]byte, error) {
		opCtx, cancel := c.opContext(ctx)
		defer cancel()
		return c.backend.Get(opCtx, key)
	})
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			metrics.CacheErrors.WithLabelValues("get").Inc()
			c.logger.WithError(err).WithField("key", key).Warn("cache read failed, treating as miss")
		}
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.CacheErrors.WithLabelValues("decode").Inc()
		c.logger.WithError(err).WithField("key", key).Warn("malformed cache payload, treating as miss")
		return false
	}
	return true
}

// Set stores value under key for ttl, overwriting any existing entry.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil || c.backend == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		metrics.CacheErrors.WithLabelValues("encode").Inc()
		c.logger.WithError(err).WithField("key", key).Warn("failed to encode cache payload")
		return
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		opCtx, cancel := c.opContext(ctx)
		defer cancel()
		return nil, c.backend.Set(opCtx, key, payload, ttl)
	})
	if err != nil {
		metrics.CacheErrors.WithLabelValues("set").Inc()
		c.logger.WithError(err).WithField("key", key).Warn("cache write failed")
		return
	}
	c.logger.WithFields(logrus.Fields{"key": key, "ttl": ttl.String()}).Debug("cached response")
}

// State reports the breaker state for health checks.
func (c *Cache) State() string {
	if c == nil || c.breaker == nil {
		return "disabled"
	}
	return c.breaker.State().String()
}

// Ping checks the backend directly, bypassing the breaker.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.backend == nil {
		return errors.New("cache not configured")
	}
	return c.backend.Ping(ctx)
}

// Close releases the backend.
func (c *Cache) Close() error {
	if c == nil || c.backend == nil {
		return nil
	}
	return c.backend.Close()
}

func (c *Cache) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.OpTimeout > 0 {
		return context.WithTimeout(ctx, c.opts.OpTimeout)
	}
	return context.WithCancel(ctx)
}
