// Package metrics exposes the Prometheus collectors used across the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts cache reads that returned a usable payload, by endpoint.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinecraze_cache_hits_total",
			Help: "Response cache hits by endpoint",
		},
		[]string{"endpoint"},
	)

	// CacheMisses counts cache reads that fell through to the upstream.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinecraze_cache_misses_total",
			Help: "Response cache misses by endpoint",
		},
		[]string{"endpoint"},
	)

	// CacheErrors counts swallowed backend failures by operation.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinecraze_cache_errors_total",
			Help: "Cache backend errors treated as misses",
		},
		[]string{"op"},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinecraze_upstream_requests_total",
			Help: "Calls to the movie data source by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinecraze_upstream_request_duration_seconds",
			Help:    "Latency of calls to the movie data source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinecraze_api_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinecraze_api_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordCacheLookup increments the hit or miss counter for an endpoint.
func RecordCacheLookup(endpoint string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(endpoint).Inc()
		return
	}
	CacheMisses.WithLabelValues(endpoint).Inc()
}

// RecordUpstream records one upstream call.
func RecordUpstream(endpoint, status string, elapsed time.Duration) {
	UpstreamRequests.WithLabelValues(endpoint, status).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, route, status string, elapsed time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
