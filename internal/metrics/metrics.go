// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipeverse_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	DiscoveryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeverse_discovery_requests_total",
			Help: "Recipe discovery requests by search mode",
		},
		[]string{"mode"},
	)

	DiscoveryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipeverse_discovery_results",
			Help:    "Number of recipes returned per discovery request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	DiscoveryCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeverse_discovery_cache_total",
			Help: "Discovery cache lookups by result",
		},
		[]string{"result"},
	)

	RatingsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipeverse_ratings_submitted_total",
			Help: "Recipe ratings accepted",
		},
	)

	RateLimitRejects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipeverse_rate_limit_rejects_total",
			Help: "Requests rejected by rate limiting",
		},
		[]string{"limiter"},
	)
)

// ModeLabel maps the empty search mode to a readable label value.
func ModeLabel(mode string) string {
	if mode == "" {
		return "any"
	}
	return mode
}
