// Package monitoring exposes Prometheus metrics for the dashboard.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SimulationsTotal counts calculator runs by caller surface.
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeroe_simulations_total",
			Help: "Total number of impact simulations computed",
		},
		[]string{"surface"},
	)

	// ChartRendersTotal counts rendered PNGs by kind (single or composite).
	ChartRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeroe_chart_renders_total",
			Help: "Total number of chart images rendered",
		},
		[]string{"kind", "status"},
	)

	ChartRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zeroe_chart_render_duration_seconds",
			Help:    "Chart rendering duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"kind"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeroe_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeroe_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// LogoFetchTotal counts branding logo retrievals by outcome.
	LogoFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeroe_logo_fetch_total",
			Help: "Total number of branding logo fetches",
		},
		[]string{"logo", "status"},
	)

	RateLimitExceeded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeroe_rate_limit_exceeded_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"route"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeroe_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "status"},
	)
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
