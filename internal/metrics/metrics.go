// Package metrics provides Prometheus metrics for the card price service.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardprices_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardprices_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Provider Metrics
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardprices_provider_requests_total",
			Help: "Total price provider lookups by outcome",
		},
		[]string{"provider", "result"}, // result: "match", "empty", "error", "rate_limited"
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cardprices_provider_latency_seconds",
			Help:    "Price provider lookup latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider"},
	)

	ProviderCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardprices_provider_cache_hits_total",
			Help: "Provider lookup cache hit count",
		},
		[]string{"provider"},
	)

	ProviderCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardprices_provider_cache_misses_total",
			Help: "Provider lookup cache miss count",
		},
		[]string{"provider"},
	)

	// Import Metrics
	ImportRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardprices_import_records_total",
			Help: "Imported records by result",
		},
		[]string{"result"}, // "processed", "skipped", "failed"
	)

	// Card Database Metrics
	CardDatabaseSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cardprices_card_database_size",
			Help: "Number of unique cards in the database",
		},
	)

	PriceRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardprices_price_refreshes_total",
			Help: "Stored price refreshes by provider",
		},
		[]string{"provider", "result"}, // result: "updated", "no_match", "failed"
	)

	// Estimate Metrics
	EstimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardprices_estimates_total",
			Help: "Live price estimates by outcome",
		},
		[]string{"result"}, // "priced", "no_prices"
	)

	ResolverMatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cardprices_resolver_matches_total",
			Help: "Card lookups by the cascade tier that matched",
		},
		[]string{"tier"},
	)
)
