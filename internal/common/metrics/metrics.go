// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_catalog_fetches_total",
			Help: "Total number of catalog fetches issued",
		},
		[]string{"outcome"},
	)

	PriceBoundsCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_price_bounds_cache_hits_total",
			Help: "Price bounds cache hits by layer",
		},
		[]string{"layer"},
	)

	PriceBoundsCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_price_bounds_cache_misses_total",
			Help: "Price bounds cache misses",
		},
	)

	PriceBoundsFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_price_bounds_fallbacks_total",
			Help: "Times the fallback price range was served",
		},
		[]string{"booking_mode"},
	)

	FilterEvaluations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "search_filter_evaluations_total",
			Help: "Total number of filter evaluations",
		},
	)

	FilterEvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "search_filter_evaluation_duration_seconds",
			Help: "Duration of a single filter evaluation",
		},
	)
)
