package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace for all OnThisDay metrics
const namespace = "onthisday"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// AppInfo is a gauge that exposes application version information as labels
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// DatasetDates exposes how many date keys the embedded dataset carries.
var DatasetDates = promauto.With(Registry).NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_dates",
		Help:      "Number of date keys with data in the loaded dataset",
	},
)

// PageCacheHits counts server-side page cache hits by surface.
var PageCacheHits = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_cache_hits_total",
		Help:      "Total number of rendered-page cache hits",
	},
	[]string{"surface"}, // surface: page|og_image
)

// PageCacheMisses counts server-side page cache misses by surface.
var PageCacheMisses = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "page_cache_misses_total",
		Help:      "Total number of rendered-page cache misses",
	},
	[]string{"surface"},
)

// TokenVerifications counts token checks by outcome.
var TokenVerifications = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of API token verifications",
	},
	[]string{"outcome"}, // outcome: ok|missing|expired|invalid
)

// RateLimited counts requests rejected by the rate limiter.
var RateLimited = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429",
	},
)

// Init initializes the metrics registry and sets version information
func Init(version, commit, buildDate string) {
	// Register default Go metrics (memory, goroutines, GC, etc.)
	Registry.MustRegister(collectors.NewGoCollector())

	// Register process metrics (CPU, memory, file descriptors)
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Set application version info (value is always 1, info is in labels)
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}

// Handler serves the registry on /metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
