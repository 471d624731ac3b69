package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SlotsAllocatedTotal counts slots handed out by the gap-filling allocator.
	SlotsAllocatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "castplan_slots_allocated_total",
		Help: "Publish slots allocated, by channel.",
	}, []string{"channel"})

	// ReservationsDroppedTotal counts remote reservations discarded because
	// their timestamp failed to parse.
	ReservationsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "castplan_reservations_dropped_total",
		Help: "Remote reservations dropped due to malformed timestamps.",
	})

	// AllocatorFallbacksTotal counts horizon-exhausted allocations that used
	// the deterministic fallback instead of a scanned slot.
	AllocatorFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "castplan_allocator_horizon_fallbacks_total",
		Help: "Allocations that exhausted the look-ahead horizon.",
	})

	// BatchesTotal counts allocation runs by channel and outcome.
	BatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "castplan_batches_total",
		Help: "Allocation batches run, by channel and outcome.",
	}, []string{"channel", "outcome"})

	// CommitsTotal counts slot commits sent to the platform.
	CommitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "castplan_commits_total",
		Help: "Slot commits sent to the publishing platform, by channel and outcome.",
	}, []string{"channel", "outcome"})

	// APIRequestsTotal counts HTTP API requests.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "castplan_api_requests_total",
		Help: "HTTP API requests.",
	}, []string{"method", "endpoint", "status"})

	// APIRequestDuration observes HTTP API request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "castplan_api_request_duration_seconds",
		Help:    "HTTP API request duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections tracks in-flight HTTP requests.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "castplan_api_active_connections",
		Help: "In-flight HTTP API requests.",
	})

	// DatabaseQueryDuration observes database operation latency.
	DatabaseQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "castplan_database_query_duration_seconds",
		Help:    "Database operation duration, by operation and table.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// DatabaseErrorsTotal counts database operation errors.
	DatabaseErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "castplan_database_errors_total",
		Help: "Database operation errors, by operation and kind.",
	}, []string{"operation", "kind"})

	// DatabaseConnectionsActive tracks open database connections.
	DatabaseConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "castplan_database_connections_active",
		Help: "Open database connections.",
	})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
