// Package observability holds Prometheus metrics and OpenTelemetry tracing setup.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shiftswap_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shiftswap_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ShiftLifecycleEvents counts shift and request lifecycle transitions.
	ShiftLifecycleEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shiftswap_lifecycle_events_total",
		Help: "Total shift lifecycle events by action",
	}, []string{"action"})

	// ApprovalConflicts counts approve/reject/submit calls refused by the state machine.
	ApprovalConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shiftswap_approval_conflicts_total",
		Help: "Total lifecycle operations refused because of a conflicting state",
	}, []string{"operation"})

	// AutoRejectedRequests counts sibling requests rejected by an approval.
	AutoRejectedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shiftswap_auto_rejected_requests_total",
		Help: "Total pending requests rejected because another request was approved",
	})

	// CacheLookups counts cache-aside lookups by result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shiftswap_cache_lookups_total",
		Help: "Cache-aside lookups by result (hit, miss, error)",
	}, []string{"result"})
)

// RecordLifecycle increments the lifecycle counter for action.
func RecordLifecycle(action string) {
	ShiftLifecycleEvents.WithLabelValues(action).Inc()
}

// RecordConflict increments the conflict counter for operation.
func RecordConflict(operation string) {
	ApprovalConflicts.WithLabelValues(operation).Inc()
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
