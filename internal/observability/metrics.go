// Package observability provides metrics and tracing for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weave_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weave_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// GraphMutations counts relationship-graph mutations by engine and operation.
	GraphMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weave_graph_mutations_total",
		Help: "Total relationship graph mutations by engine and operation",
	}, []string{"engine", "operation"})

	// GraphMutationErrors counts failed graph mutations by engine and error class.
	GraphMutationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weave_graph_mutation_errors_total",
		Help: "Total failed relationship graph mutations by engine and error code",
	}, []string{"engine", "code"})

	// CascadeDuration records cascade deletion latency by root entity kind.
	CascadeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "weave_cascade_duration_seconds",
		Help:    "Cascade deletion latency by root entity kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"root"})

	// CascadeDeletedRecords counts records removed by cascades, by collection.
	CascadeDeletedRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "weave_cascade_deleted_records_total",
		Help: "Total records removed by cascade deletion, by collection",
	}, []string{"collection"})
)

// ObserveCascade records the latency of one cascade run.
func ObserveCascade(root string, start time.Time) {
	CascadeDuration.WithLabelValues(root).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
