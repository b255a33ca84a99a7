// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for the application.
package observability

import (
	"sync"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PostsCreatedTotal counts posts submitted into the moderation queue.
	PostsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_posts_created_total",
		Help: "Total number of posts submitted for moderation",
	})

	// ModerationActionsTotal counts moderation transitions by action.
	ModerationActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_moderation_actions_total",
		Help: "Total number of moderation actions by type (approve, reject, hide, delete)",
	}, []string{"action"})

	// LikeTogglesTotal counts like toggles by direction.
	LikeTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_like_toggles_total",
		Help: "Total number of like toggles by direction (like, unlike)",
	}, []string{"direction"})
)

var (
	httpMetricsOnce sync.Once
	httpMetrics     *fiberprometheus.FiberPrometheus
)

// NewHTTPMetrics returns the Prometheus middleware for Fiber with the given
// service name label. fiberprometheus registers its collectors in the default
// registry, so the instance is created once per process.
func NewHTTPMetrics(service string) *fiberprometheus.FiberPrometheus {
	httpMetricsOnce.Do(func() {
		httpMetrics = fiberprometheus.New(service)
	})
	return httpMetrics
}

// ObserveQuery records the latency of a database query since start.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
