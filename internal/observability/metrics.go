package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawfeed_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pawfeed_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ModerationDecisions counts review outcomes by decision.
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawfeed_moderation_decisions_total",
		Help: "Total number of moderation decisions by outcome",
	}, []string{"decision"})

	// FeedQueries counts feed reads by feed name.
	FeedQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawfeed_feed_queries_total",
		Help: "Total number of feed queries by feed",
	}, []string{"feed"})

	// ToggleOperations counts like/follow toggles by kind and resulting state.
	ToggleOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawfeed_toggle_operations_total",
		Help: "Total number of toggle operations by kind and resulting state",
	}, []string{"kind", "state"})

	// EventsPublished counts domain events published to Redis by type.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pawfeed_events_published_total",
		Help: "Total number of domain events published by type",
	}, []string{"event_type"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
