// Package observability provides metrics and tracing for the application.
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
		Name: "entrelinhas_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "entrelinhas_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ReactionToggles counts reaction toggle operations by outcome.
	ReactionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrelinhas_reaction_toggles_total",
		Help: "Total number of reaction toggles by action",
	}, []string{"action"})

	// KarmaVotes counts comment karma votes by outcome.
	KarmaVotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrelinhas_karma_votes_total",
		Help: "Total number of comment karma votes by action",
	}, []string{"action"})

	// ReportsTotal counts report submissions by outcome.
	ReportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrelinhas_reports_total",
		Help: "Total number of post reports by outcome",
	}, []string{"outcome"})

	// PostsAutoHidden counts posts hidden by the report threshold.
	PostsAutoHidden = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entrelinhas_posts_auto_hidden_total",
		Help: "Total number of posts auto-hidden by the report threshold",
	})

	// PostsAutoRestored counts posts restored after report withdrawal.
	PostsAutoRestored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entrelinhas_posts_auto_restored_total",
		Help: "Total number of posts auto-restored after report withdrawal",
	})
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
