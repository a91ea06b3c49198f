// Package observability provides metrics and tracing.
package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astra_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "astra_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// NotificationsPublished counts notification events published by channel kind.
	NotificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astra_notifications_published_total",
		Help: "Total number of notification events published",
	}, []string{"kind"})

	// UploadsAccepted counts accepted upload files by media kind.
	UploadsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astra_uploads_accepted_total",
		Help: "Total number of uploaded files accepted",
	}, []string{"kind"})
)

// ObserveQuery records one query's latency under its leading SQL verb.
// The GORM logger calls it for every traced statement.
func ObserveQuery(sql string, elapsed time.Duration) {
	DatabaseQueryLatency.WithLabelValues(queryOperation(sql)).Observe(elapsed.Seconds())
}

// queryOperation extracts the leading SQL verb ("SELECT", "INSERT", ...).
func queryOperation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToUpper(fields[0])
}
