package observability

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by statement kind.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "muckd_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// NotificationsFanned counts notifications delivered to friends by event kind.
	NotificationsFanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "muckd_notifications_fanned_total",
		Help: "Total number of notifications fanned out to friends by event kind",
	}, []string{"kind"})

	// NotificationWriteFailures counts notification rows that could not be
	// written, by event kind. The triggering action carries on regardless.
	NotificationWriteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "muckd_notification_write_failures_total",
		Help: "Total notification writes that failed, by event kind",
	}, []string{"kind"})

	// FriendshipTransitions counts friendship state transitions by outcome.
	FriendshipTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "muckd_friendship_transitions_total",
		Help: "Total friendship state transitions by action and outcome",
	}, []string{"action", "outcome"})

	// OTPOutcomes counts phone verification attempts by stage and result.
	OTPOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "muckd_otp_outcomes_total",
		Help: "Total OTP verification attempts by stage and result",
	}, []string{"stage", "result"})

	// CacheRequests counts cache lookups by key class and hit/miss.
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "muckd_cache_requests_total",
		Help: "Total cache lookups by key class and result",
	}, []string{"class", "result"})
)

// ObserveQuery records the latency of a database query under its leading SQL
// keyword (select, insert, ...).
func ObserveQuery(sql string, seconds float64) {
	DatabaseQueryLatency.WithLabelValues(QueryOperation(sql)).Observe(seconds)
}

// QueryOperation extracts the leading SQL keyword as a lowercase metric label.
func QueryOperation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "other"
	}
	switch op := strings.ToLower(fields[0]); op {
	case "select", "insert", "update", "delete", "begin", "commit", "rollback":
		return op
	default:
		return "other"
	}
}
