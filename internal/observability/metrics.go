package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts handled requests by method, route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devqa_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route template.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devqa_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// VotesTotal counts accepted votes by target kind and direction.
	VotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devqa_votes_total",
		Help: "Total number of votes cast",
	}, []string{"target", "direction"})

	// EmailsTotal counts outbound emails by kind and result.
	EmailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devqa_emails_total",
		Help: "Total number of outbound emails by kind and result",
	}, []string{"kind", "result"})

	// SessionsPrunedTotal counts expired sessions removed by the cleanup job.
	SessionsPrunedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devqa_sessions_pruned_total",
		Help: "Total number of expired sessions deleted",
	})
)

// RecordVote increments the vote counter.
func RecordVote(target, direction string) {
	VotesTotal.WithLabelValues(target, direction).Inc()
}

// RecordEmail increments the email counter with result "sent" or "failed".
func RecordEmail(kind string, err error) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	EmailsTotal.WithLabelValues(kind, result).Inc()
}
