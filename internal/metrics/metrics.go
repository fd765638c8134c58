package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every prometheus collector the application records.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	BookingsCreated    *prometheus.CounterVec
	LeadsConverted     prometheus.Counter
	AuditWriteFailures prometheus.Counter

	FeedbackEmailsSent   prometheus.Counter
	FeedbackEmailsFailed prometheus.Counter
}

// New registers all collectors under the given name prefix.
func New(prefix string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		BookingsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_bookings_created_total",
				Help: "Total number of bookings created, by kind",
			},
			[]string{"kind"},
		),
		LeadsConverted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_leads_converted_total",
				Help: "Total number of leads converted to sales",
			},
		),
		AuditWriteFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_audit_write_failures_total",
				Help: "Total number of audit log writes that failed",
			},
		),
		FeedbackEmailsSent: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_feedback_emails_sent_total",
				Help: "Total number of feedback emails sent",
			},
		),
		FeedbackEmailsFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: prefix + "_feedback_emails_failed_total",
				Help: "Total number of feedback emails that failed to send",
			},
		),
	}
}
