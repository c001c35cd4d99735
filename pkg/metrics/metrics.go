package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "yamdb"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"method", "route", "status"},
	)
	ReviewsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "reviews_created_total", Help: "Reviews successfully created"},
	)
	DuplicateReviews = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "duplicate_reviews_total", Help: "Rejected duplicate reviews by detection point"},
		[]string{"stage"}, // precheck | constraint
	)
	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "confirmation_emails_total", Help: "Confirmation code deliveries by outcome"},
		[]string{"outcome"},
	)
	ExpiredCodesCleared = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "expired_codes_cleared_total", Help: "Confirmation codes purged after expiry"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration,
		RequestsTotal,
		ReviewsCreated,
		DuplicateReviews,
		EmailsSent,
		ExpiredCodesCleared,
	)
}
