// Package metrics exposes Prometheus instrumentation for the HTTP API and
// the catalog operations behind it.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookstore_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookstore_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"}, // "global", "login"
	)

	// Catalog
	BookOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_book_operations_total",
			Help: "Book mutations by operation",
		},
		[]string{"operation"}, // "create", "update", "delete"
	)

	PermissionDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_permission_denied_total",
			Help: "Mutations rejected by the owner-or-staff rule",
		},
		[]string{"operation"},
	)

	RelationUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_relation_updates_total",
			Help: "Relation fields changed through the relation endpoint",
		},
		[]string{"field"}, // "like", "in_bookmarks", "rate"
	)

	// Auth
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookstore_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // "success", "failure"
	)
)

// RecordAPIRequest records one served HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge up or down.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimited counts a request rejected by limiter.
func RecordRateLimited(limiter string) {
	RateLimitedTotal.WithLabelValues(limiter).Inc()
}

// RecordBookOperation counts a successful book mutation.
func RecordBookOperation(operation string) {
	BookOperations.WithLabelValues(operation).Inc()
}

// RecordPermissionDenied counts a rejected book mutation.
func RecordPermissionDenied(operation string) {
	PermissionDenied.WithLabelValues(operation).Inc()
}

// RecordRelationUpdate counts each field set by a relation patch.
func RecordRelationUpdate(fields []string) {
	for _, f := range fields {
		RelationUpdates.WithLabelValues(f).Inc()
	}
}

// RecordLogin counts a login attempt.
func RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	LoginAttempts.WithLabelValues(outcome).Inc()
}
