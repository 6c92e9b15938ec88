// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

// Package metrics holds MovieHub's Prometheus collectors. They register on
// the default registry and are exposed by promhttp at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviehub_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviehub_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Domain
	VotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_votes_total",
			Help: "Vote requests by transition (added, removed, switched)",
		},
		[]string{"outcome"},
	)

	AuthAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_auth_attempts_total",
			Help: "Login and registration attempts by result",
		},
		[]string{"action", "result"},
	)

	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_authz_decisions_total",
			Help: "Authorization decisions by role, object, action and decision",
		},
		[]string{"role", "object", "action", "decision"},
	)

	// Store
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviehub_store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"backend", "operation"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_store_operation_errors_total",
			Help: "Document store operations that returned an unexpected error",
		},
		[]string{"backend", "operation"},
	)

	StoreTxnRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_store_txn_retries_total",
			Help: "Transactions retried after an optimistic conflict",
		},
		[]string{"backend", "operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviehub_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Realtime
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviehub_websocket_clients",
			Help: "Connected websocket clients",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_events_published_total",
			Help: "Domain events published to the event bus",
		},
		[]string{"type"},
	)

	EventPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviehub_event_publish_errors_total",
			Help: "Domain events that failed to publish",
		},
		[]string{"type"},
	)

	// Media
	ImageUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviehub_image_upload_bytes",
			Help:    "Size of stored movie images",
			Buckets: prometheus.ExponentialBuckets(16<<10, 2, 10),
		},
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStoreOp records the duration of a store operation. Pass a nil or
// expected (not found, conflict) error as nil to keep the error counter
// meaningful.
func RecordStoreOp(backend, operation string, start time.Time, err error) {
	StoreOperationDuration.WithLabelValues(backend, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordVote counts a vote transition.
func RecordVote(outcome string) {
	VotesTotal.WithLabelValues(outcome).Inc()
}

// RecordAuthAttempt counts a login or registration result.
func RecordAuthAttempt(action, result string) {
	AuthAttemptsTotal.WithLabelValues(action, result).Inc()
}

// RecordAuthzDecision counts a role policy decision.
func RecordAuthzDecision(role, object, action string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	AuthzDecisionsTotal.WithLabelValues(role, object, action, decision).Inc()
}

// SetCircuitBreakerState publishes a breaker state as a gauge value.
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordEventPublished counts a published domain event.
func RecordEventPublished(eventType string, err error) {
	if err != nil {
		EventPublishErrors.WithLabelValues(eventType).Inc()
		return
	}
	EventsPublishedTotal.WithLabelValues(eventType).Inc()
}
