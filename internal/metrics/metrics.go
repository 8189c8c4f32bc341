// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Model training runs
// - Recommendation and trending requests
// - Result cache backends
// - Embedding encoder calls
// - HTTP API requests

var (
	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hybridrec_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hybridrec_training_runs_total",
			Help: "Total number of training runs by result",
		},
		[]string{"result"}, // "success", "failure", "skipped", "busy"
	)

	ModelProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hybridrec_model_products",
			Help: "Number of products in the serving model",
		},
	)

	CollaborativeEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hybridrec_collaborative_enabled",
			Help: "1 when the serving model has collaborative filtering factors",
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hybridrec_model_version",
			Help: "Version of the serving model",
		},
	)

	// Request Metrics
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hybridrec_requests_total",
			Help: "Total number of recommendation requests by mode and response source",
		},
		[]string{"mode", "source"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hybridrec_request_duration_seconds",
			Help:    "Latency of recommendation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hybridrec_fallbacks_total",
			Help: "Total number of requests served from the rating fallback",
		},
		[]string{"reason"},
	)

	// Cache Metrics
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hybridrec_cache_operations_total",
			Help: "Total number of result cache operations",
		},
		[]string{"backend", "op", "result"}, // result: "hit", "miss", "ok", "error", "rejected"
	)

	CacheBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hybridrec_cache_breaker_state",
			Help: "Circuit breaker state of a cache backend (0=closed, 1=half-open, 2=open)",
		},
		[]string{"backend"},
	)

	// Encoder Metrics
	EncoderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hybridrec_encoder_requests_total",
			Help: "Total number of embedding requests by result",
		},
		[]string{"model", "result"},
	)

	EncoderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hybridrec_encoder_request_duration_seconds",
			Help:    "Latency of embedding requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// HTTP API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hybridrec_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hybridrec_http_request_duration_seconds",
			Help:    "HTTP API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hybridrec_http_active_requests",
			Help: "Number of HTTP API requests in flight",
		},
	)
)

// RecordTraining records the outcome of a training run.
func RecordTraining(result string, duration time.Duration) {
	TrainingRuns.WithLabelValues(result).Inc()
	if duration > 0 {
		TrainingDuration.Observe(duration.Seconds())
	}
}

// SetModelStats publishes the shape of the serving model.
func SetModelStats(version, products int, collaborative bool) {
	ModelVersion.Set(float64(version))
	ModelProducts.Set(float64(products))
	if collaborative {
		CollaborativeEnabled.Set(1)
	} else {
		CollaborativeEnabled.Set(0)
	}
}

// RecordRequest records a served recommendation request.
func RecordRequest(mode, source string, duration time.Duration) {
	RequestsTotal.WithLabelValues(mode, source).Inc()
	RequestDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordFallback records a request answered by the rating fallback.
func RecordFallback(reason string) {
	FallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordCacheOp records a result cache operation.
func RecordCacheOp(backend, op, result string) {
	CacheOperations.WithLabelValues(backend, op, result).Inc()
}

// SetCacheBreakerState records the breaker state of a cache backend.
func SetCacheBreakerState(backend string, state int) {
	CacheBreakerState.WithLabelValues(backend).Set(float64(state))
}

// RecordEncoderRequest records an embedding request.
func RecordEncoderRequest(model string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	EncoderRequests.WithLabelValues(model, result).Inc()
	EncoderDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records a completed HTTP request. route is the matched
// route pattern, never the raw path.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
