// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package metrics provides Prometheus metrics for the recommendation service.

All collectors are registered with the default registry through promauto and
exposed by the ops API at /metrics:

	curl http://localhost:8090/metrics

# Available Metrics

Training:
  - hybridrec_training_duration_seconds (histogram)
  - hybridrec_training_runs_total (counter), labels: result
  - hybridrec_model_version, hybridrec_model_products (gauges)
  - hybridrec_collaborative_enabled (gauge, 0 or 1)

Requests:
  - hybridrec_requests_total (counter), labels: mode, source
  - hybridrec_request_duration_seconds (histogram), labels: mode
  - hybridrec_fallbacks_total (counter), labels: reason

Cache:
  - hybridrec_cache_operations_total (counter), labels: backend, op, result
  - hybridrec_cache_breaker_state (gauge), labels: backend

Encoder:
  - hybridrec_encoder_requests_total (counter), labels: model, result
  - hybridrec_encoder_request_duration_seconds (histogram)

Use the Record* helpers rather than touching collectors directly.
*/
package metrics
