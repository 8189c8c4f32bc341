// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package api is the HTTP surface of the recommendation server, built on chi.

Routes:

	GET  /healthz                                   database, cache and model health
	GET  /metrics                                   Prometheus exposition
	GET  /api/v1/recommendations/personalized       ?user_id=
	GET  /api/v1/recommendations/similar/{id}
	GET  /api/v1/recommendations/trending           ?category=
	GET  /api/v1/recommendations/status             training status
	POST /api/v1/recommendations/rebuild            queue a forced rebuild (202)
	POST /api/v1/products/{id}/interactions         record an interaction

Every /api/v1 route is rate limited per client IP with httprate and, when
origins are configured, answers CORS preflights. Responses use the
APIResponse envelope; errors carry a machine-readable code. Request counts
and latency are exported per route pattern by middleware.PrometheusMetrics.

Each request gets an X-Request-ID (taken from the client when present) that
is stored in the request context, echoed in the response, and forwarded as
the correlation id of any rebuild event the request publishes.
*/
package api
