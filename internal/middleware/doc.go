// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package middleware provides HTTP instrumentation shared by the API router.
//
// PrometheusMetrics records request counts, latency and in-flight requests
// labeled by the matched chi route pattern, so path parameters such as
// product ids do not create new series.
//
//	r.Use(middleware.PrometheusMetrics)
package middleware
