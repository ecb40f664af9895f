// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package middleware provides HTTP middleware for the foodrec API.

All middleware has the chi signature func(http.Handler) http.Handler:

  - RequestID: propagates or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request counts, latency and in-flight gauge, labelled by
    the chi route pattern so path parameters do not explode cardinality
  - AccessLog: one structured zerolog line per request

Typical order:

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
