// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package api exposes the recommendation engine over HTTP using the Chi router.

# Routes

	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	GET  /api/v1/users/{userID}/recommendations?weather=Cold&view=home|full
	POST /api/v1/users/{userID}/recommendations/refresh
	GET  /api/v1/users/{userID}/search?q=term
	POST /api/v1/users/{userID}/feedback
	GET  /api/v1/users/{userID}/feedback
	GET  /api/v1/users/{userID}/cuisines
	PUT  /api/v1/users/{userID}/profile
	POST /api/v1/users/{userID}/ratings
	GET  /api/v1/foods/{foodID}
	GET  /api/v1/weather/{weather}/foods
	GET  /api/v1/recommendations/metrics
	GET  /metrics

Every response uses the models.APIResponse envelope. Store outages surface as
503 with a generic retry message; the underlying error is only logged.

# Middleware

Global: request id, real IP, access log, panic recovery, CORS (go-chi/cors)
and gzip. The /api/v1 group adds per-IP rate limiting (go-chi/httprate) and
Prometheus instrumentation.
*/
package api
