// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/anuragksng/foodrec/internal/logging"
)

// slowRequest is the latency above which requests log at warn.
const slowRequest = time.Second

// AccessLog logs one line per request. The request-scoped logger is stored in
// the context so handlers can log with the same fields.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func AccessLog(logger zerolog.Logger) func(http.Handler) http.Handler {
	base := logger.With().Str("component", "http").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := base.With().
				Str("request_id", logging.RequestIDFromContext(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()

			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			ctx := logging.ContextWithLogger(r.Context(), reqLogger)

			next.ServeHTTP(rec, r.WithContext(ctx))

			elapsed := time.Since(start)
			var event *zerolog.Event
			switch {
			case rec.statusCode >= http.StatusInternalServerError:
				event = reqLogger.Error()
			case elapsed > slowRequest:
				event = reqLogger.Warn()
			default:
				event = reqLogger.Debug()
			}
			event.
				Int("status", rec.statusCode).
				Int("bytes", rec.bytes).
				Dur("duration", elapsed).
				Str("remote_addr", r.RemoteAddr).
				Msg("request completed")
		})
	}
}
