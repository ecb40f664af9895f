// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/anuragksng/foodrec/internal/models"
)

// readyTimeout bounds all readiness probes together.
const readyTimeout = 2 * time.Second

// HealthLive handles GET /api/v1/health/live. It only reports that the
// process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, http.StatusOK, models.HealthResponse{
		Status:   "alive",
		Version:  h.version,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		CacheLen: h.engine.CacheSize(),
	}, start)
}

// HealthReady handles GET /api/v1/health/ready. It returns 503 when any
// readiness check fails or the store circuit breaker is open.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	resp := models.HealthResponse{
		Status:   "ready",
		Version:  h.version,
		Checks:   make(map[string]string, len(h.checks)),
		CacheLen: h.engine.CacheSize(),
	}
	ready := true
	for _, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			resp.Checks[c.Name] = err.Error()
			ready = false
			continue
		}
		resp.Checks[c.Name] = "ok"
	}

	if h.status != nil {
		resp.Breaker = h.status.BreakerState()
		resp.Pending = h.status.PendingWrites()
		if resp.Breaker == "open" {
			ready = false
		}
	}

	status := http.StatusOK
	if !ready {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	respondSuccess(w, r, status, resp, start)
}
