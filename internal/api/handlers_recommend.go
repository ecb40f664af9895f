// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package api

import (
	"net/http"
	"time"

	"github.com/anuragksng/foodrec/internal/logging"
	"github.com/anuragksng/foodrec/internal/models"
	"github.com/anuragksng/foodrec/internal/recommend"
)

// recommendationsQuery holds the query parameters of GET .../recommendations.
type recommendationsQuery struct {
	Weather string `json:"weather" validate:"required,weather"`
	View    string `json:"view" validate:"omitempty,oneof=home full"`
}

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations.
// It may be served from the engine's response cache.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	q := recommendationsQuery{
		Weather: r.URL.Query().Get("weather"),
		View:    r.URL.Query().Get("view"),
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	h.recommend(w, r, userID, q.Weather, q.View, false, start)
}

// RefreshRecommendations handles POST /api/v1/users/{userID}/recommendations/refresh.
// It always runs the full pipeline against fresh store reads.
func (h *Handler) RefreshRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	var req models.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	h.recommend(w, r, userID, req.Weather, req.View, true, start)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, userID int, weather, view string, fresh bool, start time.Time) {
	wt, _ := recommend.ParseWeather(weather)
	ctx := logging.ContextWithUserID(r.Context(), userID)

	resp, err := h.engine.Recommend(ctx, recommend.Request{
		UserID:    userID,
		Weather:   wt,
		View:      recommend.ParseView(view),
		Fresh:     fresh,
		RequestID: logging.RequestIDFromContext(ctx),
	})
	if err != nil {
		respondDomainError(w, r.WithContext(ctx), err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   resp.Metadata.RequestID,
			Cached:      resp.Metadata.CacheHit,
		},
	})
}

// EngineMetrics handles GET /api/v1/recommendations/metrics.
func (h *Handler) EngineMetrics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"counters":      h.engine.GetMetrics(),
		"cache_entries": h.engine.CacheSize(),
	}, start)
}
