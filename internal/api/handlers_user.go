// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anuragksng/foodrec/internal/logging"
	"github.com/anuragksng/foodrec/internal/models"
	"github.com/anuragksng/foodrec/internal/recommend"
)

// maxSearchTermLen bounds search terms.
const maxSearchTermLen = 100

// Search handles GET /api/v1/users/{userID}/search?q=term.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "q is required", nil)
		return
	}
	if len(term) > maxSearchTermLen {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation,
			fmt.Sprintf("q must be at most %d characters", maxSearchTermLen), nil)
		return
	}

	ctx := logging.ContextWithUserID(r.Context(), userID)
	items, err := h.engine.Search(ctx, term, userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.SearchResponse{
		Term:  term,
		Count: len(items),
		Items: items,
	}, start)
}

// RecordFeedback handles POST /api/v1/users/{userID}/feedback.
func (h *Handler) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	var req models.FeedbackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	if err := h.engine.RecordFeedback(r.Context(), userID, req.FoodID, req.FeedbackStatus()); err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"user_id": userID,
		"food_id": req.FoodID,
		"status":  req.FeedbackStatus(),
	}, start)
}

// GetFeedback handles GET /api/v1/users/{userID}/feedback.
func (h *Handler) GetFeedback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	fb, err := h.engine.GetFeedback(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.NewFeedbackResponse(userID, fb), start)
}

// CuisineAffinity handles GET /api/v1/users/{userID}/cuisines.
func (h *Handler) CuisineAffinity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	shares, err := h.engine.CuisineAffinity(r.Context(), userID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if shares == nil {
		shares = []recommend.CuisineShare{}
	}

	respondSuccess(w, r, http.StatusOK, models.CuisineAffinityResponse{
		UserID:   userID,
		Cuisines: shares,
	}, start)
}

// UpdateProfile handles PUT /api/v1/users/{userID}/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	writer, ok := h.store.(recommend.ProfileWriter)
	if !ok {
		respondDomainError(w, r, errors.ErrUnsupported)
		return
	}

	var req models.ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	profile := req.ToProfile(userID)
	if err := writer.UpsertProfile(r.Context(), profile); err != nil {
		respondDomainError(w, r, err)
		return
	}
	h.engine.InvalidateUser(userID)

	respondSuccess(w, r, http.StatusOK, profile, start)
}

// RecordRating handles POST /api/v1/users/{userID}/ratings.
func (h *Handler) RecordRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	writer, ok := h.store.(recommend.RatingWriter)
	if !ok {
		respondDomainError(w, r, errors.ErrUnsupported)
		return
	}

	var req models.RatingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, r, apiErr)
		return
	}

	if _, err := h.engine.GetFood(r.Context(), req.FoodID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	if err := writer.RecordRating(r.Context(), userID, req.FoodID, req.Rating); err != nil {
		respondDomainError(w, r, err)
		return
	}
	// ratings feed every user's collaborative tier
	h.engine.InvalidateAll()

	respondSuccess(w, r, http.StatusCreated, map[string]int{
		"user_id": userID,
		"food_id": req.FoodID,
		"rating":  req.Rating,
	}, start)
}
