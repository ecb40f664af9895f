// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anuragksng/foodrec/internal/models"
	"github.com/anuragksng/foodrec/internal/recommend"
)

// GetFood handles GET /api/v1/foods/{foodID}.
func (h *Handler) GetFood(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	foodID, err := pathID(r, "foodID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}

	food, err := h.engine.GetFood(r.Context(), foodID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, food, start)
}

// WeatherFoods handles GET /api/v1/weather/{weather}/foods.
func (h *Handler) WeatherFoods(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	raw := chi.URLParam(r, "weather")
	wt, ok := recommend.ParseWeather(raw)
	if !ok {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation,
			"weather must be one of Cold, Hot, Rainy, Humid, Windy", nil)
		return
	}

	types, err := h.store.GetWeatherFoodTypes(r.Context(), wt)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if types == nil {
		types = []string{}
	}

	respondSuccess(w, r, http.StatusOK, models.WeatherFoodsResponse{
		Weather:   wt.String(),
		FoodTypes: types,
	}, start)
}
