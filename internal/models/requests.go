// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package models

import (
	"strings"

	"github.com/anuragksng/foodrec/internal/recommend"
)

// RefreshRequest is the body of POST .../recommendations/refresh.
type RefreshRequest struct {
	Weather string `json:"weather" validate:"required,weather"`
	View    string `json:"view" validate:"omitempty,oneof=home full"`
}

// FeedbackRequest is the body of POST .../feedback.
type FeedbackRequest struct {
	FoodID int    `json:"food_id" validate:"required,gt=0"`
	Status string `json:"status" validate:"required,feedback_status"`
}

// FeedbackStatus returns the normalized status.
func (r *FeedbackRequest) FeedbackStatus() recommend.FeedbackStatus {
	return recommend.FeedbackStatus(strings.ToLower(strings.TrimSpace(r.Status)))
}

// RatingRequest is the body of POST .../ratings.
type RatingRequest struct {
	FoodID int `json:"food_id" validate:"required,gt=0"`
	Rating int `json:"rating" validate:"required,gte=1,lte=10"`
}

// PreferenceRequest is one weather's preference in a profile update.
type PreferenceRequest struct {
	Weather  string `json:"weather" validate:"required,weather"`
	Spice    int    `json:"spice" validate:"gte=0,lte=10"`
	Sugar    int    `json:"sugar" validate:"gte=0,lte=10"`
	MealType string `json:"meal_type" validate:"omitempty,max=50"`
}

// ProfileRequest is the body of PUT .../profile.
type ProfileRequest struct {
	Diet        string              `json:"diet" validate:"required,diet"`
	Preferences []PreferenceRequest `json:"preferences" validate:"omitempty,max=5,dive"`
	Allergies   []string            `json:"allergies" validate:"omitempty,max=20,dive,max=50"`
}

// ToProfile converts a validated request into a profile. Later entries for
// the same weather win.
func (r *ProfileRequest) ToProfile(userID int) *recommend.UserProfile {
	diet, _ := recommend.ParseDeclaredDiet(r.Diet)
	p := &recommend.UserProfile{
		ID:          userID,
		Diet:        diet,
		Preferences: make(map[recommend.WeatherType]recommend.Preference, len(r.Preferences)),
	}
	for _, pr := range r.Preferences {
		w, ok := recommend.ParseWeather(pr.Weather)
		if !ok {
			continue
		}
		meal := strings.TrimSpace(pr.MealType)
		if meal == "" {
			meal = recommend.MealTypeAny
		}
		p.Preferences[w] = recommend.Preference{Spice: pr.Spice, Sugar: pr.Sugar, MealType: meal}
	}
	for _, a := range r.Allergies {
		if a = strings.TrimSpace(a); a != "" {
			p.Allergies = append(p.Allergies, a)
		}
	}
	return p
}
