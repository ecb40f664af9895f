// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package models

import (
	"time"

	"github.com/anuragksng/foodrec/internal/recommend"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error codes.
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeUnavailable = "STORE_UNAVAILABLE"
	ErrCodeRateLimit   = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// APIResponse is the envelope of every HTTP response.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and tracing information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version,omitempty"`
	Uptime   string            `json:"uptime,omitempty"`
	Checks   map[string]string `json:"checks,omitempty"`
	Breaker  string            `json:"breaker,omitempty"`
	Pending  int64             `json:"wal_pending"`
	CacheLen int               `json:"cache_entries"`
}

// SearchResponse lists the gated matches for a term.
type SearchResponse struct {
	Term  string               `json:"term"`
	Count int                  `json:"count"`
	Items []recommend.FoodItem `json:"items"`
}

// FeedbackResponse lists a user's liked and disliked food ids.
type FeedbackResponse struct {
	UserID   int   `json:"user_id"`
	Liked    []int `json:"liked"`
	Disliked []int `json:"disliked"`
}

// NewFeedbackResponse converts engine feedback into its wire form.
func NewFeedbackResponse(userID int, fb recommend.Feedback) FeedbackResponse {
	return FeedbackResponse{
		UserID:   userID,
		Liked:    fb.LikedIDs(),
		Disliked: fb.DislikedIDs(),
	}
}

// CuisineAffinityResponse is a user's cuisine breakdown.
type CuisineAffinityResponse struct {
	UserID   int                      `json:"user_id"`
	Cuisines []recommend.CuisineShare `json:"cuisines"`
}

// WeatherFoodsResponse lists the advisory food types for a weather.
type WeatherFoodsResponse struct {
	Weather   string   `json:"weather"`
	FoodTypes []string `json:"food_types"`
}
