// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"sort"
	"strings"
	"time"
)

// WeatherType is the weather context that drives weather-scoped scoring.
type WeatherType string

const (
	// WeatherAny disables the weather restriction (widened tier).
	WeatherAny   WeatherType = ""
	WeatherCold  WeatherType = "Cold"
	WeatherHot   WeatherType = "Hot"
	WeatherRainy WeatherType = "Rainy"
	WeatherHumid WeatherType = "Humid"
	WeatherWindy WeatherType = "Windy"
)

// WeatherTypes lists every supported weather context in display order.
var WeatherTypes = []WeatherType{WeatherCold, WeatherHot, WeatherRainy, WeatherHumid, WeatherWindy}

// ParseWeather maps a case-insensitive name to a WeatherType.
func ParseWeather(s string) (WeatherType, bool) {
	s = strings.TrimSpace(s)
	for _, w := range WeatherTypes {
		if strings.EqualFold(s, string(w)) {
			return w, true
		}
	}
	return WeatherAny, false
}

// String returns the weather name, or "Any" for the widened scope.
func (w WeatherType) String() string {
	if w == WeatherAny {
		return "Any"
	}
	return string(w)
}

// FeedbackStatus is an explicit like or dislike.
type FeedbackStatus string

const (
	StatusLiked    FeedbackStatus = "liked"
	StatusDisliked FeedbackStatus = "disliked"
)

// Valid reports whether s is one of the two feedback statuses.
func (s FeedbackStatus) Valid() bool {
	return s == StatusLiked || s == StatusDisliked
}

// MealTypeAny disables the meal-type restriction.
const MealTypeAny = "Any"

// FoodItem is an immutable catalog record.
type FoodItem struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Cuisine     string      `json:"cuisine"`
	Category    string      `json:"category"`
	Diet        DietType    `json:"diet"`
	Spice       int         `json:"spice"`
	Sugar       int         `json:"sugar"`
	Description string      `json:"description"`
	Weather     WeatherType `json:"weather"`
}

// Validate reports a *DataQualityError when the record cannot be used by the engine.
//
//nolint:gocritic // hugeParam: FoodItem is passed by value across the engine
func (f FoodItem) Validate() error {
	switch {
	case f.ID <= 0:
		return &DataQualityError{Entity: "food", ID: f.ID, Field: "id", Reason: "must be positive"}
	case !f.Diet.Valid():
		return &DataQualityError{Entity: "food", ID: f.ID, Field: "diet", Value: string(f.Diet), Reason: "missing or unparseable diet type"}
	case f.Spice < 0 || f.Spice > 10:
		return &DataQualityError{Entity: "food", ID: f.ID, Field: "spice", Reason: "outside 0-10"}
	case f.Sugar < 0 || f.Sugar > 10:
		return &DataQualityError{Entity: "food", ID: f.ID, Field: "sugar", Reason: "outside 0-10"}
	}
	return nil
}

// Preference is a user's target profile for one weather type.
type Preference struct {
	Spice    int    `json:"spice"`
	Sugar    int    `json:"sugar"`
	MealType string `json:"meal_type"`
}

// DefaultPreference is used when a user has no record for the active weather.
func DefaultPreference() Preference {
	return Preference{Spice: 3, Sugar: 3, MealType: MealTypeAny}
}

// restrictsMeal reports whether the meal type narrows the candidate set.
func (p Preference) restrictsMeal() bool {
	m := strings.TrimSpace(p.MealType)
	return m != "" && !strings.EqualFold(m, MealTypeAny)
}

// UserProfile is a user's declared diet and per-weather preferences.
type UserProfile struct {
	ID          int                        `json:"id"`
	Diet        DietType                   `json:"diet"`
	Preferences map[WeatherType]Preference `json:"preferences"`
	Allergies   []string                   `json:"allergies,omitempty"` // informational only
}

// PreferenceFor returns the preference for w, or the default when none is recorded.
func (p *UserProfile) PreferenceFor(w WeatherType) Preference {
	if pref, ok := p.Preferences[w]; ok {
		return pref
	}
	return DefaultPreference()
}

// Feedback holds a user's liked and disliked food ids.
type Feedback struct {
	Liked    map[int]struct{} `json:"-"`
	Disliked map[int]struct{} `json:"-"`
}

// NewFeedback builds a Feedback from id slices. A later disliked id wins over a liked one.
func NewFeedback(liked, disliked []int) Feedback {
	fb := Feedback{
		Liked:    make(map[int]struct{}, len(liked)),
		Disliked: make(map[int]struct{}, len(disliked)),
	}
	for _, id := range liked {
		fb.Liked[id] = struct{}{}
	}
	for _, id := range disliked {
		delete(fb.Liked, id)
		fb.Disliked[id] = struct{}{}
	}
	return fb
}

// IsLiked reports whether id is liked.
func (f Feedback) IsLiked(id int) bool {
	_, ok := f.Liked[id]
	return ok
}

// IsDisliked reports whether id is disliked.
func (f Feedback) IsDisliked(id int) bool {
	_, ok := f.Disliked[id]
	return ok
}

// seen reports whether the user has given any feedback on id.
func (f Feedback) seen(id int) bool {
	return f.IsLiked(id) || f.IsDisliked(id)
}

// LikedIDs returns the liked ids in ascending order.
func (f Feedback) LikedIDs() []int { return sortedKeys(f.Liked) }

// DislikedIDs returns the disliked ids in ascending order.
func (f Feedback) DislikedIDs() []int { return sortedKeys(f.Disliked) }

func sortedKeys(m map[int]struct{}) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// RatingMatrix is a sparse user x food rating table on a 1-10 scale.
type RatingMatrix map[int]map[int]int

// Set records a rating, creating the row when needed.
func (m RatingMatrix) Set(userID, foodID, rating int) {
	row, ok := m[userID]
	if !ok {
		row = make(map[int]int)
		m[userID] = row
	}
	row[foodID] = rating
}

// Users returns the row ids in ascending order.
func (m RatingMatrix) Users() []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Columns returns every food id with at least one rating, ascending.
func (m RatingMatrix) Columns() []int {
	set := make(map[int]struct{})
	for _, row := range m {
		for foodID := range row {
			set[foodID] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Clone returns a deep copy.
func (m RatingMatrix) Clone() RatingMatrix {
	out := make(RatingMatrix, len(m))
	for u, row := range m {
		r := make(map[int]int, len(row))
		for f, v := range row {
			r[f] = v
		}
		out[u] = r
	}
	return out
}

// SearchEvent is one entry of a user's search log.
type SearchEvent struct {
	UserID int       `json:"user_id"`
	Term   string    `json:"term"`
	At     time.Time `json:"at"`
}

// View selects the result cap of the caller's screen.
type View int

const (
	// ViewHome is the home feed.
	ViewHome View = iota
	// ViewFull is the dedicated recommendations view.
	ViewFull
)

// String returns the view name used in logs and cache keys.
func (v View) String() string {
	if v == ViewFull {
		return "full"
	}
	return "home"
}

// ParseView maps "home" or "full" to a View. Anything else is the home feed.
func ParseView(s string) View {
	if strings.EqualFold(strings.TrimSpace(s), "full") {
		return ViewFull
	}
	return ViewHome
}

// Tier names one stage of the orchestrator's fallback chain.
type Tier string

const (
	TierWeather       Tier = "weather"
	TierCollaborative Tier = "collaborative"
	TierContent       Tier = "content"
	TierWidened       Tier = "widened"
	TierRandom        Tier = "random"
)

// Request is the request-scoped input of a recommendation call.
type Request struct {
	UserID  int         `json:"user_id"`
	Weather WeatherType `json:"weather"`
	View    View        `json:"view"`

	// Fresh bypasses the response cache and asks the store for fresh snapshots.
	Fresh bool `json:"fresh,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is the ranked result plus diagnostics.
type Response struct {
	Items    []FoodItem       `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	RequestID string `json:"request_id"`
	UserID    int    `json:"user_id"`
	Weather   string `json:"weather"`
	View      string `json:"view"`

	// TiersUsed lists the tiers that contributed at least one item, in merge order.
	TiersUsed []Tier `json:"tiers_used"`

	// WeatherFallback is set when the weather scorer padded with random items.
	WeatherFallback bool `json:"weather_fallback"`

	// SkippedTiers lists tiers that failed and were skipped.
	SkippedTiers []Tier `json:"skipped_tiers,omitempty"`

	// Excluded counts catalog records dropped as data-quality errors.
	Excluded int `json:"excluded"`

	LatencyMS int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
}

// UsedTier reports whether t contributed to the response.
//
//nolint:gocritic // value receiver keeps ResponseMetadata immutable
func (m ResponseMetadata) UsedTier(t Tier) bool {
	for _, used := range m.TiersUsed {
		if used == t {
			return true
		}
	}
	return false
}

// CuisineShare is one cuisine's share of a user's liked foods.
type CuisineShare struct {
	Cuisine string  `json:"cuisine"`
	Share   float64 `json:"share"`
	Count   int     `json:"count"`
}

// Metrics contains engine counters for observability.
type Metrics struct {
	RequestCount  int64 `json:"request_count"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	ErrorCount    int64 `json:"error_count"`
	FallbackCount int64 `json:"fallback_count"`
	ExcludedCount int64 `json:"excluded_count"`
}
