// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"context"
)

// Store is the read and write surface the engine needs from persistence.
// Implementations live in the store and database packages.
type Store interface {
	// GetCatalog returns every food record ordered by id. Records may carry
	// DietUnknown or out-of-range levels; the engine excludes them.
	GetCatalog(ctx context.Context) ([]FoodItem, error)

	// GetWeatherFoodTypes returns the food types the weather table lists for w.
	// The result is advisory.
	GetWeatherFoodTypes(ctx context.Context, w WeatherType) ([]string, error)

	// GetUserProfile returns the user's declared diet and per-weather preferences.
	// It returns ErrUserNotFound for unknown users.
	GetUserProfile(ctx context.Context, userID int) (*UserProfile, error)

	// GetFeedback returns the user's liked and disliked ids. Users without
	// feedback get empty sets.
	GetFeedback(ctx context.Context, userID int) (Feedback, error)

	// RecordFeedback upserts the user's status for a food. The latest call wins.
	RecordFeedback(ctx context.Context, userID, foodID int, status FeedbackStatus) error

	// GetRecentSearches returns up to limit terms, most recent first.
	GetRecentSearches(ctx context.Context, userID, limit int) ([]string, error)

	// RecordSearch appends a term to the user's search log.
	RecordSearch(ctx context.Context, userID int, term string) error

	// GetRatingMatrix returns the full user x food rating matrix.
	GetRatingMatrix(ctx context.Context) (RatingMatrix, error)

	// SearchCatalog returns foods whose name, cuisine, category or description
	// contain term, case-insensitively, ordered by id.
	SearchCatalog(ctx context.Context, term string) ([]FoodItem, error)
}

// ProfileWriter is implemented by stores that accept profile updates.
type ProfileWriter interface {
	UpsertProfile(ctx context.Context, p *UserProfile) error
}

// RatingWriter is implemented by stores that accept rating updates.
type RatingWriter interface {
	RecordRating(ctx context.Context, userID, foodID, rating int) error
}

// CatalogWriter is implemented by stores that accept catalog updates.
type CatalogWriter interface {
	UpsertFood(ctx context.Context, f FoodItem) error
}

type freshReadKey struct{}

// WithFreshRead marks ctx so caching stores bypass their snapshots.
func WithFreshRead(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshReadKey{}, true)
}

// IsFreshRead reports whether ctx asks for fresh reads.
func IsFreshRead(ctx context.Context) bool {
	v, ok := ctx.Value(freshReadKey{}).(bool)
	return ok && v
}
