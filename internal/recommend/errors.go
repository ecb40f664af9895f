// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable is returned when a required store read cannot be served.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUserNotFound is returned when the user has no profile.
	ErrUserNotFound = errors.New("user not found")

	// ErrFoodNotFound is returned when a food id is not in the catalog.
	ErrFoodNotFound = errors.New("food not found")

	// ErrInvalidFeedback is returned for a feedback status other than liked or disliked.
	ErrInvalidFeedback = errors.New("invalid feedback status")

	// ErrNoStore is returned when the engine is used before SetStore.
	ErrNoStore = errors.New("store not set")
)

// DataQualityError describes a stored record the engine cannot use.
type DataQualityError struct {
	Entity string
	ID     int
	Field  string
	Value  string
	Reason string
}

func (e *DataQualityError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("data quality: %s %d: %s %q: %s", e.Entity, e.ID, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("data quality: %s %d: %s: %s", e.Entity, e.ID, e.Field, e.Reason)
}

// IsDataQuality reports whether err wraps a *DataQualityError.
func IsDataQuality(err error) bool {
	var dq *DataQualityError
	return errors.As(err, &dq)
}
