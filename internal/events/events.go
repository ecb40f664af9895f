// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Kind identifies what changed.
type Kind string

const (
	KindCatalog  Kind = "catalog"
	KindRatings  Kind = "ratings"
	KindFeedback Kind = "feedback"
	KindSearch   Kind = "search"
)

// Kinds lists every change kind.
var Kinds = []Kind{KindCatalog, KindRatings, KindFeedback, KindSearch}

// Topic returns the topic a kind is published on.
func (k Kind) Topic() string {
	switch k {
	case KindCatalog:
		return "foodrec.catalog.changed"
	case KindRatings:
		return "foodrec.ratings.changed"
	case KindFeedback:
		return "foodrec.feedback.changed"
	case KindSearch:
		return "foodrec.search.recorded"
	default:
		return "foodrec." + string(k)
	}
}

// Change is the event payload.
type Change struct {
	ID     string    `json:"id"`
	Kind   Kind      `json:"kind"`
	UserID int       `json:"user_id,omitempty"`
	FoodID int       `json:"food_id,omitempty"`
	At     time.Time `json:"at"`
}

// NewChange stamps a change with a new id and the current time.
func NewChange(kind Kind, userID, foodID int) Change {
	return Change{
		ID:     uuid.NewString(),
		Kind:   kind,
		UserID: userID,
		FoodID: foodID,
		At:     time.Now().UTC(),
	}
}

// Marshal encodes the change as JSON.
//
//nolint:gocritic // value receiver keeps Change immutable
func (c Change) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// ParseChange decodes a JSON payload.
func ParseChange(data []byte) (Change, error) {
	var c Change
	if err := json.Unmarshal(data, &c); err != nil {
		return Change{}, fmt.Errorf("decode change: %w", err)
	}
	if c.Kind == "" {
		return Change{}, fmt.Errorf("decode change: missing kind")
	}
	return c, nil
}
