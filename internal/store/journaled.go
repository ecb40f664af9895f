// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/anuragksng/foodrec/internal/recommend"
	"github.com/anuragksng/foodrec/internal/wal"
)

// Writer journals an entry and applies it in sequence order. *wal.Replayer
// implements it.
type Writer interface {
	Write(ctx context.Context, e wal.Entry) error
}

// Journaled routes signal writes through the journal. A write that fails
// with a retryable error stays pending and is reported as accepted; the
// replayer applies it later, after every older pending write.
//
// The writer must target the same store as inner.
type Journaled struct {
	recommend.Store
	writer Writer
	logger zerolog.Logger
}

// NewJournaled decorates inner with writer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewJournaled(inner recommend.Store, writer Writer, logger zerolog.Logger) *Journaled {
	return &Journaled{
		Store:  inner,
		writer: writer,
		logger: logger.With().Str("component", "journaled_store").Logger(),
	}
}

// RecordFeedback journals then applies a feedback write.
func (j *Journaled) RecordFeedback(ctx context.Context, userID, foodID int, status recommend.FeedbackStatus) error {
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, recommend.ErrInvalidFeedback)
	}
	return j.write(ctx, wal.FeedbackEntry(userID, foodID, status))
}

// RecordSearch journals then applies a search write.
func (j *Journaled) RecordSearch(ctx context.Context, userID int, term string) error {
	return j.write(ctx, wal.SearchEntry(userID, term))
}

// RecordRating journals then applies a rating write.
func (j *Journaled) RecordRating(ctx context.Context, userID, foodID, rating int) error {
	if _, ok := j.Store.(recommend.RatingWriter); !ok {
		return fmt.Errorf("record rating: %w", errors.ErrUnsupported)
	}
	return j.write(ctx, wal.RatingEntry(userID, foodID, rating))
}

// UpsertProfile forwards to the inner store.
func (j *Journaled) UpsertProfile(ctx context.Context, p *recommend.UserProfile) error {
	w, ok := j.Store.(recommend.ProfileWriter)
	if !ok {
		return fmt.Errorf("upsert profile: %w", errors.ErrUnsupported)
	}
	return w.UpsertProfile(ctx, p)
}

// UpsertFood forwards to the inner store.
//
//nolint:gocritic // hugeParam: FoodItem is passed by value across the engine
func (j *Journaled) UpsertFood(ctx context.Context, f recommend.FoodItem) error {
	w, ok := j.Store.(recommend.CatalogWriter)
	if !ok {
		return fmt.Errorf("upsert food: %w", errors.ErrUnsupported)
	}
	return w.UpsertFood(ctx, f)
}

//nolint:gocritic // Entry is copied on purpose
func (j *Journaled) write(ctx context.Context, e wal.Entry) error {
	if err := j.writer.Write(ctx, e); err != nil {
		j.logger.Debug().Err(err).Str("kind", string(e.Kind)).Int("user_id", e.UserID).Msg("journaled write rejected")
		return err
	}
	return nil
}

var (
	_ recommend.Store         = (*Journaled)(nil)
	_ recommend.ProfileWriter = (*Journaled)(nil)
	_ recommend.RatingWriter  = (*Journaled)(nil)
	_ recommend.CatalogWriter = (*Journaled)(nil)
	_ Writer                  = (*wal.Replayer)(nil)
)
