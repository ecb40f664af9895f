// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package wal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/anuragksng/foodrec/internal/metrics"
	"github.com/anuragksng/foodrec/internal/recommend"
)

// Target receives replayed writes.
type Target interface {
	RecordFeedback(ctx context.Context, userID, foodID int, status recommend.FeedbackStatus) error
	RecordSearch(ctx context.Context, userID int, term string) error
}

// Apply performs the write an entry describes.
//
//nolint:gocritic // Entry is read-only here
func Apply(ctx context.Context, target Target, e Entry) error {
	switch e.Kind {
	case KindFeedback:
		return target.RecordFeedback(ctx, e.UserID, e.FoodID, e.Status)
	case KindSearch:
		return target.RecordSearch(ctx, e.UserID, e.Term)
	case KindRating:
		w, ok := target.(recommend.RatingWriter)
		if !ok {
			return fmt.Errorf("rating entry: %w", errors.ErrUnsupported)
		}
		return w.RecordRating(ctx, e.UserID, e.FoodID, e.Rating)
	default:
		return fmt.Errorf("unknown WAL entry kind %q", e.Kind)
	}
}

// Retryable reports whether a failed apply should stay pending.
func Retryable(err error) bool {
	return errors.Is(err, recommend.ErrStoreUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ReplayResult summarizes one replay pass.
type ReplayResult struct {
	Applied int
	Failed  int
	Dropped int
}

// errLeftPending marks a Write whose entry is waiting behind a retryable failure.
var errLeftPending = errors.New("wal entry left pending")

// AppliedFunc is called after a pending entry reaches the target.
type AppliedFunc func(ctx context.Context, e Entry)

// Replayer owns the write path of journaled signals. Write and ReplayOnce
// share one lock, so entries reach the target in sequence order and at most
// once. It implements suture.Service.
type Replayer struct {
	journal *Journal
	target  Target
	cfg     Config
	logger  zerolog.Logger

	mu        sync.Mutex
	onApplied []AppliedFunc
}

// NewReplayer creates a replayer.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewReplayer(journal *Journal, target Target, cfg Config, logger zerolog.Logger) *Replayer {
	return &Replayer{
		journal: journal,
		target:  target,
		cfg:     cfg,
		logger:  logger.With().Str("component", "wal_replayer").Logger(),
	}
}

// OnApplied registers fn for entries applied after they were left pending.
// A write applied within its own Write call does not trigger fn; its caller
// sees the result directly.
func (r *Replayer) OnApplied(fn AppliedFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onApplied = append(r.onApplied, fn)
}

// Serve replays once at startup and then every ReplayInterval.
func (r *Replayer) Serve(ctx context.Context) error {
	r.pass(ctx)

	ticker := time.NewTicker(r.cfg.ReplayInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.pass(ctx)
		}
	}
}

func (r *Replayer) pass(ctx context.Context) {
	res, err := r.ReplayOnce(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error().Err(err).Msg("WAL replay pass failed")
		return
	}
	if res.Applied+res.Failed+res.Dropped > 0 {
		r.logger.Info().
			Int("applied", res.Applied).
			Int("failed", res.Failed).
			Int("dropped", res.Dropped).
			Msg("WAL replay pass")
	}
	if err := r.journal.RunGC(); err != nil {
		r.logger.Debug().Err(err).Msg("WAL value log GC")
	}
}

// Write journals e and then drains the journal through it. Entries still
// pending from an earlier outage are applied first, so a newer write is
// never overwritten by an older one.
//
// It returns nil once e is applied, or when e stays pending behind a
// retryable failure. A permanent failure drops e and is returned.
//
//nolint:gocritic // Entry is copied on purpose
func (r *Replayer) Write(ctx context.Context, e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, err := r.journal.Append(ctx, e)
	if err != nil {
		// without the journal the write is still attempted directly
		r.logger.Warn().Err(err).Str("kind", string(e.Kind)).Msg("WAL append failed")
		return Apply(ctx, r.target, e)
	}

	_, outcome, err := r.replayLocked(ctx, entry.Seq)
	if errors.Is(outcome, errLeftPending) {
		r.logger.Warn().
			Str("entry_id", entry.ID).
			Str("kind", string(entry.Kind)).
			Msg("store unavailable, write left pending for replay")
		return nil
	}
	if err != nil {
		if ctx.Err() != nil {
			// the entry is journaled; a later pass applies it
			return nil
		}
		return err
	}
	return outcome
}

// ReplayOnce applies every pending entry in order. A retryable failure
// stops the pass so later entries cannot overtake earlier ones.
func (r *Replayer) ReplayOnce(ctx context.Context) (ReplayResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, _, err := r.replayLocked(ctx, 0)
	return res, err
}

// replayLocked drains the journal. When own is non-zero, the entry with that
// sequence belongs to the caller: its apply error is returned as outcome if
// the entry was dropped, and it does not trigger the applied hooks.
func (r *Replayer) replayLocked(ctx context.Context, own uint64) (res ReplayResult, outcome, err error) {
	entries, err := r.journal.Pending(ctx)
	if err != nil {
		return res, nil, err
	}

	for i := range entries {
		e := entries[i]
		mine := own != 0 && e.Seq == own

		aerr := Apply(ctx, r.target, e)
		switch {
		case aerr == nil:
			if cerr := r.journal.Confirm(ctx, e); cerr != nil && !errors.Is(cerr, ErrEntryNotFound) {
				return res, outcome, cerr
			}
			res.Applied++
			metrics.RecordWALReplay("applied")
			if !mine {
				for _, fn := range r.onApplied {
					fn(ctx, e)
				}
			}

		case ctx.Err() != nil:
			return res, outcome, ctx.Err()

		case Retryable(aerr):
			res.Failed++
			metrics.RecordWALReplay("failed")
			if merr := r.journal.MarkFailed(ctx, &e, aerr); merr != nil {
				return res, outcome, merr
			}
			if r.cfg.MaxAttempts > 0 && e.Attempts >= r.cfg.MaxAttempts {
				r.drop(ctx, e, aerr)
				res.Dropped++
				if mine {
					outcome = aerr
				}
				continue
			}
			if own != 0 {
				// own is last in sequence order, so it is still pending
				outcome = errLeftPending
			}
			return res, outcome, nil

		default:
			r.drop(ctx, e, aerr)
			res.Dropped++
			if mine {
				outcome = aerr
			}
		}
	}
	return res, outcome, nil
}

//nolint:gocritic // Entry is read-only here
func (r *Replayer) drop(ctx context.Context, e Entry, cause error) {
	r.logger.Warn().
		Err(cause).
		Str("entry_id", e.ID).
		Str("kind", string(e.Kind)).
		Int("user_id", e.UserID).
		Int("attempts", e.Attempts).
		Msg("dropping WAL entry")
	metrics.RecordWALReplay("dropped")
	if err := r.journal.Drop(ctx, e); err != nil && !errors.Is(err, ErrEntryNotFound) {
		r.logger.Error().Err(err).Str("entry_id", e.ID).Msg("failed to drop WAL entry")
	}
}

// String implements fmt.Stringer for suture logging.
func (r *Replayer) String() string {
	return "wal-replayer"
}
