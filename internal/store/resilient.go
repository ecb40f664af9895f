// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/anuragksng/foodrec/internal/metrics"
	"github.com/anuragksng/foodrec/internal/recommend"
)

// RetryPolicy is the single retry policy applied to every store call.
type RetryPolicy struct {
	// MaxAttempts counts the first try. 1 disables retries.
	MaxAttempts int `koanf:"max_attempts" json:"max_attempts"`

	InitialInterval time.Duration `koanf:"initial_interval" json:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval" json:"max_interval"`
	Multiplier      float64       `koanf:"multiplier" json:"multiplier"`
}

// BreakerConfig configures the circuit breaker around the store.
type BreakerConfig struct {
	Name string `koanf:"name" json:"name"`

	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests" json:"max_requests"`

	// Interval resets the closed-state counts. Zero never resets.
	Interval time.Duration `koanf:"interval" json:"interval"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout" json:"timeout"`

	// The breaker opens once MinRequests calls have been seen and the
	// failure ratio reaches FailureRatio.
	MinRequests  uint32  `koanf:"min_requests" json:"min_requests"`
	FailureRatio float64 `koanf:"failure_ratio" json:"failure_ratio"`
}

// ResilientConfig groups the retry and breaker settings.
type ResilientConfig struct {
	Retry   RetryPolicy   `koanf:"retry" json:"retry"`
	Breaker BreakerConfig `koanf:"breaker" json:"breaker"`
}

// DefaultResilientConfig returns production defaults.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		Retry: RetryPolicy{
			MaxAttempts:     3,
			InitialInterval: 50 * time.Millisecond,
			MaxInterval:     time.Second,
			Multiplier:      2,
		},
		Breaker: BreakerConfig{
			Name:         "store",
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
	}
}

// Validate checks the retry and breaker settings.
func (c *ResilientConfig) Validate() error {
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.InitialInterval <= 0 {
		return fmt.Errorf("retry.initial_interval must be positive, got %v", c.Retry.InitialInterval)
	}
	if c.Retry.MaxInterval < c.Retry.InitialInterval {
		return fmt.Errorf("retry.max_interval must be >= retry.initial_interval, got %v", c.Retry.MaxInterval)
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("retry.multiplier must be >= 1, got %v", c.Retry.Multiplier)
	}
	if c.Breaker.MaxRequests == 0 {
		return fmt.Errorf("breaker.max_requests must be positive")
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("breaker.timeout must be positive, got %v", c.Breaker.Timeout)
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("breaker.failure_ratio must be in (0, 1], got %v", c.Breaker.FailureRatio)
	}
	return nil
}

// Resilient wraps a store with retries and a circuit breaker.
type Resilient struct {
	inner  recommend.Store
	cfg    ResilientConfig
	cb     *gobreaker.CircuitBreaker[any]
	logger zerolog.Logger
}

// NewResilient decorates inner with cfg.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewResilient(inner recommend.Store, cfg ResilientConfig, logger zerolog.Logger) *Resilient {
	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = "store"
	}
	r := &Resilient{
		inner:  inner,
		cfg:    cfg,
		logger: logger.With().Str("component", "resilient_store").Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Breaker.Name).Set(0)

	r.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cfg.Breaker.Name,
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.Breaker.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.Breaker.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.Warn().
				Str("breaker", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("circuit breaker state transition")
			metrics.RecordBreakerTransition(name, stateToString(from), stateToString(to), stateToFloat(to))
		},
		// domain errors mean the store answered
		IsSuccessful: func(err error) bool {
			return err == nil || isPermanent(err)
		},
	})
	return r
}

// State returns the breaker state name.
func (r *Resilient) State() string {
	return stateToString(r.cb.State())
}

// call runs fn under the retry policy and the breaker.
func (r *Resilient) call(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.cfg.Retry.InitialInterval
	exp.MaxInterval = r.cfg.Retry.MaxInterval
	exp.Multiplier = r.cfg.Retry.Multiplier
	exp.MaxElapsedTime = 0

	maxRetries := r.cfg.Retry.MaxAttempts - 1
	if maxRetries < 0 {
		maxRetries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(maxRetries)), ctx)

	operation := func() error {
		_, err := r.cb.Execute(func() (any, error) {
			return nil, fn(ctx)
		})
		switch {
		case err == nil:
			metrics.RecordBreakerResult(r.cfg.Breaker.Name, "success")
			return nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordBreakerResult(r.cfg.Breaker.Name, "rejected")
			return backoff.Permanent(err)
		case isPermanent(err):
			metrics.RecordBreakerResult(r.cfg.Breaker.Name, "success")
			return backoff.Permanent(err)
		default:
			metrics.RecordBreakerResult(r.cfg.Breaker.Name, "failure")
			return err
		}
	}

	notify := func(err error, wait time.Duration) {
		metrics.RecordStoreRetry(op)
		r.logger.Debug().Err(err).Str("op", op).Dur("wait", wait).Msg("retrying store call")
	}

	err := backoff.RetryNotify(operation, policy, notify)
	metrics.RecordStoreOp(r.cfg.Breaker.Name, op, time.Since(start), err)

	if err == nil || isPermanent(err) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, recommend.ErrStoreUnavailable, err)
}

func resilientDo[T any](r *Resilient, ctx context.Context, op string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := r.call(ctx, op, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err == nil {
			out = v
		}
		return err
	})
	return out, err
}

// isPermanent reports whether err is a domain answer rather than a failure.
func isPermanent(err error) bool {
	return errors.Is(err, recommend.ErrUserNotFound) ||
		errors.Is(err, recommend.ErrFoodNotFound) ||
		errors.Is(err, recommend.ErrInvalidFeedback) ||
		recommend.IsDataQuality(err)
}

// GetCatalog implements recommend.Store.
func (r *Resilient) GetCatalog(ctx context.Context) ([]recommend.FoodItem, error) {
	return resilientDo(r, ctx, "get_catalog", r.inner.GetCatalog)
}

// GetWeatherFoodTypes implements recommend.Store.
func (r *Resilient) GetWeatherFoodTypes(ctx context.Context, w recommend.WeatherType) ([]string, error) {
	return resilientDo(r, ctx, "get_weather_food_types", func(ctx context.Context) ([]string, error) {
		return r.inner.GetWeatherFoodTypes(ctx, w)
	})
}

// GetUserProfile implements recommend.Store.
func (r *Resilient) GetUserProfile(ctx context.Context, userID int) (*recommend.UserProfile, error) {
	return resilientDo(r, ctx, "get_user_profile", func(ctx context.Context) (*recommend.UserProfile, error) {
		return r.inner.GetUserProfile(ctx, userID)
	})
}

// GetFeedback implements recommend.Store.
func (r *Resilient) GetFeedback(ctx context.Context, userID int) (recommend.Feedback, error) {
	return resilientDo(r, ctx, "get_feedback", func(ctx context.Context) (recommend.Feedback, error) {
		return r.inner.GetFeedback(ctx, userID)
	})
}

// RecordFeedback implements recommend.Store.
func (r *Resilient) RecordFeedback(ctx context.Context, userID, foodID int, status recommend.FeedbackStatus) error {
	return r.call(ctx, "record_feedback", func(ctx context.Context) error {
		return r.inner.RecordFeedback(ctx, userID, foodID, status)
	})
}

// GetRecentSearches implements recommend.Store.
func (r *Resilient) GetRecentSearches(ctx context.Context, userID, limit int) ([]string, error) {
	return resilientDo(r, ctx, "get_recent_searches", func(ctx context.Context) ([]string, error) {
		return r.inner.GetRecentSearches(ctx, userID, limit)
	})
}

// RecordSearch implements recommend.Store.
func (r *Resilient) RecordSearch(ctx context.Context, userID int, term string) error {
	return r.call(ctx, "record_search", func(ctx context.Context) error {
		return r.inner.RecordSearch(ctx, userID, term)
	})
}

// GetRatingMatrix implements recommend.Store.
func (r *Resilient) GetRatingMatrix(ctx context.Context) (recommend.RatingMatrix, error) {
	return resilientDo(r, ctx, "get_rating_matrix", r.inner.GetRatingMatrix)
}

// SearchCatalog implements recommend.Store.
func (r *Resilient) SearchCatalog(ctx context.Context, term string) ([]recommend.FoodItem, error) {
	return resilientDo(r, ctx, "search_catalog", func(ctx context.Context) ([]recommend.FoodItem, error) {
		return r.inner.SearchCatalog(ctx, term)
	})
}

// UpsertProfile forwards to the inner store when it accepts profile writes.
func (r *Resilient) UpsertProfile(ctx context.Context, p *recommend.UserProfile) error {
	w, ok := r.inner.(recommend.ProfileWriter)
	if !ok {
		return fmt.Errorf("upsert profile: %w", errors.ErrUnsupported)
	}
	return r.call(ctx, "upsert_profile", func(ctx context.Context) error {
		return w.UpsertProfile(ctx, p)
	})
}

// RecordRating forwards to the inner store when it accepts rating writes.
func (r *Resilient) RecordRating(ctx context.Context, userID, foodID, rating int) error {
	w, ok := r.inner.(recommend.RatingWriter)
	if !ok {
		return fmt.Errorf("record rating: %w", errors.ErrUnsupported)
	}
	return r.call(ctx, "record_rating", func(ctx context.Context) error {
		return w.RecordRating(ctx, userID, foodID, rating)
	})
}

// UpsertFood forwards to the inner store when it accepts catalog writes.
//
//nolint:gocritic // hugeParam: FoodItem is passed by value across the engine
func (r *Resilient) UpsertFood(ctx context.Context, f recommend.FoodItem) error {
	w, ok := r.inner.(recommend.CatalogWriter)
	if !ok {
		return fmt.Errorf("upsert food: %w", errors.ErrUnsupported)
	}
	return r.call(ctx, "upsert_food", func(ctx context.Context) error {
		return w.UpsertFood(ctx, f)
	})
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

var (
	_ recommend.Store         = (*Resilient)(nil)
	_ recommend.ProfileWriter = (*Resilient)(nil)
	_ recommend.RatingWriter  = (*Resilient)(nil)
	_ recommend.CatalogWriter = (*Resilient)(nil)
)
