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

	"github.com/rs/zerolog"

	"github.com/anuragksng/foodrec/internal/cache"
	"github.com/anuragksng/foodrec/internal/events"
	"github.com/anuragksng/foodrec/internal/metrics"
	"github.com/anuragksng/foodrec/internal/recommend"
)

const (
	catalogKey = "catalog"
	matrixKey  = "ratings"
)

// SnapshotConfig configures the snapshot cache.
type SnapshotConfig struct {
	TTL time.Duration `koanf:"ttl" json:"ttl"`
}

// DefaultSnapshotConfig returns the default snapshot TTL.
func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{TTL: 5 * time.Minute}
}

// Validate checks the snapshot settings.
func (c *SnapshotConfig) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("snapshot.ttl must be positive, got %v", c.TTL)
	}
	return nil
}

// Publisher sends change events. *events.Bus implements it.
type Publisher interface {
	Publish(ctx context.Context, c events.Change) error
}

// Cached keeps catalog, weather table and rating matrix snapshots in memory.
type Cached struct {
	inner  recommend.Store
	pub    Publisher
	logger zerolog.Logger

	catalog *cache.Cache[[]recommend.FoodItem]
	weather *cache.Cache[[]string]
	matrix  *cache.Cache[recommend.RatingMatrix]
}

// NewCached decorates inner. pub may be nil, in which case changes stay local.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewCached(inner recommend.Store, cfg SnapshotConfig, pub Publisher, logger zerolog.Logger) *Cached {
	return &Cached{
		inner:   inner,
		pub:     pub,
		logger:  logger.With().Str("component", "cached_store").Logger(),
		catalog: cache.New[[]recommend.FoodItem](cfg.TTL),
		weather: cache.New[[]string](cfg.TTL),
		matrix:  cache.New[recommend.RatingMatrix](cfg.TTL),
	}
}

// GetCatalog serves the catalog snapshot unless ctx asks for a fresh read.
func (c *Cached) GetCatalog(ctx context.Context) ([]recommend.FoodItem, error) {
	if !recommend.IsFreshRead(ctx) {
		if items, ok := c.catalog.Get(catalogKey); ok {
			metrics.RecordCacheLookup("catalog", true)
			return append([]recommend.FoodItem(nil), items...), nil
		}
		metrics.RecordCacheLookup("catalog", false)
	}

	items, err := c.inner.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	c.catalog.Set(catalogKey, append([]recommend.FoodItem(nil), items...))
	return items, nil
}

// GetWeatherFoodTypes serves the weather table snapshot.
func (c *Cached) GetWeatherFoodTypes(ctx context.Context, w recommend.WeatherType) ([]string, error) {
	key := w.String()
	if !recommend.IsFreshRead(ctx) {
		if types, ok := c.weather.Get(key); ok {
			metrics.RecordCacheLookup("weather", true)
			return append([]string(nil), types...), nil
		}
		metrics.RecordCacheLookup("weather", false)
	}

	types, err := c.inner.GetWeatherFoodTypes(ctx, w)
	if err != nil {
		return nil, err
	}
	c.weather.Set(key, append([]string(nil), types...))
	return types, nil
}

// GetRatingMatrix serves the rating matrix snapshot.
func (c *Cached) GetRatingMatrix(ctx context.Context) (recommend.RatingMatrix, error) {
	if !recommend.IsFreshRead(ctx) {
		if m, ok := c.matrix.Get(matrixKey); ok {
			metrics.RecordCacheLookup("ratings", true)
			return m.Clone(), nil
		}
		metrics.RecordCacheLookup("ratings", false)
	}

	m, err := c.inner.GetRatingMatrix(ctx)
	if err != nil {
		return nil, err
	}
	c.matrix.Set(matrixKey, m.Clone())
	return m, nil
}

// GetUserProfile is not cached.
func (c *Cached) GetUserProfile(ctx context.Context, userID int) (*recommend.UserProfile, error) {
	return c.inner.GetUserProfile(ctx, userID)
}

// GetFeedback is not cached.
func (c *Cached) GetFeedback(ctx context.Context, userID int) (recommend.Feedback, error) {
	return c.inner.GetFeedback(ctx, userID)
}

// GetRecentSearches is not cached.
func (c *Cached) GetRecentSearches(ctx context.Context, userID, limit int) ([]string, error) {
	return c.inner.GetRecentSearches(ctx, userID, limit)
}

// SearchCatalog is not cached.
func (c *Cached) SearchCatalog(ctx context.Context, term string) ([]recommend.FoodItem, error) {
	return c.inner.SearchCatalog(ctx, term)
}

// RecordFeedback writes through and announces the change.
func (c *Cached) RecordFeedback(ctx context.Context, userID, foodID int, status recommend.FeedbackStatus) error {
	if err := c.inner.RecordFeedback(ctx, userID, foodID, status); err != nil {
		return err
	}
	c.changed(ctx, events.NewChange(events.KindFeedback, userID, foodID))
	return nil
}

// RecordSearch writes through and announces the change.
func (c *Cached) RecordSearch(ctx context.Context, userID int, term string) error {
	if err := c.inner.RecordSearch(ctx, userID, term); err != nil {
		return err
	}
	c.changed(ctx, events.NewChange(events.KindSearch, userID, 0))
	return nil
}

// RecordRating writes through, drops the matrix snapshot and announces the change.
func (c *Cached) RecordRating(ctx context.Context, userID, foodID, rating int) error {
	w, ok := c.inner.(recommend.RatingWriter)
	if !ok {
		return fmt.Errorf("record rating: %w", errors.ErrUnsupported)
	}
	if err := w.RecordRating(ctx, userID, foodID, rating); err != nil {
		return err
	}
	c.changed(ctx, events.NewChange(events.KindRatings, userID, foodID))
	return nil
}

// UpsertFood writes through, drops the catalog snapshot and announces the change.
//
//nolint:gocritic // hugeParam: FoodItem is passed by value across the engine
func (c *Cached) UpsertFood(ctx context.Context, f recommend.FoodItem) error {
	w, ok := c.inner.(recommend.CatalogWriter)
	if !ok {
		return fmt.Errorf("upsert food: %w", errors.ErrUnsupported)
	}
	if err := w.UpsertFood(ctx, f); err != nil {
		return err
	}
	c.changed(ctx, events.NewChange(events.KindCatalog, 0, f.ID))
	return nil
}

// UpsertProfile writes through. Profiles are not snapshotted.
func (c *Cached) UpsertProfile(ctx context.Context, p *recommend.UserProfile) error {
	w, ok := c.inner.(recommend.ProfileWriter)
	if !ok {
		return fmt.Errorf("upsert profile: %w", errors.ErrUnsupported)
	}
	return w.UpsertProfile(ctx, p)
}

//nolint:gocritic // Change is small and immutable
func (c *Cached) changed(ctx context.Context, ch events.Change) {
	c.invalidate(ch.Kind, "local")
	if c.pub == nil {
		return
	}
	if err := c.pub.Publish(ctx, ch); err != nil {
		c.logger.Warn().Err(err).Str("kind", string(ch.Kind)).Msg("change event not published")
	}
}

// Invalidate drops the snapshots a change affects. It is registered as an
// events.Handler so changes from other instances are honoured.
//
//nolint:gocritic // Change is small and immutable
func (c *Cached) Invalidate(_ context.Context, ch events.Change) {
	c.invalidate(ch.Kind, "event")
}

func (c *Cached) invalidate(kind events.Kind, source string) {
	switch kind {
	case events.KindCatalog:
		c.catalog.Clear()
		c.weather.Clear()
		metrics.RecordCacheInvalidation("catalog", source)
	case events.KindRatings, events.KindFeedback:
		c.matrix.Clear()
		metrics.RecordCacheInvalidation("ratings", source)
	}
}

// Close stops the snapshot sweepers.
func (c *Cached) Close() {
	c.catalog.Close()
	c.weather.Close()
	c.matrix.Close()
}

// InvalidateAll drops every snapshot.
func (c *Cached) InvalidateAll() {
	c.catalog.Clear()
	c.weather.Clear()
	c.matrix.Clear()
	metrics.RecordCacheInvalidation("all", "manual")
}

var (
	_ recommend.Store         = (*Cached)(nil)
	_ recommend.ProfileWriter = (*Cached)(nil)
	_ recommend.RatingWriter  = (*Cached)(nil)
	_ recommend.CatalogWriter = (*Cached)(nil)
)
