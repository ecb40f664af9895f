// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"fmt"
	"time"
)

// Config contains all recommendation engine configuration.
type Config struct {
	// Limits controls result sizes and fallback thresholds.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache controls the response cache.
	Cache CacheConfig `json:"cache" koanf:"cache"`

	// Seed for the random padding source.
	// Zero selects the default seed 42.
	Seed int64 `json:"seed" koanf:"seed"`
}

// LimitsConfig contains result size and fallback parameters.
type LimitsConfig struct {
	// HomeLimit caps the home feed.
	// Default: 10.
	HomeLimit int `json:"home_limit" koanf:"home_limit"`

	// ViewLimit caps the dedicated recommendations view.
	// Default: 15.
	ViewLimit int `json:"view_limit" koanf:"view_limit"`

	// MinResults triggers the widened tier when the merged list is shorter.
	// Also the weather scorer's padding target.
	// Default: 5.
	MinResults int `json:"min_results" koanf:"min_results"`

	// MinAfterWidened triggers random fill when the list is still shorter after widening.
	// Default: 3.
	MinAfterWidened int `json:"min_after_widened" koanf:"min_after_widened"`

	// WeatherTopN is the number of nearest foods kept by the weather scorer.
	// Default: 10.
	WeatherTopN int `json:"weather_top_n" koanf:"weather_top_n"`

	// CollabNeighbors is the number of similar users considered.
	// Default: 5.
	CollabNeighbors int `json:"collab_neighbors" koanf:"collab_neighbors"`

	// CollabMinRating is the lowest neighbour rating that counts as an endorsement.
	// Default: 4.
	CollabMinRating int `json:"collab_min_rating" koanf:"collab_min_rating"`

	// CollabMax caps collaborative output.
	// Default: 5.
	CollabMax int `json:"collab_max" koanf:"collab_max"`

	// ContentTerms is the number of recent search terms used.
	// Default: 3.
	ContentTerms int `json:"content_terms" koanf:"content_terms"`

	// ContentMax caps content output.
	// Default: 5.
	ContentMax int `json:"content_max" koanf:"content_max"`

	// StoreTimeout bounds a single recommendation's store reads.
	// Default: 5s.
	StoreTimeout time.Duration `json:"store_timeout" koanf:"store_timeout"`
}

// CacheConfig contains response caching parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 2m.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries is the maximum number of cached entries.
	// Default: 10000.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			HomeLimit:       10,
			ViewLimit:       15,
			MinResults:      5,
			MinAfterWidened: 3,
			WeatherTopN:     10,
			CollabNeighbors: 5,
			CollabMinRating: 4,
			CollabMax:       5,
			ContentTerms:    3,
			ContentMax:      5,
			StoreTimeout:    5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        2 * time.Minute,
			MaxEntries: 10000,
		},
		Seed: 42,
	}
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	l := c.Limits
	if l.HomeLimit <= 0 {
		return fmt.Errorf("limits.home_limit must be positive, got %d", l.HomeLimit)
	}
	if l.ViewLimit < l.HomeLimit {
		return fmt.Errorf("limits.view_limit must be >= limits.home_limit, got %d < %d", l.ViewLimit, l.HomeLimit)
	}
	if l.MinResults <= 0 {
		return fmt.Errorf("limits.min_results must be positive, got %d", l.MinResults)
	}
	if l.MinAfterWidened < 0 || l.MinAfterWidened > l.MinResults {
		return fmt.Errorf("limits.min_after_widened must be in [0, min_results], got %d", l.MinAfterWidened)
	}
	if l.WeatherTopN < l.MinResults {
		return fmt.Errorf("limits.weather_top_n must be >= limits.min_results, got %d < %d", l.WeatherTopN, l.MinResults)
	}
	if l.CollabNeighbors <= 0 {
		return fmt.Errorf("limits.collab_neighbors must be positive, got %d", l.CollabNeighbors)
	}
	if l.CollabMinRating < 1 || l.CollabMinRating > 10 {
		return fmt.Errorf("limits.collab_min_rating must be in [1, 10], got %d", l.CollabMinRating)
	}
	if l.CollabMax < 0 {
		return fmt.Errorf("limits.collab_max must be non-negative, got %d", l.CollabMax)
	}
	if l.ContentTerms < 0 {
		return fmt.Errorf("limits.content_terms must be non-negative, got %d", l.ContentTerms)
	}
	if l.ContentMax < 0 {
		return fmt.Errorf("limits.content_max must be non-negative, got %d", l.ContentMax)
	}
	if l.StoreTimeout <= 0 {
		return fmt.Errorf("limits.store_timeout must be positive, got %v", l.StoreTimeout)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when enabled, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache.max_entries must be positive when enabled, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// nested structs hold only value types
	return &Config{
		Limits: c.Limits,
		Cache:  c.Cache,
		Seed:   c.Seed,
	}
}

// LimitFor returns the result cap for a view.
func (c *Config) LimitFor(v View) int {
	if v == ViewFull {
		return c.Limits.ViewLimit
	}
	return c.Limits.HomeLimit
}
