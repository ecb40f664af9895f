// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package wal

import (
	"fmt"
	"time"
)

// Config holds journal settings.
type Config struct {
	// Enabled controls whether signal writes are journaled.
	Enabled bool `koanf:"enabled" json:"enabled"`

	// Path is the BadgerDB directory.
	Path string `koanf:"path" json:"path"`

	// SyncWrites fsyncs every append.
	SyncWrites bool `koanf:"sync_writes" json:"sync_writes"`

	// ReplayInterval is the time between replay passes.
	ReplayInterval time.Duration `koanf:"replay_interval" json:"replay_interval"`

	// MaxAttempts drops an entry after this many failed replays. Zero keeps
	// retrying forever.
	MaxAttempts int `koanf:"max_attempts" json:"max_attempts"`

	// GCRatio is the value log GC discard ratio.
	GCRatio float64 `koanf:"gc_ratio" json:"gc_ratio"`

	// InMemory runs Badger without files. Intended for tests.
	InMemory bool `koanf:"-" json:"-"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Path:           "/data/wal",
		SyncWrites:     true,
		ReplayInterval: 10 * time.Second,
		MaxAttempts:    100,
		GCRatio:        0.5,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Path == "" && !c.InMemory {
		return fmt.Errorf("wal.path is required when the WAL is enabled")
	}
	if c.ReplayInterval < 100*time.Millisecond {
		return fmt.Errorf("wal.replay_interval must be at least 100ms, got %v", c.ReplayInterval)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("wal.max_attempts must be non-negative, got %d", c.MaxAttempts)
	}
	if c.GCRatio <= 0 || c.GCRatio >= 1 {
		return fmt.Errorf("wal.gc_ratio must be in (0, 1), got %v", c.GCRatio)
	}
	return nil
}
