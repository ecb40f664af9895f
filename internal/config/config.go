// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/anuragksng/foodrec/internal/database"
	"github.com/anuragksng/foodrec/internal/events"
	"github.com/anuragksng/foodrec/internal/logging"
	"github.com/anuragksng/foodrec/internal/recommend"
	"github.com/anuragksng/foodrec/internal/store"
	"github.com/anuragksng/foodrec/internal/wal"
)

// Config holds the full service configuration.
type Config struct {
	Server    ServerConfig          `koanf:"server"`
	Database  database.Config       `koanf:"database"`
	Import    ImportConfig          `koanf:"import"`
	Store     store.ResilientConfig `koanf:"store"`
	Snapshot  store.SnapshotConfig  `koanf:"snapshot"`
	Recommend recommend.Config      `koanf:"recommend"`
	WAL       wal.Config            `koanf:"wal"`
	Events    events.Config         `koanf:"events"`
	Logging   logging.Config        `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed origins. "*" allows any origin.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitRequests per RateLimitWindow per client IP. Zero disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the server runs in production mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// ImportConfig controls the CSV seed import.
type ImportConfig struct {
	// Dir holds food.csv, user.csv, user_preferences.csv, ratings.csv and weather.csv.
	Dir string `koanf:"dir"`

	// OnStartup runs the import when the users table is empty.
	OnStartup bool `koanf:"on_startup"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			Environment:       "development",
		},
		Database: database.DefaultConfig(),
		Import: ImportConfig{
			Dir:       "/data/seed",
			OnStartup: true,
		},
		Store:     store.DefaultResilientConfig(),
		Snapshot:  store.DefaultSnapshotConfig(),
		Recommend: *recommend.DefaultConfig(),
		WAL:       wal.DefaultConfig(),
		Events:    events.DefaultConfig(),
		Logging:   logging.DefaultConfig(),
	}
}

// Validate checks every section and returns the first error.
func (c *Config) Validate() error {
	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Import.OnStartup && c.Import.Dir == "" {
		return fmt.Errorf("import: dir is required when on_startup is set")
	}
	if err := c.Store.Validate(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := c.Snapshot.Validate(); err != nil {
		return err
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if err := c.WAL.Validate(); err != nil {
		return err
	}
	if err := c.Events.Validate(); err != nil {
		return err
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging: unknown level %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging: format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (s *ServerConfig) validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", s.Timeout)
	}
	if s.RateLimitRequests < 0 {
		return fmt.Errorf("rate_limit_requests must be non-negative, got %d", s.RateLimitRequests)
	}
	if s.RateLimitRequests > 0 && s.RateLimitWindow <= 0 {
		return fmt.Errorf("rate_limit_window must be positive when rate limiting, got %v", s.RateLimitWindow)
	}
	switch s.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("environment must be development or production, got %q", s.Environment)
	}
	return nil
}
