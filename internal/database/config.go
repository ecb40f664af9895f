// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package database

import (
	"fmt"
	"strings"
)

// Config holds DuckDB settings.
type Config struct {
	// Path is the database file. ":memory:" or "" opens an in-memory database.
	Path string `koanf:"path" json:"path"`

	// Threads for DuckDB. Zero means runtime.NumCPU().
	Threads int `koanf:"threads" json:"threads"`

	// MaxMemory is a DuckDB memory limit such as "1GB".
	MaxMemory string `koanf:"max_memory" json:"max_memory"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Path:      "/data/foodrec.duckdb",
		MaxMemory: "1GB",
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Threads < 0 {
		return fmt.Errorf("database.threads must be non-negative, got %d", c.Threads)
	}
	if strings.TrimSpace(c.MaxMemory) == "" {
		return fmt.Errorf("database.max_memory is required")
	}
	return nil
}

func (c *Config) inMemory() bool {
	return c.Path == "" || c.Path == ":memory:"
}
