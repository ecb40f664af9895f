// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
)

// TestDefaultConfig verifies that defaultConfig() returns valid defaults
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %q, want 0.0.0.0:8080", cfg.Server.Addr())
	}
	if cfg.Database.Path != "/data/foodrec.duckdb" {
		t.Errorf("Database.Path = %q, want /data/foodrec.duckdb", cfg.Database.Path)
	}
	if cfg.Recommend.Limits.HomeLimit != 10 || cfg.Recommend.Limits.ViewLimit != 15 {
		t.Errorf("Recommend limits = %d/%d, want 10/15",
			cfg.Recommend.Limits.HomeLimit, cfg.Recommend.Limits.ViewLimit)
	}
	if cfg.Events.NATSURL != "" {
		t.Errorf("Events.NATSURL should be empty by default, got %q", cfg.Events.NATSURL)
	}
	if cfg.Server.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port must be between"},
		{"bad timeout", func(c *Config) { c.Server.Timeout = 0 }, "timeout must be positive"},
		{"rate window", func(c *Config) { c.Server.RateLimitWindow = 0 }, "rate_limit_window"},
		{"rate disabled", func(c *Config) { c.Server.RateLimitRequests = 0; c.Server.RateLimitWindow = 0 }, ""},
		{"environment", func(c *Config) { c.Server.Environment = "staging" }, "environment must be"},
		{"import dir", func(c *Config) { c.Import.Dir = "" }, "import: dir is required"},
		{"import off", func(c *Config) { c.Import.Dir = ""; c.Import.OnStartup = false }, ""},
		{"db memory", func(c *Config) { c.Database.MaxMemory = "" }, "database.max_memory"},
		{"retry", func(c *Config) { c.Store.Retry.MaxAttempts = 0 }, "store: retry.max_attempts"},
		{"snapshot", func(c *Config) { c.Snapshot.TTL = 0 }, "snapshot.ttl"},
		{"recommend", func(c *Config) { c.Recommend.Limits.HomeLimit = 0 }, "recommend: limits.home_limit"},
		{"wal path", func(c *Config) { c.WAL.Path = "" }, "wal.path"},
		{"wal disabled", func(c *Config) { c.WAL.Enabled = false; c.WAL.Path = "" }, ""},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "unknown level"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "format must be json or console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"NATS_URL", "events.nats_url"},
		{"LOG_LEVEL", "logging.level"},
		{"RECOMMEND_CACHE_TTL", "recommend.cache.ttl"},
		{"HOME", ""},
		{"PATH", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestProcessSliceFields(t *testing.T) {
	t.Parallel()

	k := koanf.New(".")
	if err := k.Set("server.cors_origins", " https://a.example , ,https://b.example"); err != nil {
		t.Fatal(err)
	}
	if err := processSliceFields(k); err != nil {
		t.Fatalf("processSliceFields: %v", err)
	}
	got := k.Strings("server.cors_origins")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("cors_origins = %v", got)
	}
}

// TestLoad_EnvOverridesFile exercises all three layers.
// Not parallel: uses t.Setenv.
func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
server:
  port: 9000
  environment: production
recommend:
  limits:
    home_limit: 8
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("CORS_ORIGINS", "https://foodrec.example,https://admin.foodrec.example")
	t.Setenv("RECOMMEND_CACHE_TTL", "45s")
	t.Setenv("NATS_URL", "nats://nats:4222")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100 (env wins)", cfg.Server.Port)
	}
	if !cfg.Server.IsProduction() {
		t.Error("Server.Environment should come from file")
	}
	if cfg.Recommend.Limits.HomeLimit != 8 {
		t.Errorf("HomeLimit = %d, want 8", cfg.Recommend.Limits.HomeLimit)
	}
	if cfg.Recommend.Limits.ViewLimit != 15 {
		t.Errorf("ViewLimit = %d, want default 15", cfg.Recommend.Limits.ViewLimit)
	}
	if cfg.Recommend.Cache.TTL != 45*time.Second {
		t.Errorf("Cache.TTL = %v, want 45s", cfg.Recommend.Cache.TTL)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v, want 2 entries", cfg.Server.CORSOrigins)
	}
	if cfg.Events.NATSURL != "nats://nats:4222" {
		t.Errorf("Events.NATSURL = %q", cfg.Events.NATSURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("HTTP_PORT", "70000")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Load() = %v, want invalid configuration error", err)
	}
}
