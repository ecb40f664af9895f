// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package api

import (
	"context"
	"time"

	"github.com/anuragksng/foodrec/internal/recommend"
)

// ReadinessCheck is one dependency probed by /health/ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Status reports supplementary state shown on the health endpoints.
type Status interface {
	BreakerState() string
	PendingWrites() int64
}

// Handler serves the HTTP API.
type Handler struct {
	engine  *recommend.Engine
	store   recommend.Store
	checks  []ReadinessCheck
	status  Status
	version string
	started time.Time
}

// Option configures a Handler.
type Option func(*Handler)

// WithReadinessCheck adds a dependency probe to /health/ready.
func WithReadinessCheck(name string, check func(ctx context.Context) error) Option {
	return func(h *Handler) {
		h.checks = append(h.checks, ReadinessCheck{Name: name, Check: check})
	}
}

// WithStatus reports breaker and journal state on the health endpoints.
func WithStatus(s Status) Option {
	return func(h *Handler) { h.status = s }
}

// WithVersion sets the version shown on /health/live.
func WithVersion(v string) Option {
	return func(h *Handler) { h.version = v }
}

// NewHandler creates a Handler. st must be the same store the engine reads,
// so profile and rating writes go through its caching and journaling layers.
func NewHandler(engine *recommend.Engine, st recommend.Store, opts ...Option) *Handler {
	h := &Handler{
		engine:  engine,
		store:   st,
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
