// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PeriodicService runs a job on a fixed interval. Job errors are logged and
// do not stop the service.
type PeriodicService struct {
	name     string
	interval time.Duration
	job      func(ctx context.Context) error
	logger   zerolog.Logger
}

// NewPeriodicService creates a periodic service. A non-positive interval
// becomes one minute.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewPeriodicService(name string, interval time.Duration, job func(ctx context.Context) error, logger zerolog.Logger) *PeriodicService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &PeriodicService{
		name:     name,
		interval: interval,
		job:      job,
		logger:   logger.With().Str("component", name).Logger(),
	}
}

// Serve runs the job every interval until ctx is canceled.
func (p *PeriodicService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := p.job(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("Periodic job failed")
				continue
			}
			p.logger.Debug().Dur("duration", time.Since(start)).Msg("Periodic job completed")
		}
	}
}

// String names the service in supervisor logs.
func (p *PeriodicService) String() string {
	return p.name
}
