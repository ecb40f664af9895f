// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

// Package main is the entry point for the foodrec server.
//
// # Startup order
//
//  1. Configuration: defaults, config file, environment (koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Store: DuckDB with optional CSV import, or an in-memory seed with --demo
//  4. Decorators: retry and circuit breaker, WAL journal, snapshot cache
//  5. Events: in-process or NATS change bus and the invalidator
//  6. Engine and HTTP API
//  7. Supervisor tree: data, events and api layers
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests, then the bus, journal and database are closed in
// reverse order.
//
// # Example Usage
//
//	CONFIG_PATH=/etc/foodrec/config.yaml ./foodrec
//	DUCKDB_PATH=/data/foodrec.duckdb IMPORT_DIR=/data/seed LOG_LEVEL=debug ./foodrec
//	./foodrec --demo
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/anuragksng/foodrec/internal/api"
	"github.com/anuragksng/foodrec/internal/config"
	"github.com/anuragksng/foodrec/internal/database"
	"github.com/anuragksng/foodrec/internal/events"
	"github.com/anuragksng/foodrec/internal/logging"
	"github.com/anuragksng/foodrec/internal/metrics"
	"github.com/anuragksng/foodrec/internal/recommend"
	"github.com/anuragksng/foodrec/internal/store"
	"github.com/anuragksng/foodrec/internal/supervisor"
	"github.com/anuragksng/foodrec/internal/supervisor/services"
	"github.com/anuragksng/foodrec/internal/wal"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// walGCInterval is how often the journal value log is compacted.
const walGCInterval = 5 * time.Minute

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	demo := flag.Bool("demo", false, "serve an in-memory demo catalog instead of DuckDB")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)
	logger := logging.Logger()
	metrics.SetAppInfo(version, runtime.Version())

	logging.Info().
		Str("version", version).
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Bool("demo", *demo).
		Msg("Starting foodrec")

	if cfg.Server.IsProduction() && slices.Contains(cfg.Server.CORSOrigins, "*") {
		logging.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Base store
	var (
		base   recommend.Store
		db     *database.DB
		checks []api.ReadinessCheck
	)
	if *demo {
		base = newDemoStore()
		logging.Warn().Msg("Demo mode: data is in memory and lost on exit")
	} else {
		db, err = database.Open(&cfg.Database, logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open database")
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing database")
			}
		}()
		logging.Info().Str("path", cfg.Database.Path).Msg("Database opened")

		if cfg.Import.OnStartup {
			importSeed(ctx, db, cfg.Import.Dir)
		}
		base = db
		checks = append(checks, api.ReadinessCheck{Name: "database", Check: db.Ping})
	}

	resilient := store.NewResilient(base, cfg.Store, logger)
	status := &runtimeStatus{breaker: resilient}

	// Write-ahead journal
	var (
		chain    recommend.Store = resilient
		journal  *wal.Journal
		replayer *wal.Replayer
	)
	if cfg.WAL.Enabled && !*demo {
		journal, err = wal.Open(&cfg.WAL, logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open WAL")
		}
		defer func() {
			if err := journal.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing WAL")
			}
		}()
		replayer = wal.NewReplayer(journal, resilient, cfg.WAL, logger)
		chain = store.NewJournaled(resilient, replayer, logger)
		status.journal = journal
		logging.Info().Str("path", cfg.WAL.Path).Int64("pending", journal.Stats().Pending).Msg("WAL opened")
	}

	// Change events
	var bus *events.Bus
	if cfg.Events.Enabled {
		bus, err = events.NewBus(&cfg.Events, logging.NewWatermillLogger(logger))
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to create event bus")
		}
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
		transport := "gochannel"
		if cfg.Events.NATSURL != "" {
			transport = "nats"
		}
		logging.Info().Str("transport", transport).Msg("Event bus ready")
	}

	var publisher store.Publisher
	if bus != nil {
		publisher = bus
	}
	cached := store.NewCached(chain, cfg.Snapshot, publisher, logger)
	defer cached.Close()

	// Engine
	engine, err := recommend.NewEngine(&cfg.Recommend, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	engine.SetStore(cached)
	engine.SetObserver(metrics.RecommendObserver{})

	if replayer != nil {
		replayer.OnApplied(replayInvalidation(publisher, logger, cached.Invalidate, engineInvalidation(engine)))
	}

	// HTTP
	opts := []api.Option{api.WithVersion(version), api.WithStatus(status)}
	for _, c := range checks {
		opts = append(opts, api.WithReadinessCheck(c.Name, c.Check))
	}
	handler := api.NewHandler(engine, cached, opts...)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		CORSMaxAge:         api.DefaultRouterConfig().CORSMaxAge,
		RateLimitRequests:  cfg.Server.RateLimitRequests,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
	}, logger)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	// Supervisor tree
	treeCfg := supervisor.DefaultTreeConfig()
	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(logger), treeCfg)

	if journal != nil {
		tree.AddDataService(replayer)
		tree.AddDataService(services.NewPeriodicService("wal-gc", walGCInterval, func(context.Context) error {
			return journal.RunGC()
		}, logger))
	}

	if bus != nil {
		inv := events.NewInvalidator(bus, logger)
		inv.Register(cached.Invalidate)
		inv.Register(engineInvalidation(engine))
		tree.AddEventService(inv)
	}

	tree.AddAPIService(services.NewHTTPServerService(server, treeCfg.ShutdownTimeout, logger))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("foodrec stopped")
}

// importSeed loads the CSV seed. Failures are logged and startup continues
// with whatever data the database already holds.
func importSeed(ctx context.Context, db *database.DB, dir string) {
	res, err := db.ImportCSV(ctx, dir)
	if err != nil {
		logging.Error().Err(err).Str("dir", dir).Msg("CSV import failed")
		return
	}
	if res.Skipped {
		logging.Info().Msg("CSV import skipped, users already present")
		return
	}
	logging.Info().
		Int("foods", res.Foods).
		Int("users", res.Users).
		Int("preferences", res.Preferences).
		Int("ratings", res.Ratings).
		Int("weather", res.Weather).
		Int("rejected", res.Rejected).
		Msg("CSV import completed")
}

// engineInvalidation drops cached responses affected by a change.
func engineInvalidation(engine *recommend.Engine) events.Handler {
	return func(_ context.Context, c events.Change) {
		switch c.Kind {
		case events.KindFeedback, events.KindSearch:
			if c.UserID > 0 {
				engine.InvalidateUser(c.UserID)
				return
			}
			engine.InvalidateAll()
		default:
			engine.InvalidateAll()
		}
	}
}

// replayedChange describes the change a replayed journal entry made.
//
//nolint:gocritic // Entry is read-only here
func replayedChange(e wal.Entry) events.Change {
	switch e.Kind {
	case wal.KindRating:
		return events.NewChange(events.KindRatings, e.UserID, e.FoodID)
	case wal.KindSearch:
		return events.NewChange(events.KindSearch, e.UserID, 0)
	default:
		return events.NewChange(events.KindFeedback, e.UserID, e.FoodID)
	}
}

// replayInvalidation runs the local handlers for every replayed entry and
// publishes the change so other instances drop their caches too.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func replayInvalidation(publisher store.Publisher, logger zerolog.Logger, handlers ...events.Handler) wal.AppliedFunc {
	return func(ctx context.Context, e wal.Entry) {
		c := replayedChange(e)
		for _, h := range handlers {
			h(ctx, c)
		}
		if publisher == nil {
			return
		}
		if err := publisher.Publish(ctx, c); err != nil {
			logger.Warn().Err(err).Str("kind", string(c.Kind)).Msg("failed to publish replayed change")
		}
	}
}

// runtimeStatus reports breaker state and WAL backlog to the readiness probe.
type runtimeStatus struct {
	breaker *store.Resilient
	journal *wal.Journal
}

func (s *runtimeStatus) BreakerState() string {
	return s.breaker.State()
}

func (s *runtimeStatus) PendingWrites() int64 {
	if s.journal == nil {
		return 0
	}
	return s.journal.Stats().Pending
}

var _ api.Status = (*runtimeStatus)(nil)
