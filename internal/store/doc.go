// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package store provides recommend.Store implementations and decorators.

Memory is a complete in-process store used by tests and demo mode. The
decorators wrap any recommend.Store and compose from the inside out:

	var s recommend.Store = db                       // database.Store
	s = store.NewResilient(s, cfg.Retry, cfg.Breaker) // retry + circuit breaker
	s = store.NewJournaled(s, replayer, logger)       // WAL for signal writes
	s = store.NewCached(s, cfg.Cache, bus, logger)    // snapshot cache + events

Resilient turns exhausted retries and an open breaker into errors wrapping
recommend.ErrStoreUnavailable. Domain errors such as recommend.ErrUserNotFound
are never retried.

Cached keeps catalog, weather table and rating matrix snapshots. Writes
through the decorator drop the affected snapshot and publish a change event
so other instances can do the same. Contexts marked with
recommend.WithFreshRead skip the snapshot.
*/
package store
