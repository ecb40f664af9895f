// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

// Package recommend implements the weather-aware food recommendation engine.
//
// # Architecture
//
// A recommendation is the merge of three independent scorers, followed by a
// fallback chain that guarantees a minimum result size:
//
//   - Weather: nearest-neighbour match of a user's per-weather spice and
//     sugar preference against foods tagged for the active weather
//   - Collaborative: cosine-similar users' highly rated foods
//   - Content: catalog keyword search over the user's recent searches
//
// Results are merged in the order collaborative, content, weather, then
// deduplicated. When fewer than MinResults remain, the weather scorer is
// re-run without the weather restriction (the widened tier). When fewer than
// MinAfterWidened remain after that, the result is filled with a random
// sample of the catalog.
//
// # Diet Gate
//
// Every tier output, every merge and the final list pass through a two-value
// diet gate: a vegetarian user only ever sees vegetarian foods. Foods whose
// diet cannot be parsed are data-quality errors and are never shown.
//
// # Determinism
//
// Random padding draws from a seeded source. Equal seeds and equal store
// contents produce identical results. Ties are always broken by ascending id.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	engine.SetStore(store)
//
//	resp, err := engine.Generate(ctx, recommend.Request{
//	    UserID:  12,
//	    Weather: recommend.WeatherCold,
//	    View:    recommend.ViewHome,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. The random source is guarded by a
// mutex and the response cache by a read-write lock.
package recommend
