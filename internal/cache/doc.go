// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package cache provides a thread-safe in-memory cache with TTL support.

The store layer keeps read snapshots here (catalog, rating matrix, weather
food types) so repeated recommendation calls do not hit the database.
Snapshots are invalidated on every write and on change events from other
instances.

# Overview

  - Thread-safe concurrent access (sync.RWMutex)
  - Time-to-live expiration, checked lazily on Get and swept periodically
  - Typed values through generics
  - Prefix invalidation for per-user keys
  - Hit, miss and eviction statistics

# Usage

	c := cache.New[[]recommend.FoodItem](time.Minute)
	defer c.Close()

	c.Set("catalog", foods)
	if foods, ok := c.Get("catalog"); ok {
	    return foods, nil
	}
*/
package cache
