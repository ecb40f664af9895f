// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// tryGetCachedResponse attempts to retrieve a cached response.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(req Request, start time.Time, logger zerolog.Logger) *Response {
	if !e.config.Cache.Enabled {
		return nil
	}

	resp := e.checkCache(e.cacheKey(req))
	if resp == nil {
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)
	resp.Metadata.CacheHit = true
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	logger.Debug().Msg("cache hit")
	return resp
}

// cacheResponse stores the response in cache if enabled.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheResponse(req Request, resp *Response) {
	if e.config.Cache.Enabled {
		e.storeCache(e.cacheKey(req), resp)
	}
}

// cacheKey generates a cache key for a request.
//
//nolint:gocritic // hugeParam: req passed by value for simplicity
func (e *Engine) cacheKey(req Request) string {
	return fmt.Sprintf("rec:%d:%s:%s", req.UserID, req.Weather.String(), req.View.String())
}

// checkCache returns a copy of a live cached response, or nil.
func (e *Engine) checkCache(key string) *Response {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()

	entry, ok := e.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}

	return copyResponse(entry.response)
}

func copyResponse(resp *Response) *Response {
	items := make([]FoodItem, len(resp.Items))
	copy(items, resp.Items)

	meta := resp.Metadata
	meta.TiersUsed = append([]Tier(nil), resp.Metadata.TiersUsed...)
	meta.SkippedTiers = append([]Tier(nil), resp.Metadata.SkippedTiers...)

	return &Response{Items: items, Metadata: meta}
}

// storeCache stores a copy of resp in the cache.
func (e *Engine) storeCache(key string, resp *Response) {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	if len(e.cache) >= e.config.Cache.MaxEntries {
		e.evictExpiredLocked()
	}
	if len(e.cache) >= e.config.Cache.MaxEntries {
		e.evictOldestLocked()
	}

	e.cache[key] = cacheEntry{
		response:  copyResponse(resp),
		expiresAt: time.Now().Add(e.config.Cache.TTL),
	}
}

// InvalidateUser drops every cached response for userID.
func (e *Engine) InvalidateUser(userID int) {
	prefix := fmt.Sprintf("rec:%d:", userID)

	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	for key := range e.cache {
		if strings.HasPrefix(key, prefix) {
			delete(e.cache, key)
		}
	}
}

// InvalidateAll removes all cached entries.
func (e *Engine) InvalidateAll() {
	e.cacheMu.Lock()
	defer e.cacheMu.Unlock()

	e.cache = make(map[string]cacheEntry)
	e.logger.Debug().Msg("cache cleared")
}

// CacheSize returns the number of cached responses, expired ones included.
func (e *Engine) CacheSize() int {
	e.cacheMu.RLock()
	defer e.cacheMu.RUnlock()
	return len(e.cache)
}

// evictExpiredLocked removes expired cache entries.
// Must be called with cacheMu held.
func (e *Engine) evictExpiredLocked() {
	now := time.Now()
	for key, entry := range e.cache {
		if now.After(entry.expiresAt) {
			delete(e.cache, key)
		}
	}
}

// evictOldestLocked removes the entry closest to expiry.
// Must be called with cacheMu held.
func (e *Engine) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, entry := range e.cache {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey, oldest = key, entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(e.cache, oldestKey)
	}
}
