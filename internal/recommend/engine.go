// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages. The
// Store interface lets the database and store packages plug in without
// import cycles, and Observer does the same for metrics.

// Observer receives pipeline events for metrics export.
type Observer interface {
	ObserveRequest(view string, cacheHit bool, err error, d time.Duration)
	ObserveTier(tier Tier, items int)
	ObserveTierSkipped(tier Tier)
	ObserveExcluded(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveRequest(string, bool, error, time.Duration) {}
func (nopObserver) ObserveTier(Tier, int)                             {}
func (nopObserver) ObserveTierSkipped(Tier)                           {}
func (nopObserver) ObserveExcluded(int)                               {}

// Engine runs the recommendation pipeline. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	// mu guards store, observer and sampler; all three may be swapped while
	// requests are in flight.
	mu       sync.RWMutex
	store    Store
	observer Observer

	// Random padding source, seeded for determinism
	sampler Sampler

	requestCount  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	errorCount    atomic.Int64
	fallbackCount atomic.Int64
	excludedCount atomic.Int64

	cache   map[string]cacheEntry
	cacheMu sync.RWMutex
}

// cacheEntry holds a cached recommendation response.
type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		observer: nopObserver{},
		sampler:  NewSeededSampler(seed),
		cache:    make(map[string]cacheEntry),
	}, nil
}

// SetStore sets the persistence collaborator.
func (e *Engine) SetStore(s Store) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.store = s
}

// SetObserver installs a metrics observer. A nil observer disables observation.
func (e *Engine) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observer = o
}

// SetSampler replaces the random padding source.
func (e *Engine) SetSampler(s Sampler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sampler = s
}

func (e *Engine) getObserver() Observer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.observer
}

func (e *Engine) getSampler() Sampler {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sampler
}

func (e *Engine) getStore() (Store, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store, nil
}

// GenerateRecommendations returns recommendations for the home feed or the
// full view. Results may come from the response cache.
func (e *Engine) GenerateRecommendations(ctx context.Context, userID int, weather WeatherType, view View) ([]FoodItem, error) {
	resp, err := e.Recommend(ctx, Request{UserID: userID, Weather: weather, View: view})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// RefreshRecommendations recomputes recommendations from fresh store reads and
// replaces the cached response.
func (e *Engine) RefreshRecommendations(ctx context.Context, userID int, weather WeatherType, view View) ([]FoodItem, error) {
	resp, err := e.Recommend(ctx, Request{UserID: userID, Weather: weather, View: view, Fresh: true})
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Recommend generates recommendations for a user.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)
	logger.Debug().Msg("processing recommendation request")

	observer := e.getObserver()
	if !req.Fresh {
		if resp := e.tryGetCachedResponse(req, start, logger); resp != nil {
			observer.ObserveRequest(req.View.String(), true, nil, time.Since(start))
			return resp, nil
		}
	}

	resp, err := e.compute(ctx, req, start, logger)
	observer.ObserveRequest(req.View.String(), false, err, time.Since(start))
	if err != nil {
		e.errorCount.Add(1)
		logger.Warn().Err(err).Msg("recommendation failed")
		return nil, err
	}

	e.cacheResponse(req, resp)

	logger.Debug().
		Int("returned", len(resp.Items)).
		Strs("tiers", tierNames(resp.Metadata.TiersUsed)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	return resp, nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = "rec-" + uuid.NewString()
	}
	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Str("weather", req.Weather.String()).
		Str("view", req.View.String()).
		Logger()
}

// pipelineInput holds the required reads of one computation.
type pipelineInput struct {
	catalog  []FoodItem
	excluded int
	profile  *UserProfile
	feedback Feedback
}

// compute loads the required inputs and runs the tiered pipeline.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) compute(ctx context.Context, req Request, start time.Time, logger zerolog.Logger) (*Response, error) {
	st, err := e.getStore()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Limits.StoreTimeout)
	defer cancel()
	if req.Fresh {
		ctx = WithFreshRead(ctx)
	}

	in, err := e.loadInput(ctx, st, req.UserID, logger)
	if err != nil {
		return nil, err
	}

	items, meta := e.runPipeline(ctx, st, req, in, logger)
	meta.RequestID = req.RequestID
	meta.UserID = req.UserID
	meta.Weather = req.Weather.String()
	meta.View = req.View.String()
	meta.Excluded = in.excluded
	meta.LatencyMS = time.Since(start).Milliseconds()
	meta.Timestamp = time.Now()

	return &Response{Items: items, Metadata: meta}, nil
}

// loadInput reads catalog, profile and feedback. Any failure is surfaced.
func (e *Engine) loadInput(ctx context.Context, st Store, userID int, logger zerolog.Logger) (*pipelineInput, error) {
	raw, err := st.GetCatalog(ctx)
	if err != nil {
		return nil, storeError("get catalog", err)
	}

	profile, err := st.GetUserProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, err)
		}
		return nil, storeError("get user profile", err)
	}

	fb, err := st.GetFeedback(ctx, userID)
	if err != nil {
		return nil, storeError("get feedback", err)
	}

	catalog, excluded := e.validCatalog(raw, logger)
	if !profile.Diet.Valid() {
		logger.Warn().
			Str("diet", string(profile.Diet)).
			Msg("user has no usable diet; nothing can pass the diet gate")
	}

	return &pipelineInput{
		catalog:  catalog,
		excluded: excluded,
		profile:  profile,
		feedback: fb,
	}, nil
}

// validCatalog drops records that fail validation and logs each as a data-quality error.
func (e *Engine) validCatalog(raw []FoodItem, logger zerolog.Logger) ([]FoodItem, int) {
	valid := make([]FoodItem, 0, len(raw))
	excluded := 0
	for i := range raw {
		if err := raw[i].Validate(); err != nil {
			excluded++
			logger.Debug().Err(err).Msg("excluding catalog record")
			continue
		}
		valid = append(valid, raw[i])
	}
	if excluded > 0 {
		e.excludedCount.Add(int64(excluded))
		e.getObserver().ObserveExcluded(excluded)
		logger.Warn().Int("excluded", excluded).Msg("catalog records excluded for data quality")
	}
	return valid, excluded
}

// runPipeline runs the tiers, merges them in priority order and applies the
// fallback chain. Optional tiers that fail are skipped.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) runPipeline(ctx context.Context, st Store, req Request, in *pipelineInput, logger zerolog.Logger) ([]FoodItem, ResponseMetadata) {
	var meta ResponseMetadata
	observer, sampler := e.getObserver(), e.getSampler()
	limits := e.config.Limits
	diet := in.profile.Diet
	fb := in.feedback
	pref := in.profile.PreferenceFor(req.Weather)

	// 1. weather
	weather := ScoreByWeather(in.catalog, req.Weather, pref, fb, limits.WeatherTopN, limits.MinResults, sampler)
	meta.WeatherFallback = weather.UsedFallback
	weatherItems := FilterCompatible(weather.Items, diet)

	// 2. collaborative
	var collabItems []FoodItem
	if len(fb.Liked) > 0 {
		items, err := e.collaborativeTier(ctx, st, req.UserID, fb, in.catalog)
		if err != nil {
			meta.SkippedTiers = append(meta.SkippedTiers, TierCollaborative)
			observer.ObserveTierSkipped(TierCollaborative)
			logger.Warn().Err(err).Msg("collaborative tier skipped")
		}
		collabItems = FilterCompatible(items, diet)
	}

	// 3. content
	contentItems, err := e.contentTier(ctx, st, req.UserID, fb)
	if err != nil {
		meta.SkippedTiers = append(meta.SkippedTiers, TierContent)
		observer.ObserveTierSkipped(TierContent)
		logger.Warn().Err(err).Msg("content tier skipped")
	}
	contentItems = FilterCompatible(contentItems, diet)

	// 4-5. merge and gate
	m := newMerger(fb, diet)
	m.add(TierCollaborative, collabItems)
	m.add(TierContent, contentItems)
	m.add(TierWeather, weatherItems)

	// 6. widened
	if m.len() < limits.MinResults {
		wide := ScoreByWeather(in.catalog, WeatherAny, pref, fb, limits.WeatherTopN, limits.MinResults, sampler)
		m.add(TierWidened, FilterCompatible(wide.Items, diet))
		e.fallbackCount.Add(1)
	}

	// 7. random
	if m.len() < limits.MinAfterWidened {
		pool := make([]FoodItem, 0, len(in.catalog))
		for _, f := range FilterCompatible(in.catalog, diet) {
			if !m.has(f.ID) && !fb.IsDisliked(f.ID) {
				pool = append(pool, f)
			}
		}
		m.add(TierRandom, sampler.Sample(pool, limits.MinResults-m.len()))
		e.fallbackCount.Add(1)
	}

	// 8. final gate and cap
	final := FilterCompatible(m.items, diet)
	if limit := e.config.LimitFor(req.View); len(final) > limit {
		final = final[:limit]
	}

	meta.TiersUsed = m.tiersUsed()
	for tier, n := range m.counts {
		observer.ObserveTier(tier, n)
	}
	return final, meta
}

func (e *Engine) collaborativeTier(ctx context.Context, st Store, userID int, fb Feedback, catalog []FoodItem) ([]FoodItem, error) {
	matrix, err := st.GetRatingMatrix(ctx)
	if err != nil {
		return nil, fmt.Errorf("get rating matrix: %w", err)
	}
	byID := make(map[int]FoodItem, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = catalog[i]
	}
	l := e.config.Limits
	return CollaborativeRecommend(userID, fb, matrix, byID, CollabParams{
		Neighbors: l.CollabNeighbors,
		MinRating: l.CollabMinRating,
		Max:       l.CollabMax,
	}), nil
}

//nolint:gocritic // hugeParam: fb is a small value type
func (e *Engine) contentTier(ctx context.Context, st Store, userID int, fb Feedback) ([]FoodItem, error) {
	l := e.config.Limits
	if l.ContentTerms == 0 {
		return nil, nil
	}
	terms, err := st.GetRecentSearches(ctx, userID, l.ContentTerms)
	if err != nil {
		return nil, fmt.Errorf("get recent searches: %w", err)
	}
	if len(terms) == 0 {
		return nil, nil
	}
	searcher := func(ctx context.Context, term string) ([]FoodItem, error) {
		hits, err := st.SearchCatalog(ctx, term)
		if err != nil {
			return nil, err
		}
		valid := make([]FoodItem, 0, len(hits))
		for i := range hits {
			if hits[i].Validate() == nil {
				valid = append(valid, hits[i])
			}
		}
		return valid, nil
	}
	return ContentRecommend(ctx, terms, fb, searcher, l.ContentTerms, l.ContentMax)
}

// Search returns diet-compatible catalog matches for term and records the
// term in the user's search history. Recording is best-effort.
func (e *Engine) Search(ctx context.Context, term string, userID int) ([]FoodItem, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []FoodItem{}, nil
	}

	st, err := e.getStore()
	if err != nil {
		return nil, err
	}
	logger := e.logger.With().Int("user_id", userID).Str("term", term).Logger()

	profile, err := st.GetUserProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, err)
		}
		return nil, storeError("get user profile", err)
	}

	if err := st.RecordSearch(ctx, userID, term); err != nil {
		logger.Warn().Err(err).Msg("failed to record search term")
	} else {
		e.InvalidateUser(userID)
	}

	hits, err := st.SearchCatalog(ctx, term)
	if err != nil {
		return nil, storeError("search catalog", err)
	}

	valid, _ := e.validCatalog(hits, logger)
	return FilterCompatible(valid, profile.Diet), nil
}

// RecordFeedback stores a like or dislike. The food must exist in the catalog.
func (e *Engine) RecordFeedback(ctx context.Context, userID, foodID int, status FeedbackStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFeedback, status)
	}

	st, err := e.getStore()
	if err != nil {
		return err
	}

	if _, err := e.GetFood(ctx, foodID); err != nil {
		return err
	}

	if err := st.RecordFeedback(ctx, userID, foodID, status); err != nil {
		return storeError("record feedback", err)
	}

	e.InvalidateUser(userID)
	e.logger.Debug().
		Int("user_id", userID).
		Int("food_id", foodID).
		Str("status", string(status)).
		Msg("feedback recorded")
	return nil
}

// GetFeedback returns the user's liked and disliked ids.
func (e *Engine) GetFeedback(ctx context.Context, userID int) (Feedback, error) {
	st, err := e.getStore()
	if err != nil {
		return Feedback{}, err
	}
	fb, err := st.GetFeedback(ctx, userID)
	if err != nil {
		return Feedback{}, storeError("get feedback", err)
	}
	return fb, nil
}

// GetFood returns one valid catalog record.
func (e *Engine) GetFood(ctx context.Context, foodID int) (FoodItem, error) {
	st, err := e.getStore()
	if err != nil {
		return FoodItem{}, err
	}
	catalog, err := st.GetCatalog(ctx)
	if err != nil {
		return FoodItem{}, storeError("get catalog", err)
	}
	for i := range catalog {
		if catalog[i].ID != foodID {
			continue
		}
		if err := catalog[i].Validate(); err != nil {
			return FoodItem{}, fmt.Errorf("food %d: %w: %w", foodID, ErrFoodNotFound, err)
		}
		return catalog[i], nil
	}
	return FoodItem{}, fmt.Errorf("food %d: %w", foodID, ErrFoodNotFound)
}

// GetMetrics returns the current engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount:  e.requestCount.Load(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		ErrorCount:    e.errorCount.Load(),
		FallbackCount: e.fallbackCount.Load(),
		ExcludedCount: e.excludedCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// storeError wraps err so callers can match ErrStoreUnavailable.
func storeError(op string, err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

func tierNames(tiers []Tier) []string {
	out := make([]string, len(tiers))
	for i, t := range tiers {
		out[i] = string(t)
	}
	return out
}

// merger accumulates tier output in priority order. First occurrence wins,
// disliked ids and diet violations never enter.
type merger struct {
	fb     Feedback
	diet   DietType
	items  []FoodItem
	seen   map[int]struct{}
	counts map[Tier]int
	order  []Tier
}

//nolint:gocritic // hugeParam: fb is a small value type
func newMerger(fb Feedback, diet DietType) *merger {
	return &merger{
		fb:     fb,
		diet:   diet,
		seen:   make(map[int]struct{}),
		counts: make(map[Tier]int),
	}
}

func (m *merger) add(tier Tier, items []FoodItem) {
	for i := range items {
		id := items[i].ID
		if m.has(id) || m.fb.IsDisliked(id) || !IsCompatible(m.diet, items[i].Diet) {
			continue
		}
		m.seen[id] = struct{}{}
		m.items = append(m.items, items[i])
		if m.counts[tier] == 0 {
			m.order = append(m.order, tier)
		}
		m.counts[tier]++
	}
}

func (m *merger) has(id int) bool {
	_, ok := m.seen[id]
	return ok
}

func (m *merger) len() int { return len(m.items) }

func (m *merger) tiersUsed() []Tier {
	out := make([]Tier, len(m.order))
	copy(out, m.order)
	return out
}
