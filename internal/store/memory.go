// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anuragksng/foodrec/internal/recommend"
)

// Memory is a map-backed store. All methods are safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	foods    map[int]recommend.FoodItem
	weather  map[recommend.WeatherType][]string
	profiles map[int]*recommend.UserProfile
	feedback map[int]map[int]recommend.FeedbackStatus
	searches map[int][]recommend.SearchEvent
	ratings  recommend.RatingMatrix
	now      func() time.Time
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		foods:    make(map[int]recommend.FoodItem),
		weather:  make(map[recommend.WeatherType][]string),
		profiles: make(map[int]*recommend.UserProfile),
		feedback: make(map[int]map[int]recommend.FeedbackStatus),
		searches: make(map[int][]recommend.SearchEvent),
		ratings:  make(recommend.RatingMatrix),
		now:      time.Now,
	}
}

// GetCatalog returns every food ordered by id.
func (m *Memory) GetCatalog(ctx context.Context) ([]recommend.FoodItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]recommend.FoodItem, 0, len(m.foods))
	for _, f := range m.foods {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetWeatherFoodTypes returns the preferred food types listed for w.
func (m *Memory) GetWeatherFoodTypes(ctx context.Context, w recommend.WeatherType) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.weather[w]...), nil
}

// SetWeatherFoodTypes replaces the food types listed for w.
func (m *Memory) SetWeatherFoodTypes(w recommend.WeatherType, types []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weather[w] = append([]string(nil), types...)
}

// GetUserProfile returns a copy of the stored profile.
func (m *Memory) GetUserProfile(ctx context.Context, userID int) (*recommend.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, recommend.ErrUserNotFound)
	}
	return copyProfile(p), nil
}

// UpsertProfile stores a copy of p.
func (m *Memory) UpsertProfile(ctx context.Context, p *recommend.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = copyProfile(p)
	return nil
}

// GetFeedback returns the user's liked and disliked sets.
func (m *Memory) GetFeedback(ctx context.Context, userID int) (recommend.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return recommend.Feedback{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var liked, disliked []int
	for foodID, status := range m.feedback[userID] {
		if status == recommend.StatusDisliked {
			disliked = append(disliked, foodID)
		} else {
			liked = append(liked, foodID)
		}
	}
	return recommend.NewFeedback(liked, disliked), nil
}

// RecordFeedback upserts the status for (userID, foodID).
func (m *Memory) RecordFeedback(ctx context.Context, userID, foodID int, status recommend.FeedbackStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, recommend.ErrInvalidFeedback)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.feedback[userID]
	if !ok {
		row = make(map[int]recommend.FeedbackStatus)
		m.feedback[userID] = row
	}
	row[foodID] = status
	return nil
}

// GetRecentSearches returns up to limit terms, most recent first.
func (m *Memory) GetRecentSearches(ctx context.Context, userID, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	log := m.searches[userID]
	terms := make([]string, 0, limit)
	for i := len(log) - 1; i >= 0 && len(terms) < limit; i-- {
		terms = append(terms, log[i].Term)
	}
	return terms, nil
}

// RecordSearch appends term to the user's search log.
func (m *Memory) RecordSearch(ctx context.Context, userID int, term string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[userID] = append(m.searches[userID], recommend.SearchEvent{
		UserID: userID,
		Term:   term,
		At:     m.now(),
	})
	return nil
}

// GetRatingMatrix returns a deep copy of the ratings.
func (m *Memory) GetRatingMatrix(ctx context.Context) (recommend.RatingMatrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ratings.Clone(), nil
}

// RecordRating sets one cell of the rating matrix.
func (m *Memory) RecordRating(ctx context.Context, userID, foodID, rating int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings.Set(userID, foodID, rating)
	return nil
}

// UpsertFood inserts or replaces a catalog record.
//
//nolint:gocritic // hugeParam: FoodItem is passed by value across the engine
func (m *Memory) UpsertFood(ctx context.Context, f recommend.FoodItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.foods[f.ID] = f
	return nil
}

// SearchCatalog matches term against name, cuisine, category and description.
// A multi-word term with no hits is retried word by word.
func (m *Memory) SearchCatalog(ctx context.Context, term string) ([]recommend.FoodItem, error) {
	catalog, err := m.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	hits := matchAll(catalog, term)
	if len(hits) > 0 {
		return hits, nil
	}

	seen := make(map[int]struct{})
	for _, word := range FallbackWords(term) {
		for _, f := range matchAll(catalog, word) {
			if _, dup := seen[f.ID]; dup {
				continue
			}
			seen[f.ID] = struct{}{}
			hits = append(hits, f)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	return hits, nil
}

// FallbackWords splits a multi-word query into the words longer than two
// characters. Single-word queries have no fallback.
func FallbackWords(term string) []string {
	fields := strings.Fields(term)
	if len(fields) < 2 {
		return nil
	}
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

func matchAll(catalog []recommend.FoodItem, term string) []recommend.FoodItem {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := []recommend.FoodItem{}
	if needle == "" {
		return out
	}
	for i := range catalog {
		f := &catalog[i]
		if strings.Contains(strings.ToLower(f.Name), needle) ||
			strings.Contains(strings.ToLower(f.Cuisine), needle) ||
			strings.Contains(strings.ToLower(f.Category), needle) ||
			strings.Contains(strings.ToLower(f.Description), needle) {
			out = append(out, *f)
		}
	}
	return out
}

func copyProfile(p *recommend.UserProfile) *recommend.UserProfile {
	cp := &recommend.UserProfile{
		ID:          p.ID,
		Diet:        p.Diet,
		Preferences: make(map[recommend.WeatherType]recommend.Preference, len(p.Preferences)),
		Allergies:   append([]string(nil), p.Allergies...),
	}
	for w, pref := range p.Preferences {
		cp.Preferences[w] = pref
	}
	return cp
}

var (
	_ recommend.Store         = (*Memory)(nil)
	_ recommend.ProfileWriter = (*Memory)(nil)
	_ recommend.RatingWriter  = (*Memory)(nil)
	_ recommend.CatalogWriter = (*Memory)(nil)
)
