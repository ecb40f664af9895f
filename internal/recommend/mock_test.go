// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// mockStore implements Store for testing.
type mockStore struct {
	mu sync.Mutex

	catalog      []FoodItem
	weatherFoods map[WeatherType][]string
	profiles     map[int]*UserProfile
	feedback     map[int]Feedback
	ratings      RatingMatrix
	searches     map[int][]string // most recent first

	catalogErr  error
	profileErr  error
	feedbackErr error
	ratingsErr  error
	searchesErr error
	searchErr   error
	recordErr   error

	catalogCalls int32
	freshReads   int32
}

func newMockStore(catalog ...FoodItem) *mockStore {
	return &mockStore{
		catalog:  catalog,
		profiles: make(map[int]*UserProfile),
		feedback: make(map[int]Feedback),
		ratings:  make(RatingMatrix),
		searches: make(map[int][]string),
	}
}

func (m *mockStore) addUser(id int, diet DietType) *UserProfile {
	p := &UserProfile{ID: id, Diet: diet, Preferences: make(map[WeatherType]Preference)}
	m.profiles[id] = p
	return p
}

func (m *mockStore) GetCatalog(ctx context.Context) ([]FoodItem, error) {
	atomic.AddInt32(&m.catalogCalls, 1)
	if IsFreshRead(ctx) {
		atomic.AddInt32(&m.freshReads, 1)
	}
	if m.catalogErr != nil {
		return nil, m.catalogErr
	}
	out := make([]FoodItem, len(m.catalog))
	copy(out, m.catalog)
	return out, nil
}

func (m *mockStore) GetWeatherFoodTypes(ctx context.Context, w WeatherType) ([]string, error) {
	return m.weatherFoods[w], nil
}

func (m *mockStore) GetUserProfile(ctx context.Context, userID int) (*UserProfile, error) {
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return p, nil
}

func (m *mockStore) GetFeedback(ctx context.Context, userID int) (Feedback, error) {
	if m.feedbackErr != nil {
		return Feedback{}, m.feedbackErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fb, ok := m.feedback[userID]
	if !ok {
		return NewFeedback(nil, nil), nil
	}
	return NewFeedback(fb.LikedIDs(), fb.DislikedIDs()), nil
}

func (m *mockStore) RecordFeedback(ctx context.Context, userID, foodID int, status FeedbackStatus) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	fb, ok := m.feedback[userID]
	if !ok {
		fb = NewFeedback(nil, nil)
		m.feedback[userID] = fb
	}
	delete(fb.Liked, foodID)
	delete(fb.Disliked, foodID)
	if status == StatusLiked {
		fb.Liked[foodID] = struct{}{}
	} else {
		fb.Disliked[foodID] = struct{}{}
	}
	return nil
}

func (m *mockStore) GetRecentSearches(ctx context.Context, userID, limit int) ([]string, error) {
	if m.searchesErr != nil {
		return nil, m.searchesErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	terms := m.searches[userID]
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return append([]string(nil), terms...), nil
}

func (m *mockStore) RecordSearch(ctx context.Context, userID int, term string) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches[userID] = append([]string{term}, m.searches[userID]...)
	return nil
}

func (m *mockStore) GetRatingMatrix(ctx context.Context) (RatingMatrix, error) {
	if m.ratingsErr != nil {
		return nil, m.ratingsErr
	}
	return m.ratings.Clone(), nil
}

func (m *mockStore) SearchCatalog(ctx context.Context, term string) ([]FoodItem, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	needle := strings.ToLower(term)
	var out []FoodItem
	for _, f := range m.catalog {
		hay := strings.ToLower(f.Name + "\x00" + f.Cuisine + "\x00" + f.Category + "\x00" + f.Description)
		if strings.Contains(hay, needle) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// fixedSampler returns the first k pool items, making padding predictable.
type fixedSampler struct{}

func (fixedSampler) Sample(pool []FoodItem, k int) []FoodItem {
	if k > len(pool) {
		k = len(pool)
	}
	if k <= 0 {
		return nil
	}
	return append([]FoodItem(nil), pool[:k]...)
}

func veg(id, spice, sugar int, w WeatherType) FoodItem {
	return FoodItem{ID: id, Name: "veg dish", Diet: DietVegetarian, Spice: spice, Sugar: sugar, Weather: w, Category: "Main Course"}
}

func nonVeg(id, spice, sugar int, w WeatherType) FoodItem {
	return FoodItem{ID: id, Name: "meat dish", Diet: DietNonVegetarian, Spice: spice, Sugar: sugar, Weather: w, Category: "Main Course"}
}

func ids(items []FoodItem) []int {
	out := make([]int, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
