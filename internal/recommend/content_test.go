// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"context"
	"errors"
	"testing"
)

func soupCatalog() *mockStore {
	return newMockStore(
		FoodItem{ID: 1, Name: "Tomato Soup", Diet: DietVegetarian},
		FoodItem{ID: 2, Name: "Chicken Soup", Diet: DietNonVegetarian},
		FoodItem{ID: 3, Name: "Veg Curry", Diet: DietVegetarian},
		FoodItem{ID: 4, Name: "Curry Soup", Diet: DietVegetarian},
		FoodItem{ID: 5, Name: "Paneer Tikka", Cuisine: "Indian", Diet: DietVegetarian},
	)
}

func TestContentRecommend(t *testing.T) {
	t.Parallel()

	t.Run("unions terms in first seen order", func(t *testing.T) {
		t.Parallel()
		st := soupCatalog()
		got, err := ContentRecommend(context.Background(), []string{"soup", "curry"}, NewFeedback([]int{2}, nil), st.SearchCatalog, 3, 5)
		if err != nil {
			t.Fatalf("ContentRecommend() error = %v, want nil", err)
		}
		if want := []int{1, 4, 3}; !equalInts(ids(got), want) {
			t.Errorf("ContentRecommend() = %v, want %v", ids(got), want)
		}
	})

	t.Run("uses only the most recent terms", func(t *testing.T) {
		t.Parallel()
		st := soupCatalog()
		terms := []string{"curry", "  ", "tikka", "tomato", "chicken"}
		got, err := ContentRecommend(context.Background(), terms, NewFeedback(nil, nil), st.SearchCatalog, 3, 5)
		if err != nil {
			t.Fatalf("ContentRecommend() error = %v, want nil", err)
		}
		if want := []int{3, 4, 5, 1}; !equalInts(ids(got), want) {
			t.Errorf("ContentRecommend() = %v, want %v", ids(got), want)
		}
	})

	t.Run("caps output", func(t *testing.T) {
		t.Parallel()
		st := soupCatalog()
		got, _ := ContentRecommend(context.Background(), []string{"o"}, NewFeedback(nil, nil), st.SearchCatalog, 3, 2)
		if len(got) != 2 {
			t.Errorf("len = %d, want 2", len(got))
		}
	})

	t.Run("propagates search errors", func(t *testing.T) {
		t.Parallel()
		st := soupCatalog()
		st.searchErr = errors.New("boom")
		if _, err := ContentRecommend(context.Background(), []string{"soup"}, NewFeedback(nil, nil), st.SearchCatalog, 3, 5); err == nil {
			t.Error("ContentRecommend() error = nil, want error")
		}
	})
}
