// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"testing"
)

func catalogMap(items ...FoodItem) map[int]FoodItem {
	m := make(map[int]FoodItem, len(items))
	for _, f := range items {
		m[f.ID] = f
	}
	return m
}

var defaultCollab = CollabParams{Neighbors: 5, MinRating: 4, Max: 5}

func TestCollaborativeRecommend(t *testing.T) {
	t.Parallel()

	t.Run("neighbour's liked food surfaces and liked is excluded", func(t *testing.T) {
		t.Parallel()
		matrix := make(RatingMatrix)
		matrix.Set(2, 10, 8)
		matrix.Set(2, 20, 9)
		catalog := catalogMap(veg(10, 1, 1, WeatherCold), veg(20, 1, 1, WeatherCold))

		got := CollaborativeRecommend(1, NewFeedback([]int{10}, nil), matrix, catalog, defaultCollab)
		if want := []int{20}; !equalInts(ids(got), want) {
			t.Fatalf("CollaborativeRecommend() = %v, want %v", ids(got), want)
		}
		if gated := FilterCompatible(got, DietVegetarian); len(gated) != 1 {
			t.Errorf("gate removed %v", ids(got))
		}
	})

	t.Run("orders by neighbour similarity", func(t *testing.T) {
		t.Parallel()
		matrix := make(RatingMatrix)
		matrix.Set(2, 10, 5)
		matrix.Set(2, 30, 8)
		matrix.Set(3, 10, 9)
		matrix.Set(3, 20, 7)
		catalog := catalogMap(veg(10, 0, 0, ""), veg(20, 0, 0, ""), veg(30, 0, 0, ""))

		got := CollaborativeRecommend(1, NewFeedback([]int{10}, nil), matrix, catalog, defaultCollab)
		if want := []int{20, 30}; !equalInts(ids(got), want) {
			t.Errorf("CollaborativeRecommend() = %v, want %v", ids(got), want)
		}
	})

	t.Run("zero similarity users and own row are ignored", func(t *testing.T) {
		t.Parallel()
		matrix := make(RatingMatrix)
		matrix.Set(1, 50, 9)
		matrix.Set(2, 10, 6)
		matrix.Set(4, 40, 9)
		catalog := catalogMap(veg(10, 0, 0, ""), veg(40, 0, 0, ""), veg(50, 0, 0, ""))

		got := CollaborativeRecommend(1, NewFeedback([]int{10}, nil), matrix, catalog, defaultCollab)
		if len(got) != 0 {
			t.Errorf("CollaborativeRecommend() = %v, want empty", ids(got))
		}
	})

	t.Run("low ratings and missing catalog ids are skipped", func(t *testing.T) {
		t.Parallel()
		matrix := make(RatingMatrix)
		matrix.Set(2, 10, 9)
		matrix.Set(2, 20, 3)
		matrix.Set(2, 30, 9) // not in catalog
		matrix.Set(2, 40, 4)
		catalog := catalogMap(veg(10, 0, 0, ""), veg(20, 0, 0, ""), veg(40, 0, 0, ""))

		got := CollaborativeRecommend(1, NewFeedback([]int{10}, nil), matrix, catalog, defaultCollab)
		if want := []int{40}; !equalInts(ids(got), want) {
			t.Errorf("CollaborativeRecommend() = %v, want %v", ids(got), want)
		}
	})

	t.Run("disliked are excluded and output is capped", func(t *testing.T) {
		t.Parallel()
		matrix := make(RatingMatrix)
		var items []FoodItem
		for id := 1; id <= 9; id++ {
			matrix.Set(2, id, 8)
			items = append(items, veg(id, 0, 0, ""))
		}
		got := CollaborativeRecommend(100, NewFeedback([]int{1}, []int{2}), matrix, catalogMap(items...), defaultCollab)
		if want := []int{3, 4, 5, 6, 7}; !equalInts(ids(got), want) {
			t.Errorf("CollaborativeRecommend() = %v, want %v", ids(got), want)
		}
	})

	t.Run("empty without likes or ratings", func(t *testing.T) {
		t.Parallel()
		matrix := make(RatingMatrix)
		matrix.Set(2, 10, 8)
		catalog := catalogMap(veg(10, 0, 0, ""))
		if got := CollaborativeRecommend(1, NewFeedback(nil, []int{10}), matrix, catalog, defaultCollab); len(got) != 0 {
			t.Errorf("no likes: got %v, want empty", ids(got))
		}
		if got := CollaborativeRecommend(1, NewFeedback([]int{10}, nil), RatingMatrix{}, catalog, defaultCollab); len(got) != 0 {
			t.Errorf("empty matrix: got %v, want empty", ids(got))
		}
	})
}

func TestNearestNeighborsTieBreak(t *testing.T) {
	t.Parallel()

	matrix := make(RatingMatrix)
	matrix.Set(7, 1, 4)
	matrix.Set(3, 1, 4)
	matrix.Set(5, 1, 4)
	columns := matrix.Columns()
	target := []float64{5}

	got := nearestNeighbors(1, target, norm(target), columns, matrix, 2)
	if len(got) != 2 || got[0].userID != 3 || got[1].userID != 5 {
		t.Errorf("nearestNeighbors() = %+v, want users 3 then 5", got)
	}
}
