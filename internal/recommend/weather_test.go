// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"testing"
)

func TestScoreByWeather(t *testing.T) {
	t.Parallel()

	pref := Preference{Spice: 5, Sugar: 5, MealType: MealTypeAny}
	empty := NewFeedback(nil, nil)

	t.Run("orders by cost then id", func(t *testing.T) {
		t.Parallel()
		catalog := []FoodItem{
			veg(1, 3, 3, WeatherCold),
			veg(2, 5, 5, WeatherCold),
			veg(3, 5, 6, WeatherCold),
			veg(4, 5, 5, WeatherCold),
			veg(5, 9, 9, WeatherCold),
		}
		got := ScoreByWeather(catalog, WeatherCold, pref, empty, 10, 5, fixedSampler{})
		if want := []int{2, 4, 3, 1, 5}; !equalInts(ids(got.Items), want) {
			t.Errorf("ScoreByWeather() = %v, want %v", ids(got.Items), want)
		}
		if got.UsedFallback {
			t.Error("UsedFallback = true, want false")
		}
	})

	t.Run("cost zero before cost positive", func(t *testing.T) {
		t.Parallel()
		catalog := []FoodItem{veg(9, 6, 5, WeatherHot), veg(10, 5, 5, WeatherHot)}
		got := ScoreByWeather(catalog, WeatherHot, pref, empty, 10, 1, nil)
		if got.Items[0].ID != 10 {
			t.Errorf("first = %d, want 10", got.Items[0].ID)
		}
	})

	t.Run("restricts to active weather", func(t *testing.T) {
		t.Parallel()
		catalog := []FoodItem{veg(1, 5, 5, WeatherHot), veg(2, 0, 0, WeatherCold)}
		got := ScoreByWeather(catalog, WeatherCold, pref, empty, 10, 1, nil)
		if want := []int{2}; !equalInts(ids(got.Items), want) {
			t.Errorf("ScoreByWeather() = %v, want %v", ids(got.Items), want)
		}
	})

	t.Run("falls back to full catalog when weather has no items", func(t *testing.T) {
		t.Parallel()
		catalog := []FoodItem{veg(1, 5, 5, WeatherHot), veg(2, 0, 0, WeatherHot)}
		got := ScoreByWeather(catalog, WeatherWindy, pref, empty, 10, 1, nil)
		if want := []int{1, 2}; !equalInts(ids(got.Items), want) {
			t.Errorf("ScoreByWeather() = %v, want %v", ids(got.Items), want)
		}
	})

	t.Run("meal type narrows when it matches", func(t *testing.T) {
		t.Parallel()
		dessert := veg(3, 0, 0, WeatherCold)
		dessert.Category = "Dessert"
		catalog := []FoodItem{veg(1, 5, 5, WeatherCold), dessert}
		p := Preference{Spice: 5, Sugar: 5, MealType: "dessert"}
		got := ScoreByWeather(catalog, WeatherCold, p, empty, 10, 1, nil)
		if want := []int{3}; !equalInts(ids(got.Items), want) {
			t.Errorf("ScoreByWeather() = %v, want %v", ids(got.Items), want)
		}
	})

	t.Run("meal type skipped when it empties the set", func(t *testing.T) {
		t.Parallel()
		catalog := []FoodItem{veg(1, 5, 5, WeatherCold), veg(2, 4, 4, WeatherCold)}
		p := Preference{Spice: 5, Sugar: 5, MealType: "Breakfast"}
		got := ScoreByWeather(catalog, WeatherCold, p, empty, 10, 1, nil)
		if want := []int{1, 2}; !equalInts(ids(got.Items), want) {
			t.Errorf("ScoreByWeather() = %v, want %v", ids(got.Items), want)
		}
	})

	t.Run("removes disliked and caps at top n", func(t *testing.T) {
		t.Parallel()
		var catalog []FoodItem
		for i := 1; i <= 12; i++ {
			catalog = append(catalog, veg(i, 5, 5, WeatherRainy))
		}
		fb := NewFeedback(nil, []int{1, 2})
		got := ScoreByWeather(catalog, WeatherRainy, pref, fb, 10, 5, fixedSampler{})
		if want := []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}; !equalInts(ids(got.Items), want) {
			t.Errorf("ScoreByWeather() = %v, want %v", ids(got.Items), want)
		}
	})

	t.Run("pads to minimum with random items", func(t *testing.T) {
		t.Parallel()
		catalog := []FoodItem{
			veg(1, 5, 5, WeatherCold),
			veg(2, 5, 5, WeatherCold),
			veg(3, 5, 5, WeatherHot),
			veg(4, 5, 5, WeatherHot),
			veg(5, 5, 5, WeatherHot),
			veg(6, 5, 5, WeatherHot),
		}
		fb := NewFeedback(nil, []int{3})
		got := ScoreByWeather(catalog, WeatherCold, pref, fb, 10, 5, fixedSampler{})
		if want := []int{1, 2, 4, 5, 6}; !equalInts(ids(got.Items), want) {
			t.Errorf("ScoreByWeather() = %v, want %v", ids(got.Items), want)
		}
		if !got.UsedFallback {
			t.Error("UsedFallback = false, want true")
		}
	})

	t.Run("seeded padding is deterministic", func(t *testing.T) {
		t.Parallel()
		var catalog []FoodItem
		catalog = append(catalog, veg(1, 5, 5, WeatherCold))
		for i := 2; i <= 30; i++ {
			catalog = append(catalog, veg(i, 5, 5, WeatherHot))
		}
		a := ScoreByWeather(catalog, WeatherCold, pref, empty, 10, 5, NewSeededSampler(7))
		b := ScoreByWeather(catalog, WeatherCold, pref, empty, 10, 5, NewSeededSampler(7))
		if !equalInts(ids(a.Items), ids(b.Items)) {
			t.Errorf("same seed gave %v and %v", ids(a.Items), ids(b.Items))
		}
		if len(a.Items) != 5 {
			t.Errorf("len = %d, want 5", len(a.Items))
		}
	})
}

func TestSeededSamplerNoDuplicates(t *testing.T) {
	t.Parallel()

	var pool []FoodItem
	for i := 1; i <= 20; i++ {
		pool = append(pool, veg(i, 0, 0, WeatherCold))
	}
	s := NewSeededSampler(1)
	for round := 0; round < 50; round++ {
		got := s.Sample(pool, 8)
		seen := make(map[int]bool)
		for _, f := range got {
			if seen[f.ID] {
				t.Fatalf("round %d: duplicate id %d in %v", round, f.ID, ids(got))
			}
			seen[f.ID] = true
		}
	}
	if got := s.Sample(pool, 50); len(got) != 20 {
		t.Errorf("Sample(k > pool) len = %d, want 20", len(got))
	}
}
