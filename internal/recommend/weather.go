// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"sort"
	"strings"
)

// WeatherResult is the output of the weather scorer.
type WeatherResult struct {
	Items []FoodItem

	// UsedFallback is set when random padding was needed to reach the minimum.
	UsedFallback bool
}

// ScoreByWeather ranks catalog items by distance from pref for the active
// weather. WeatherAny scores the whole catalog.
//
// Items tagged for the weather are preferred; when none exist the full catalog
// is used. A meal type other than "Any" narrows the set to categories that
// contain it, unless that would leave nothing. Disliked ids are removed, the
// topN closest items are kept, and when fewer than minResults remain the list
// is padded with a random sample of the catalog.
//
//nolint:gocritic // hugeParam: pref and fb are small value types
func ScoreByWeather(catalog []FoodItem, weather WeatherType, pref Preference, fb Feedback,
	topN, minResults int, sampler Sampler) WeatherResult {
	candidates := catalog
	if weather != WeatherAny {
		candidates = filterWeather(catalog, weather)
		if len(candidates) == 0 {
			candidates = catalog
		}
	}

	if pref.restrictsMeal() {
		if byMeal := filterMeal(candidates, pref.MealType); len(byMeal) > 0 {
			candidates = byMeal
		}
	}

	ranked := rankByCost(candidates, pref)

	selected := make([]FoodItem, 0, topN)
	for i := range ranked {
		if len(selected) >= topN {
			break
		}
		if fb.IsDisliked(ranked[i].ID) {
			continue
		}
		selected = append(selected, ranked[i])
	}

	result := WeatherResult{Items: selected}
	if len(selected) >= minResults || sampler == nil {
		return result
	}

	taken := make(map[int]struct{}, len(selected))
	for i := range selected {
		taken[selected[i].ID] = struct{}{}
	}
	pool := make([]FoodItem, 0, len(catalog))
	for i := range catalog {
		if _, ok := taken[catalog[i].ID]; ok || fb.IsDisliked(catalog[i].ID) {
			continue
		}
		pool = append(pool, catalog[i])
	}

	if pad := sampler.Sample(pool, minResults-len(selected)); len(pad) > 0 {
		result.Items = append(result.Items, pad...)
		result.UsedFallback = true
	}
	return result
}

// preferenceCost is the L1 distance between a food and a preference.
//
//nolint:gocritic // hugeParam: pref is a small value type
func preferenceCost(f *FoodItem, pref Preference) int {
	return absInt(f.Spice-pref.Spice) + absInt(f.Sugar-pref.Sugar)
}

//nolint:gocritic // hugeParam: pref is a small value type
func rankByCost(items []FoodItem, pref Preference) []FoodItem {
	ranked := make([]FoodItem, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := preferenceCost(&ranked[i], pref), preferenceCost(&ranked[j], pref)
		if ci != cj {
			return ci < cj
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked
}

func filterWeather(items []FoodItem, weather WeatherType) []FoodItem {
	out := make([]FoodItem, 0, len(items))
	for i := range items {
		if items[i].Weather == weather {
			out = append(out, items[i])
		}
	}
	return out
}

func filterMeal(items []FoodItem, meal string) []FoodItem {
	needle := strings.ToLower(strings.TrimSpace(meal))
	out := make([]FoodItem, 0, len(items))
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].Category), needle) {
			out = append(out, items[i])
		}
	}
	return out
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
