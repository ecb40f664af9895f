// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"context"
	"sort"
)

// CuisineAffinity returns each cuisine's share of the user's liked foods,
// highest share first. Ties are ordered by cuisine name.
func (e *Engine) CuisineAffinity(ctx context.Context, userID int) ([]CuisineShare, error) {
	st, err := e.getStore()
	if err != nil {
		return nil, err
	}

	fb, err := st.GetFeedback(ctx, userID)
	if err != nil {
		return nil, storeError("get feedback", err)
	}
	if len(fb.Liked) == 0 {
		return []CuisineShare{}, nil
	}

	catalog, err := st.GetCatalog(ctx)
	if err != nil {
		return nil, storeError("get catalog", err)
	}

	return cuisineShares(catalog, fb), nil
}

//nolint:gocritic // hugeParam: fb is a small value type
func cuisineShares(catalog []FoodItem, fb Feedback) []CuisineShare {
	counts := make(map[string]int)
	total := 0
	for i := range catalog {
		if !fb.IsLiked(catalog[i].ID) || catalog[i].Cuisine == "" {
			continue
		}
		counts[catalog[i].Cuisine]++
		total++
	}

	shares := make([]CuisineShare, 0, len(counts))
	for cuisine, n := range counts {
		shares = append(shares, CuisineShare{
			Cuisine: cuisine,
			Count:   n,
			Share:   float64(n) / float64(total),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Cuisine < shares[j].Cuisine
	})
	return shares
}
