// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"context"
	"fmt"
	"strings"
)

// CatalogSearcher runs a case-insensitive substring search over the catalog.
type CatalogSearcher func(ctx context.Context, term string) ([]FoodItem, error)

// ContentRecommend searches the catalog for each of the first maxTerms terms
// (most recent first) and returns up to maxItems distinct foods in first-seen
// order, skipping anything the user already liked or disliked.
//
//nolint:gocritic // hugeParam: fb is a small value type
func ContentRecommend(ctx context.Context, terms []string, fb Feedback, search CatalogSearcher, maxTerms, maxItems int) ([]FoodItem, error) {
	if maxItems <= 0 {
		return nil, nil
	}

	out := make([]FoodItem, 0, maxItems)
	seen := make(map[int]struct{})
	used := 0
	for _, term := range terms {
		if used >= maxTerms {
			break
		}
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		used++

		hits, err := search(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", term, err)
		}
		for i := range hits {
			id := hits[i].ID
			if _, dup := seen[id]; dup || fb.seen(id) {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, hits[i])
			if len(out) >= maxItems {
				return out, nil
			}
		}
	}
	return out, nil
}
