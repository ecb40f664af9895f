// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"math"
	"sort"
)

// Synthetic ratings used to place a user in the rating space from feedback alone.
const (
	likedRating    = 5
	dislikedRating = 1
)

// CollabParams bounds the collaborative filter.
type CollabParams struct {
	Neighbors int
	MinRating int
	Max       int
}

// neighbor is a similar user and its cosine similarity.
type neighbor struct {
	userID     int
	similarity float64
}

// CollaborativeRecommend returns up to params.Max catalog foods rated highly by
// the users most similar to userID. The user is represented by a synthetic
// vector built from feedback, so users without ratings still get neighbours.
//
// Output is ordered by neighbour rank, then ascending food id. Liked and
// disliked foods are never returned; ids missing from catalog are skipped.
//
//nolint:gocritic // hugeParam: fb and params are small value types
func CollaborativeRecommend(userID int, fb Feedback, matrix RatingMatrix, catalog map[int]FoodItem, params CollabParams) []FoodItem {
	if len(fb.Liked) == 0 || len(matrix) == 0 || params.Max <= 0 {
		return nil
	}

	columns := matrix.Columns()
	target := make([]float64, len(columns))
	for i, foodID := range columns {
		switch {
		case fb.IsLiked(foodID):
			target[i] = likedRating
		case fb.IsDisliked(foodID):
			target[i] = dislikedRating
		}
	}
	targetNorm := norm(target)
	if targetNorm == 0 {
		return nil
	}

	neighbors := nearestNeighbors(userID, target, targetNorm, columns, matrix, params.Neighbors)

	out := make([]FoodItem, 0, params.Max)
	seen := make(map[int]struct{})
	for _, n := range neighbors {
		for _, foodID := range endorsed(matrix[n.userID], params.MinRating) {
			if _, dup := seen[foodID]; dup || fb.seen(foodID) {
				continue
			}
			seen[foodID] = struct{}{}

			item, ok := catalog[foodID]
			if !ok {
				continue
			}
			out = append(out, item)
			if len(out) >= params.Max {
				return out
			}
		}
	}
	return out
}

// nearestNeighbors ranks every other row by cosine similarity to target and
// keeps the top k with positive similarity. Ties go to the lower user id.
func nearestNeighbors(userID int, target []float64, targetNorm float64, columns []int, matrix RatingMatrix, k int) []neighbor {
	ranked := make([]neighbor, 0, len(matrix))
	row := make([]float64, len(columns))
	for _, otherID := range matrix.Users() {
		if otherID == userID {
			continue
		}
		ratings := matrix[otherID]
		for i, foodID := range columns {
			row[i] = float64(ratings[foodID])
		}
		rowNorm := norm(row)
		if rowNorm == 0 {
			continue
		}
		sim := dot(target, row) / (targetNorm * rowNorm)
		if sim > 0 {
			ranked = append(ranked, neighbor{userID: otherID, similarity: sim})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].similarity != ranked[j].similarity {
			return ranked[i].similarity > ranked[j].similarity
		}
		return ranked[i].userID < ranked[j].userID
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// endorsed returns the foods in row rated at least minRating, ascending by id.
func endorsed(row map[int]int, minRating int) []int {
	ids := make([]int, 0, len(row))
	for foodID, rating := range row {
		if rating >= minRating {
			ids = append(ids, foodID)
		}
	}
	sort.Ints(ids)
	return ids
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}
