// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"math/rand"
	"sort"
	"sync"
)

// Sampler draws uniform random samples without replacement.
type Sampler interface {
	Sample(pool []FoodItem, k int) []FoodItem
}

// SeededSampler is a Sampler backed by a seeded source. It is safe for
// concurrent use; draws are serialized so a fixed seed and call order give
// identical samples.
type SeededSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSampler returns a sampler seeded with seed.
func NewSeededSampler(seed int64) *SeededSampler {
	return &SeededSampler{
		rng: rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for recommendation padding
	}
}

// Sample returns up to k items of pool chosen uniformly at random. The pool is
// ordered by id before drawing so the result does not depend on input order.
func (s *SeededSampler) Sample(pool []FoodItem, k int) []FoodItem {
	if k <= 0 || len(pool) == 0 {
		return nil
	}

	shuffled := make([]FoodItem, len(pool))
	copy(shuffled, pool)
	sort.SliceStable(shuffled, func(i, j int) bool { return shuffled[i].ID < shuffled[j].ID })

	if k > len(shuffled) {
		k = len(shuffled)
	}

	// partial Fisher-Yates: only the first k positions are needed
	s.mu.Lock()
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	s.mu.Unlock()

	return shuffled[:k]
}
