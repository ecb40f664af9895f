// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/anuragksng/foodrec/internal/events"
	"github.com/anuragksng/foodrec/internal/recommend"
)

// countingStore counts snapshot reads.
type countingStore struct {
	*Memory
	catalogReads atomic.Int64
	matrixReads  atomic.Int64
}

func (c *countingStore) GetCatalog(ctx context.Context) ([]recommend.FoodItem, error) {
	c.catalogReads.Add(1)
	return c.Memory.GetCatalog(ctx)
}

func (c *countingStore) GetRatingMatrix(ctx context.Context) (recommend.RatingMatrix, error) {
	c.matrixReads.Add(1)
	return c.Memory.GetRatingMatrix(ctx)
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []events.Change
	err     error
}

//nolint:gocritic // test double
func (p *recordingPublisher) Publish(_ context.Context, c events.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
	return p.err
}

func newCached(t *testing.T, pub Publisher) (*Cached, *countingStore) {
	t.Helper()
	inner := &countingStore{Memory: seededMemory(t)}
	c := NewCached(inner, SnapshotConfig{TTL: time.Minute}, pub, zerolog.Nop())
	t.Cleanup(c.Close)
	return c, inner
}

func TestCachedServesSnapshot(t *testing.T) {
	t.Parallel()

	c, inner := newCached(t, nil)
	ctx := context.Background()

	first, err := c.GetCatalog(ctx)
	if err != nil {
		t.Fatal(err)
	}
	first[0].Name = "mutated"

	second, _ := c.GetCatalog(ctx)
	if inner.catalogReads.Load() != 1 {
		t.Errorf("catalog reads = %d, want 1", inner.catalogReads.Load())
	}
	if second[0].Name == "mutated" {
		t.Error("caller mutation leaked into the snapshot")
	}

	if _, err := c.GetCatalog(recommend.WithFreshRead(ctx)); err != nil {
		t.Fatal(err)
	}
	if inner.catalogReads.Load() != 2 {
		t.Errorf("fresh read served from snapshot")
	}
}

func TestCachedRatingInvalidatesMatrix(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	c, inner := newCached(t, pub)
	ctx := context.Background()

	if _, err := c.GetRatingMatrix(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.RecordRating(ctx, 1, 3, 7); err != nil {
		t.Fatal(err)
	}
	m, err := c.GetRatingMatrix(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if m[1][3] != 7 {
		t.Errorf("stale matrix after rating write: %v", m)
	}
	if inner.matrixReads.Load() != 2 {
		t.Errorf("matrix reads = %d, want 2", inner.matrixReads.Load())
	}
	if len(pub.changes) != 1 || pub.changes[0].Kind != events.KindRatings || pub.changes[0].FoodID != 3 {
		t.Errorf("published = %+v", pub.changes)
	}
}

func TestCachedCatalogWrite(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{err: errors.New("bus down")}
	c, _ := newCached(t, pub)
	ctx := context.Background()

	if _, err := c.GetCatalog(ctx); err != nil {
		t.Fatal(err)
	}
	// a failed publish does not fail the write
	if err := c.UpsertFood(ctx, recommend.FoodItem{ID: 9, Name: "Kheer", Diet: recommend.DietVegetarian}); err != nil {
		t.Fatal(err)
	}
	items, _ := c.GetCatalog(ctx)
	if len(items) != 4 {
		t.Errorf("catalog = %d items, want 4", len(items))
	}
}

func TestCachedSignalWritesPublish(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	c, _ := newCached(t, pub)
	ctx := context.Background()

	if err := c.RecordFeedback(ctx, 1, 3, recommend.StatusLiked); err != nil {
		t.Fatal(err)
	}
	if err := c.RecordSearch(ctx, 1, "soup"); err != nil {
		t.Fatal(err)
	}
	if err := c.RecordFeedback(ctx, 1, 3, "meh"); err == nil {
		t.Error("invalid feedback accepted")
	}

	if len(pub.changes) != 2 {
		t.Fatalf("published %d changes, want 2", len(pub.changes))
	}
	if pub.changes[0].Kind != events.KindFeedback || pub.changes[1].Kind != events.KindSearch {
		t.Errorf("kinds = %s, %s", pub.changes[0].Kind, pub.changes[1].Kind)
	}
}

func TestCachedRemoteInvalidation(t *testing.T) {
	t.Parallel()

	c, inner := newCached(t, nil)
	ctx := context.Background()

	_, _ = c.GetCatalog(ctx)
	_, _ = c.GetRatingMatrix(ctx)

	c.Invalidate(ctx, events.NewChange(events.KindSearch, 1, 0))
	_, _ = c.GetCatalog(ctx)
	_, _ = c.GetRatingMatrix(ctx)
	if inner.catalogReads.Load() != 1 || inner.matrixReads.Load() != 1 {
		t.Error("search change dropped snapshots")
	}

	c.Invalidate(ctx, events.NewChange(events.KindCatalog, 0, 1))
	_, _ = c.GetCatalog(ctx)
	if inner.catalogReads.Load() != 2 {
		t.Error("catalog change kept the catalog snapshot")
	}

	c.Invalidate(ctx, events.NewChange(events.KindFeedback, 1, 1))
	_, _ = c.GetRatingMatrix(ctx)
	if inner.matrixReads.Load() != 2 {
		t.Error("feedback change kept the matrix snapshot")
	}

	c.InvalidateAll()
	_, _ = c.GetCatalog(ctx)
	if inner.catalogReads.Load() != 3 {
		t.Error("InvalidateAll kept the catalog snapshot")
	}
}
