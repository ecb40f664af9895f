// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package wal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/anuragksng/foodrec/internal/recommend"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.InMemory = true
	cfg.Path = ""
	cfg.SyncWrites = false
	cfg.ReplayInterval = 100 * time.Millisecond
	cfg.MaxAttempts = 3
	return cfg
}

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	cfg := testConfig()
	j, err := Open(&cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"disabled skips checks", func(c *Config) { c.Enabled = false; c.Path = "" }, false},
		{"missing path", func(c *Config) { c.Path = "" }, true},
		{"short interval", func(c *Config) { c.ReplayInterval = time.Millisecond }, true},
		{"negative attempts", func(c *Config) { c.MaxAttempts = -1 }, true},
		{"gc ratio one", func(c *Config) { c.GCRatio = 1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAppendPendingConfirm(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()

	first, err := j.Append(ctx, FeedbackEntry(1, 10, recommend.StatusLiked))
	if err != nil {
		t.Fatal(err)
	}
	second, err := j.Append(ctx, SearchEntry(1, "soup"))
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == "" || first.CreatedAt.IsZero() {
		t.Errorf("entry not stamped: %+v", first)
	}
	if second.Seq <= first.Seq {
		t.Errorf("sequence not increasing: %d then %d", first.Seq, second.Seq)
	}

	pending, err := j.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 || pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Fatalf("Pending = %+v", pending)
	}
	if pending[1].Term != "soup" {
		t.Errorf("term = %q", pending[1].Term)
	}

	if err := j.Confirm(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := j.Confirm(ctx, first); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("second Confirm = %v, want ErrEntryNotFound", err)
	}

	stats := j.Stats()
	if stats.Pending != 1 || stats.Appended != 2 || stats.Confirmed != 1 {
		t.Errorf("Stats = %+v", stats)
	}
}

func TestClosedJournal(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	j, err := Open(&cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
	if _, err := j.Append(context.Background(), SearchEntry(1, "x")); !errors.Is(err, ErrClosed) {
		t.Errorf("Append after Close = %v, want ErrClosed", err)
	}
}

type fakeTarget struct {
	err      error
	feedback []string
	searches []string
	ratings  int
}

func (f *fakeTarget) RecordFeedback(_ context.Context, _, _ int, status recommend.FeedbackStatus) error {
	if f.err != nil {
		return f.err
	}
	f.feedback = append(f.feedback, string(status))
	return nil
}

func (f *fakeTarget) RecordSearch(_ context.Context, _ int, term string) error {
	if f.err != nil {
		return f.err
	}
	f.searches = append(f.searches, term)
	return nil
}

func (f *fakeTarget) RecordRating(_ context.Context, _, _, _ int) error {
	if f.err != nil {
		return f.err
	}
	f.ratings++
	return nil
}

func TestReplayPreservesOrder(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()
	for _, e := range []Entry{
		FeedbackEntry(1, 10, recommend.StatusLiked),
		RatingEntry(1, 10, 8),
		FeedbackEntry(1, 10, recommend.StatusDisliked),
	} {
		if _, err := j.Append(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	target := &fakeTarget{}
	r := NewReplayer(j, target, testConfig(), zerolog.Nop())
	res, err := r.ReplayOnce(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Applied != 3 {
		t.Errorf("Applied = %d, want 3", res.Applied)
	}
	if len(target.feedback) != 2 || target.feedback[1] != "disliked" {
		t.Errorf("feedback order = %v", target.feedback)
	}
	if target.ratings != 1 {
		t.Errorf("ratings = %d", target.ratings)
	}
	if j.Stats().Pending != 0 {
		t.Errorf("pending = %d, want 0", j.Stats().Pending)
	}
}

func TestReplayKeepsRetryableEntries(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()
	if _, err := j.Append(ctx, SearchEntry(2, "dal")); err != nil {
		t.Fatal(err)
	}
	if _, err := j.Append(ctx, SearchEntry(2, "soup")); err != nil {
		t.Fatal(err)
	}

	target := &fakeTarget{err: recommend.ErrStoreUnavailable}
	r := NewReplayer(j, target, testConfig(), zerolog.Nop())

	res, err := r.ReplayOnce(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 1 || res.Applied != 0 {
		t.Errorf("first pass = %+v, want one failure and stop", res)
	}
	pending, _ := j.Pending(ctx)
	if len(pending) != 2 || pending[0].Attempts != 1 || pending[0].LastError == "" {
		t.Fatalf("pending after failure = %+v", pending)
	}

	target.err = nil
	res, err = r.ReplayOnce(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Applied != 2 {
		t.Errorf("second pass = %+v", res)
	}
	if len(target.searches) != 2 || target.searches[0] != "dal" {
		t.Errorf("searches = %v", target.searches)
	}
}

func TestReplayDropsPermanentAndExhausted(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	ctx := context.Background()
	if _, err := j.Append(ctx, FeedbackEntry(3, 1, "meh")); err != nil {
		t.Fatal(err)
	}

	target := &fakeTarget{err: recommend.ErrInvalidFeedback}
	r := NewReplayer(j, target, testConfig(), zerolog.Nop())
	res, err := r.ReplayOnce(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Dropped != 1 || j.Stats().Pending != 0 {
		t.Errorf("permanent failure not dropped: %+v, %+v", res, j.Stats())
	}

	if _, err := j.Append(ctx, SearchEntry(3, "tea")); err != nil {
		t.Fatal(err)
	}
	target.err = recommend.ErrStoreUnavailable
	for i := 0; i < 3; i++ {
		if _, err := r.ReplayOnce(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if j.Stats().Pending != 0 {
		t.Errorf("entry not dropped after max attempts, pending = %d", j.Stats().Pending)
	}
	if j.Stats().Dropped != 2 {
		t.Errorf("dropped = %d, want 2", j.Stats().Dropped)
	}
}

func TestReplayerServeStops(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	target := &fakeTarget{}
	if _, err := j.Append(context.Background(), SearchEntry(4, "chai")); err != nil {
		t.Fatal(err)
	}

	r := NewReplayer(j, target, testConfig(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for j.Stats().Pending != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve = %v, want context.Canceled", err)
	}
	if j.Stats().Pending != 0 {
		t.Error("startup replay did not apply the pending entry")
	}
	if r.String() != "wal-replayer" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestWriteDrainsOlderEntriesFirst(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	target := &fakeTarget{err: recommend.ErrStoreUnavailable}
	r := NewReplayer(j, target, testConfig(), zerolog.Nop())
	ctx := context.Background()

	var replayed []Entry
	r.OnApplied(func(_ context.Context, e Entry) { replayed = append(replayed, e) })

	if err := r.Write(ctx, FeedbackEntry(1, 10, recommend.StatusLiked)); err != nil {
		t.Fatalf("Write while down = %v, want accepted", err)
	}
	if got := j.Stats().Pending; got != 1 {
		t.Fatalf("pending = %d, want 1", got)
	}

	target.err = nil
	if err := r.Write(ctx, FeedbackEntry(1, 10, recommend.StatusDisliked)); err != nil {
		t.Fatalf("Write = %v", err)
	}

	want := []string{"liked", "disliked"}
	if len(target.feedback) != len(want) {
		t.Fatalf("applied feedback = %v, want %v", target.feedback, want)
	}
	for i := range want {
		if target.feedback[i] != want[i] {
			t.Errorf("applied[%d] = %s, want %s", i, target.feedback[i], want[i])
		}
	}
	if got := j.Stats().Pending; got != 0 {
		t.Errorf("pending = %d, want 0", got)
	}

	// only the entry that waited in the journal is reported as replayed
	if len(replayed) != 1 || replayed[0].Status != recommend.StatusLiked {
		t.Errorf("replayed = %+v, want the liked entry", replayed)
	}

	res, err := r.ReplayOnce(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Applied != 0 || len(target.feedback) != 2 {
		t.Errorf("second pass re-applied entries: %+v, feedback %v", res, target.feedback)
	}
}

func TestWriteReturnsPermanentError(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	target := &fakeTarget{err: recommend.ErrInvalidFeedback}
	r := NewReplayer(j, target, testConfig(), zerolog.Nop())

	err := r.Write(context.Background(), SearchEntry(1, "soup"))
	if !errors.Is(err, recommend.ErrInvalidFeedback) {
		t.Errorf("Write() error = %v, want ErrInvalidFeedback", err)
	}
	if st := j.Stats(); st.Pending != 0 || st.Dropped != 1 {
		t.Errorf("stats = %+v, want the entry dropped", st)
	}
}

func TestReplayNotifiesAppliedEntries(t *testing.T) {
	t.Parallel()

	j := openTestJournal(t)
	target := &fakeTarget{err: recommend.ErrStoreUnavailable}
	r := NewReplayer(j, target, testConfig(), zerolog.Nop())
	ctx := context.Background()

	var kinds []Kind
	r.OnApplied(func(_ context.Context, e Entry) { kinds = append(kinds, e.Kind) })

	for _, e := range []Entry{SearchEntry(2, "tea"), RatingEntry(2, 5, 9)} {
		if err := r.Write(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	if len(kinds) != 0 {
		t.Fatalf("hooks ran before apply: %v", kinds)
	}

	target.err = nil
	res, err := r.ReplayOnce(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Applied != 2 || len(kinds) != 2 || kinds[0] != KindSearch || kinds[1] != KindRating {
		t.Errorf("applied %d, hook kinds %v", res.Applied, kinds)
	}
}
