// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package wal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anuragksng/foodrec/internal/metrics"
	"github.com/anuragksng/foodrec/internal/recommend"
)

var (
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("wal closed")

	// ErrEntryNotFound is returned when confirming an unknown entry.
	ErrEntryNotFound = errors.New("wal entry not found")
)

// Kind is the signal an entry carries.
type Kind string

const (
	KindFeedback Kind = "feedback"
	KindSearch   Kind = "search"
	KindRating   Kind = "rating"
)

// Entry is one journaled signal write.
type Entry struct {
	ID     string                   `json:"id"`
	Seq    uint64                   `json:"seq"`
	Kind   Kind                     `json:"kind"`
	UserID int                      `json:"user_id"`
	FoodID int                      `json:"food_id,omitempty"`
	Status recommend.FeedbackStatus `json:"status,omitempty"`
	Term   string                   `json:"term,omitempty"`
	Rating int                      `json:"rating,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`
}

// FeedbackEntry builds a feedback entry.
func FeedbackEntry(userID, foodID int, status recommend.FeedbackStatus) Entry {
	return Entry{Kind: KindFeedback, UserID: userID, FoodID: foodID, Status: status}
}

// SearchEntry builds a search entry.
func SearchEntry(userID int, term string) Entry {
	return Entry{Kind: KindSearch, UserID: userID, Term: term}
}

// RatingEntry builds a rating entry.
func RatingEntry(userID, foodID, rating int) Entry {
	return Entry{Kind: KindRating, UserID: userID, FoodID: foodID, Rating: rating}
}

// Stats is a snapshot of journal counters.
type Stats struct {
	Pending   int64 `json:"pending"`
	Appended  int64 `json:"appended"`
	Confirmed int64 `json:"confirmed"`
	Dropped   int64 `json:"dropped"`
}

const (
	prefixPending = "pending:"
	sequenceKey   = "meta:seq"
)

// Journal is a Badger-backed write-ahead journal.
type Journal struct {
	db     *badger.DB
	seq    *badger.Sequence
	cfg    Config
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool

	pending   atomic.Int64
	appended  atomic.Int64
	confirmed atomic.Int64
	dropped   atomic.Int64
}

// Open opens or creates the journal at cfg.Path.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(cfg *Config, logger zerolog.Logger) (*Journal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid WAL config: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	seq, err := db.GetSequence([]byte(sequenceKey), 100)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open WAL sequence: %w", err)
	}

	j := &Journal{
		db:     db,
		seq:    seq,
		cfg:    *cfg,
		logger: logger.With().Str("component", "wal").Logger(),
	}

	n, err := j.countPending()
	if err != nil {
		_ = j.Close()
		return nil, err
	}
	j.pending.Store(n)
	metrics.SetWALPending(int(n))

	j.logger.Info().
		Str("path", cfg.Path).
		Bool("sync_writes", cfg.SyncWrites).
		Int64("pending", n).
		Msg("WAL opened")
	return j, nil
}

func (j *Journal) checkOpen() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrClosed
	}
	return nil
}

func pendingKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", prefixPending, seq))
}

// Append stamps e with an id and sequence number and persists it.
//
//nolint:gocritic // Entry is copied so the caller's value stays untouched
func (j *Journal) Append(ctx context.Context, e Entry) (Entry, error) {
	if err := j.checkOpen(); err != nil {
		return Entry{}, err
	}
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	seq, err := j.seq.Next()
	if err != nil {
		return Entry{}, fmt.Errorf("next WAL sequence: %w", err)
	}
	e.ID = uuid.NewString()
	e.Seq = seq
	e.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(&e)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal entry: %w", err)
	}
	if err := j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(pendingKey(seq), data)
	}); err != nil {
		return Entry{}, fmt.Errorf("write to BadgerDB: %w", err)
	}

	j.appended.Add(1)
	metrics.SetWALPending(int(j.pending.Add(1)))
	metrics.RecordWALAppend(string(e.Kind))
	return e, nil
}

// Confirm removes an applied entry.
//
//nolint:gocritic // Entry is read-only here
func (j *Journal) Confirm(_ context.Context, e Entry) error {
	if err := j.remove(e); err != nil {
		return err
	}
	j.confirmed.Add(1)
	return nil
}

// Drop removes an entry that can never be applied.
//
//nolint:gocritic // Entry is read-only here
func (j *Journal) Drop(_ context.Context, e Entry) error {
	if err := j.remove(e); err != nil {
		return err
	}
	j.dropped.Add(1)
	return nil
}

//nolint:gocritic // Entry is read-only here
func (j *Journal) remove(e Entry) error {
	if err := j.checkOpen(); err != nil {
		return err
	}
	key := pendingKey(e.Seq)
	err := j.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrEntryNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return err
	}
	metrics.SetWALPending(int(j.pending.Add(-1)))
	return nil
}

// MarkFailed records a failed replay attempt.
func (j *Journal) MarkFailed(_ context.Context, e *Entry, cause error) error {
	if err := j.checkOpen(); err != nil {
		return err
	}
	e.Attempts++
	e.LastError = cause.Error()
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	return j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(pendingKey(e.Seq), data)
	})
}

// Pending returns every unconfirmed entry in sequence order.
func (j *Journal) Pending(ctx context.Context) ([]Entry, error) {
	if err := j.checkOpen(); err != nil {
		return nil, err
	}

	var entries []Entry
	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				j.logger.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("skipping unreadable WAL entry")
				continue
			}
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

func (j *Journal) countPending() (int64, error) {
	var n int64
	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixPending)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count pending entries: %w", err)
	}
	return n, nil
}

// RunGC runs one round of Badger value log GC.
func (j *Journal) RunGC() error {
	if err := j.checkOpen(); err != nil {
		return err
	}
	if j.cfg.InMemory {
		return nil
	}
	err := j.db.RunValueLogGC(j.cfg.GCRatio)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Stats returns the journal counters.
func (j *Journal) Stats() Stats {
	return Stats{
		Pending:   j.pending.Load(),
		Appended:  j.appended.Load(),
		Confirmed: j.confirmed.Load(),
		Dropped:   j.dropped.Load(),
	}
}

// Close releases the sequence and closes Badger.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true

	seqErr := j.seq.Release()
	return errors.Join(seqErr, j.db.Close())
}
