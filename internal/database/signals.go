// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package database

import (
	"context"
	"fmt"

	"github.com/anuragksng/foodrec/internal/recommend"
)

// GetFeedback returns the user's liked and disliked ids.
func (db *DB) GetFeedback(ctx context.Context, userID int) (recommend.Feedback, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT food_id, status FROM feedback WHERE user_id = ? ORDER BY food_id`, userID)
	if err != nil {
		return recommend.Feedback{}, storeErr("get feedback", err)
	}
	defer db.closeRows(rows)

	var liked, disliked []int
	for rows.Next() {
		var (
			foodID int
			status string
		)
		if err := rows.Scan(&foodID, &status); err != nil {
			return recommend.Feedback{}, storeErr("get feedback", err)
		}
		switch recommend.FeedbackStatus(status) {
		case recommend.StatusLiked:
			liked = append(liked, foodID)
		case recommend.StatusDisliked:
			disliked = append(disliked, foodID)
		}
	}
	if err := rows.Err(); err != nil {
		return recommend.Feedback{}, storeErr("get feedback", err)
	}
	return recommend.NewFeedback(liked, disliked), nil
}

// RecordFeedback upserts the user's status for a food; the latest call wins.
func (db *DB) RecordFeedback(ctx context.Context, userID, foodID int, status recommend.FeedbackStatus) error {
	if !status.Valid() {
		return fmt.Errorf("status %q: %w", status, recommend.ErrInvalidFeedback)
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO feedback (user_id, food_id, status, updated_at) VALUES (?, ?, ?, current_timestamp)
		ON CONFLICT (user_id, food_id) DO UPDATE SET
			status = excluded.status, updated_at = excluded.updated_at`,
		userID, foodID, string(status))
	if err != nil {
		return storeErr("record feedback", err)
	}
	return nil
}

// GetRecentSearches returns up to limit terms, most recent first.
func (db *DB) GetRecentSearches(ctx context.Context, userID, limit int) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT term FROM search_history WHERE user_id = ? ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, storeErr("get recent searches", err)
	}
	defer db.closeRows(rows)

	terms := make([]string, 0, limit)
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, storeErr("get recent searches", err)
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("get recent searches", err)
	}
	return terms, nil
}

// RecordSearch appends term to the search log.
func (db *DB) RecordSearch(ctx context.Context, userID int, term string) error {
	if _, err := db.conn.ExecContext(ctx,
		`INSERT INTO search_history (user_id, term) VALUES (?, ?)`, userID, term,
	); err != nil {
		return storeErr("record search", err)
	}
	return nil
}

// GetRatingMatrix loads every rating.
func (db *DB) GetRatingMatrix(ctx context.Context) (recommend.RatingMatrix, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT user_id, food_id, rating FROM ratings`)
	if err != nil {
		return nil, storeErr("get rating matrix", err)
	}
	defer db.closeRows(rows)

	m := make(recommend.RatingMatrix)
	for rows.Next() {
		var userID, foodID, rating int
		if err := rows.Scan(&userID, &foodID, &rating); err != nil {
			return nil, storeErr("get rating matrix", err)
		}
		m.Set(userID, foodID, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("get rating matrix", err)
	}
	return m, nil
}

// RecordRating upserts one rating.
func (db *DB) RecordRating(ctx context.Context, userID, foodID, rating int) error {
	return upsertRating(ctx, db.conn, userID, foodID, rating)
}

func upsertRating(ctx context.Context, ex execer, userID, foodID, rating int) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO ratings (user_id, food_id, rating) VALUES (?, ?, ?)
		ON CONFLICT (user_id, food_id) DO UPDATE SET rating = excluded.rating`,
		userID, foodID, rating)
	if err != nil {
		return storeErr("record rating", err)
	}
	return nil
}
