// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS foods (
		id INTEGER PRIMARY KEY,
		name VARCHAR NOT NULL,
		cuisine VARCHAR NOT NULL DEFAULT 'Other',
		category VARCHAR NOT NULL DEFAULT 'Other',
		diet VARCHAR,
		spice INTEGER,
		sugar INTEGER,
		description VARCHAR NOT NULL DEFAULT '',
		weather VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS weather_foods (
		weather VARCHAR PRIMARY KEY,
		preferred_foods VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		diet VARCHAR,
		allergies VARCHAR NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS user_preferences (
		user_id INTEGER NOT NULL,
		weather VARCHAR NOT NULL,
		spice INTEGER NOT NULL,
		sugar INTEGER NOT NULL,
		meal_type VARCHAR NOT NULL DEFAULT 'Any',
		PRIMARY KEY (user_id, weather)
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		user_id INTEGER NOT NULL,
		food_id INTEGER NOT NULL,
		rating INTEGER NOT NULL,
		PRIMARY KEY (user_id, food_id)
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		user_id INTEGER NOT NULL,
		food_id INTEGER NOT NULL,
		status VARCHAR NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT current_timestamp,
		PRIMARY KEY (user_id, food_id)
	)`,
	`CREATE SEQUENCE IF NOT EXISTS search_history_seq START 1`,
	`CREATE TABLE IF NOT EXISTS search_history (
		id BIGINT PRIMARY KEY DEFAULT nextval('search_history_seq'),
		user_id INTEGER NOT NULL,
		term VARCHAR NOT NULL,
		searched_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_history_user ON search_history (user_id)`,
}

func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
