// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/anuragksng/foodrec/internal/recommend"
)

// GetUserProfile loads the declared diet, allergies and per-weather preferences.
func (db *DB) GetUserProfile(ctx context.Context, userID int) (*recommend.UserProfile, error) {
	var (
		diet      sql.NullString
		allergies string
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT diet, allergies FROM users WHERE id = ?`, userID,
	).Scan(&diet, &allergies)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, recommend.ErrUserNotFound)
	}
	if err != nil {
		return nil, storeErr("get user profile", err)
	}

	p := &recommend.UserProfile{
		ID:          userID,
		Preferences: make(map[recommend.WeatherType]recommend.Preference),
		Allergies:   splitAllergies(allergies),
	}
	p.Diet, _ = recommend.ParseDeclaredDiet(diet.String)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT weather, spice, sugar, meal_type FROM user_preferences WHERE user_id = ?`, userID)
	if err != nil {
		return nil, storeErr("get user preferences", err)
	}
	defer db.closeRows(rows)

	for rows.Next() {
		var (
			weather string
			pref    recommend.Preference
		)
		if err := rows.Scan(&weather, &pref.Spice, &pref.Sugar, &pref.MealType); err != nil {
			return nil, storeErr("get user preferences", err)
		}
		w, ok := recommend.ParseWeather(weather)
		if !ok {
			db.logger.Debug().Int("user_id", userID).Str("weather", weather).Msg("skipping preference for unknown weather")
			continue
		}
		p.Preferences[w] = pref
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("get user preferences", err)
	}
	return p, nil
}

// UpsertProfile replaces the user's diet, allergies and preferences.
func (db *DB) UpsertProfile(ctx context.Context, p *recommend.UserProfile) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("upsert profile", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := upsertUser(ctx, tx, p.ID, string(p.Diet), strings.Join(p.Allergies, ",")); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = ?`, p.ID); err != nil {
		return storeErr("upsert profile", err)
	}
	for w, pref := range p.Preferences {
		if err := upsertPreference(ctx, tx, p.ID, string(w), pref); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return storeErr("upsert profile", err)
	}
	return nil
}

func upsertUser(ctx context.Context, ex execer, id int, diet, allergies string) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO users (id, diet, allergies) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET diet = excluded.diet, allergies = excluded.allergies`,
		id, nullString(diet), allergies)
	if err != nil {
		return storeErr("upsert user", err)
	}
	return nil
}

func upsertPreference(ctx context.Context, ex execer, userID int, weather string, pref recommend.Preference) error {
	meal := strings.TrimSpace(pref.MealType)
	if meal == "" {
		meal = recommend.MealTypeAny
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, weather, spice, sugar, meal_type) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, weather) DO UPDATE SET
			spice = excluded.spice, sugar = excluded.sugar, meal_type = excluded.meal_type`,
		userID, weather, pref.Spice, pref.Sugar, meal)
	if err != nil {
		return storeErr("upsert preference", err)
	}
	return nil
}

func splitAllergies(s string) []string {
	if strings.EqualFold(strings.TrimSpace(s), "none") {
		return nil
	}
	list := splitList(s)
	if len(list) == 0 {
		return nil
	}
	return list
}
