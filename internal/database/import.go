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
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anuragksng/foodrec/internal/recommend"
)

// Source file names inside the import directory.
const (
	FoodsFile             = "food.csv"
	StandardizedFoodsFile = "food_standardized.csv"
	UsersFile             = "user.csv"
	PreferencesFile       = "user_preferences.csv"
	RatingsFile           = "ratings.csv"
	WeatherFile           = "weather.csv"
)

// ImportResult counts what ImportCSV loaded.
type ImportResult struct {
	Skipped     bool `json:"skipped"`
	Foods       int  `json:"foods"`
	Users       int  `json:"users"`
	Preferences int  `json:"preferences"`
	Ratings     int  `json:"ratings"`
	Weather     int  `json:"weather"`
	Rejected    int  `json:"rejected"`
}

// ImportCSV loads the seed CSV files from dir. It does nothing when the
// users table already has rows. The foods file is required; the others are
// loaded when present. Everything runs in one transaction.
func (db *DB) ImportCSV(ctx context.Context, dir string) (*ImportResult, error) {
	var users int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&users); err != nil {
		return nil, storeErr("import", err)
	}
	if users > 0 {
		db.logger.Info().Int("users", users).Msg("database already seeded, skipping CSV import")
		return &ImportResult{Skipped: true}, nil
	}

	foodsPath := filepath.Join(dir, StandardizedFoodsFile)
	if !fileExists(foodsPath) {
		foodsPath = filepath.Join(dir, FoodsFile)
	}
	if !fileExists(foodsPath) {
		return nil, fmt.Errorf("import: %s not found in %s", FoodsFile, dir)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("import", err)
	}
	defer func() { _ = tx.Rollback() }()

	res := &ImportResult{}
	steps := []struct {
		path string
		load func(context.Context, *sql.Tx, string, *ImportResult) error
	}{
		{foodsPath, db.importFoods},
		{filepath.Join(dir, UsersFile), db.importUsers},
		{filepath.Join(dir, PreferencesFile), db.importPreferences},
		{filepath.Join(dir, RatingsFile), db.importRatings},
		{filepath.Join(dir, WeatherFile), db.importWeather},
	}
	for _, step := range steps {
		if !fileExists(step.path) {
			db.logger.Warn().Str("file", step.path).Msg("seed file missing, skipping")
			continue
		}
		if err := step.load(ctx, tx, step.path, res); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("import", err)
	}

	db.logger.Info().
		Int("foods", res.Foods).
		Int("users", res.Users).
		Int("preferences", res.Preferences).
		Int("ratings", res.Ratings).
		Int("weather", res.Weather).
		Int("rejected", res.Rejected).
		Msg("CSV import complete")
	return res, nil
}

func (db *DB) importFoods(ctx context.Context, tx *sql.Tx, path string, res *ImportResult) error {
	cols := []string{"Food_ID", "Dish_Name", "Cuisine_Type", "Veg_Non", "Describe", "Spice_Level", "Sugar_Level", "Dish_Category", "Weather_Type"}
	return readCSV(ctx, tx, path, cols, func(r csvRow) error {
		id, ok := parseInt(r.get("Food_ID"))
		name := r.get("Dish_Name")
		if !ok || id <= 0 || name == "" {
			res.Rejected++
			db.logger.Warn().Str("file", path).Str("food_id", r.get("Food_ID")).Msg("rejecting food row")
			return nil
		}

		raw := r.get("Veg_Non")
		diet := raw
		if d, ok := recommend.ParseDiet(raw); ok {
			diet = string(d)
		}
		weather, _ := recommend.ParseWeather(r.get("Weather_Type"))

		f := recommend.FoodItem{
			ID:          id,
			Name:        name,
			Cuisine:     orDefault(r.get("Cuisine_Type"), "Other"),
			Category:    orDefault(r.get("Dish_Category"), "Other"),
			Spice:       levelOrMissing(r.get("Spice_Level")),
			Sugar:       levelOrMissing(r.get("Sugar_Level")),
			Description: orDefault(r.get("Describe"), "No description available"),
			Weather:     weather,
		}
		if err := upsertFood(ctx, tx, f, diet); err != nil {
			return err
		}
		res.Foods++
		return nil
	})
}

func (db *DB) importUsers(ctx context.Context, tx *sql.Tx, path string, res *ImportResult) error {
	cols := []string{"User_ID", "Dietary_Preferences", "Allergies"}
	return readCSV(ctx, tx, path, cols, func(r csvRow) error {
		id, ok := parseInt(r.get("User_ID"))
		if !ok || id <= 0 {
			res.Rejected++
			return nil
		}
		raw := r.get("Dietary_Preferences")
		diet := raw
		if d, ok := recommend.ParseDeclaredDiet(raw); ok {
			diet = string(d)
		}
		if err := upsertUser(ctx, tx, id, diet, r.get("Allergies")); err != nil {
			return err
		}
		res.Users++
		return nil
	})
}

func (db *DB) importPreferences(ctx context.Context, tx *sql.Tx, path string, res *ImportResult) error {
	cols := []string{"User_ID", "Weather_Type", "Spice_Preference", "Sugar_Preference", "Meal_Type"}
	return readCSV(ctx, tx, path, cols, func(r csvRow) error {
		id, ok := parseInt(r.get("User_ID"))
		w, wok := recommend.ParseWeather(r.get("Weather_Type"))
		if !ok || id <= 0 || !wok {
			res.Rejected++
			return nil
		}
		spice, _ := parseInt(r.get("Spice_Preference"))
		sugar, _ := parseInt(r.get("Sugar_Preference"))
		pref := recommend.Preference{
			Spice:    spice,
			Sugar:    sugar,
			MealType: orDefault(r.get("Meal_Type"), recommend.MealTypeAny),
		}
		if err := upsertPreference(ctx, tx, id, string(w), pref); err != nil {
			return err
		}
		res.Preferences++
		return nil
	})
}

func (db *DB) importRatings(ctx context.Context, tx *sql.Tx, path string, res *ImportResult) error {
	cols := []string{"User_ID", "Food_ID", "Rating"}
	return readCSV(ctx, tx, path, cols, func(r csvRow) error {
		userID, uok := parseInt(r.get("User_ID"))
		foodID, fok := parseInt(r.get("Food_ID"))
		rating, rok := parseInt(r.get("Rating"))
		if !uok || !fok || !rok || rating < 1 || rating > 10 {
			res.Rejected++
			return nil
		}
		if err := upsertRating(ctx, tx, userID, foodID, rating); err != nil {
			return err
		}
		res.Ratings++
		return nil
	})
}

func (db *DB) importWeather(ctx context.Context, tx *sql.Tx, path string, res *ImportResult) error {
	cols := []string{"Weather_Type", "Preferred_Foods"}
	return readCSV(ctx, tx, path, cols, func(r csvRow) error {
		w, ok := recommend.ParseWeather(r.get("Weather_Type"))
		if !ok {
			res.Rejected++
			return nil
		}
		if err := setWeatherFoodTypes(ctx, tx, string(w), strings.Join(splitList(r.get("Preferred_Foods")), ",")); err != nil {
			return err
		}
		res.Weather++
		return nil
	})
}

type csvRow map[string]string

func (r csvRow) get(col string) string {
	return strings.TrimSpace(r[col])
}

// readCSV reads cols from path with read_csv_auto and calls fn per row.
// The whole result is read before fn runs so fn can write on the same tx.
func readCSV(ctx context.Context, tx *sql.Tx, path string, cols []string, fn func(csvRow) error) error {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	query := fmt.Sprintf(
		`SELECT %s FROM read_csv_auto('%s', header = true, all_varchar = true)`,
		strings.Join(quoted, ", "), strings.ReplaceAll(path, "'", "''"),
	)

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	var records []csvRow
	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			closeQuietly(rows)
			return fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		rec := make(csvRow, len(cols))
		for i, c := range cols {
			rec[c] = values[i].String
		}
		records = append(records, rec)
	}
	err = errors.Join(rows.Err(), rows.Close())
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	for _, rec := range records {
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// parseInt accepts integers and integral floats such as "5.0".
func parseInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func levelOrMissing(s string) int {
	v, ok := parseInt(s)
	if !ok {
		return -1
	}
	return v
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
