// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package database

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/anuragksng/foodrec/internal/recommend"
	"github.com/anuragksng/foodrec/internal/store"
)

const foodColumns = `id, name, cuisine, category, diet, spice, sugar, description, weather`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanFood reads one foods row. Unparseable diets become DietUnknown and
// missing levels become -1.
func scanFood(row rowScanner) (recommend.FoodItem, error) {
	var (
		f       recommend.FoodItem
		diet    sql.NullString
		spice   sql.NullInt64
		sugar   sql.NullInt64
		weather string
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Cuisine, &f.Category, &diet, &spice, &sugar, &f.Description, &weather); err != nil {
		return recommend.FoodItem{}, err
	}
	f.Diet, _ = recommend.ParseDiet(diet.String)
	f.Spice = levelOrInvalid(spice)
	f.Sugar = levelOrInvalid(sugar)
	f.Weather, _ = recommend.ParseWeather(weather)
	return f, nil
}

func levelOrInvalid(v sql.NullInt64) int {
	if !v.Valid {
		return -1
	}
	return int(v.Int64)
}

func (db *DB) queryFoods(ctx context.Context, op, query string, args ...any) ([]recommend.FoodItem, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer db.closeRows(rows)

	items := []recommend.FoodItem{}
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, storeErr(op, err)
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return items, nil
}

// GetCatalog returns every food ordered by id.
func (db *DB) GetCatalog(ctx context.Context) ([]recommend.FoodItem, error) {
	return db.queryFoods(ctx, "get catalog", `SELECT `+foodColumns+` FROM foods ORDER BY id`)
}

// GetFood returns one food, or recommend.ErrFoodNotFound.
func (db *DB) GetFood(ctx context.Context, id int) (recommend.FoodItem, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = ?`, id)
	f, err := scanFood(row)
	if errors.Is(err, sql.ErrNoRows) {
		return recommend.FoodItem{}, recommend.ErrFoodNotFound
	}
	if err != nil {
		return recommend.FoodItem{}, storeErr("get food", err)
	}
	return f, nil
}

// UpsertFood inserts or replaces a catalog record.
//
//nolint:gocritic // hugeParam: FoodItem is passed by value across the engine
func (db *DB) UpsertFood(ctx context.Context, f recommend.FoodItem) error {
	return upsertFood(ctx, db.conn, f, string(f.Diet))
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

//nolint:gocritic // hugeParam: FoodItem is passed by value across the engine
func upsertFood(ctx context.Context, ex execer, f recommend.FoodItem, rawDiet string) error {
	var weather string
	if f.Weather != recommend.WeatherAny {
		weather = string(f.Weather)
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO foods (`+foodColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			cuisine = excluded.cuisine,
			category = excluded.category,
			diet = excluded.diet,
			spice = excluded.spice,
			sugar = excluded.sugar,
			description = excluded.description,
			weather = excluded.weather`,
		f.ID, f.Name, f.Cuisine, f.Category, nullString(rawDiet),
		nullLevel(f.Spice), nullLevel(f.Sugar), f.Description, weather)
	if err != nil {
		return storeErr("upsert food", err)
	}
	return nil
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nullLevel(v int) any {
	if v < 0 {
		return nil
	}
	return v
}

// SearchCatalog matches term case-insensitively against name, cuisine,
// category and description. A multi-word term with no hits is retried per
// word longer than two characters.
func (db *DB) SearchCatalog(ctx context.Context, term string) ([]recommend.FoodItem, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []recommend.FoodItem{}, nil
	}

	hits, err := db.searchTerm(ctx, term)
	if err != nil || len(hits) > 0 {
		return hits, err
	}

	seen := make(map[int]struct{})
	for _, word := range store.FallbackWords(term) {
		more, err := db.searchTerm(ctx, word)
		if err != nil {
			return nil, err
		}
		for _, f := range more {
			if _, dup := seen[f.ID]; dup {
				continue
			}
			seen[f.ID] = struct{}{}
			hits = append(hits, f)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	return hits, nil
}

func (db *DB) searchTerm(ctx context.Context, term string) ([]recommend.FoodItem, error) {
	return db.queryFoods(ctx, "search catalog", `
		SELECT `+foodColumns+` FROM foods
		WHERE contains(lower(name), lower(?))
		   OR contains(lower(cuisine), lower(?))
		   OR contains(lower(category), lower(?))
		   OR contains(lower(description), lower(?))
		ORDER BY id`, term, term, term, term)
}

// GetWeatherFoodTypes splits the comma-separated preferred food list for w.
func (db *DB) GetWeatherFoodTypes(ctx context.Context, w recommend.WeatherType) ([]string, error) {
	var list string
	err := db.conn.QueryRowContext(ctx,
		`SELECT preferred_foods FROM weather_foods WHERE lower(weather) = lower(?)`, w.String(),
	).Scan(&list)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, storeErr("get weather food types", err)
	}
	return splitList(list), nil
}

// SetWeatherFoodTypes replaces the preferred food list for w.
func (db *DB) SetWeatherFoodTypes(ctx context.Context, w recommend.WeatherType, types []string) error {
	return setWeatherFoodTypes(ctx, db.conn, w.String(), strings.Join(types, ","))
}

func setWeatherFoodTypes(ctx context.Context, ex execer, weather, list string) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO weather_foods (weather, preferred_foods) VALUES (?, ?)
		ON CONFLICT (weather) DO UPDATE SET preferred_foods = excluded.preferred_foods`,
		weather, list)
	if err != nil {
		return storeErr("set weather food types", err)
	}
	return nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
