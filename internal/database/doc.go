// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package database is the DuckDB implementation of recommend.Store.

Tables:

	foods             catalog records; diet kept as the raw or canonical text
	weather_foods     weather type -> comma-separated preferred food types
	users             declared diet and allergies
	user_preferences  (user, weather) -> spice, sugar, meal type
	ratings           (user, food) -> 1-10 rating
	feedback          (user, food) -> liked | disliked, last write wins
	search_history    append-only search log

Catalog rows are returned as stored. A diet that does not normalize comes
back as recommend.DietUnknown and missing levels come back as -1, so the
engine can count and exclude them.

ImportCSV seeds an empty database from the foods, users, preferences,
ratings and weather CSV files using DuckDB's read_csv_auto.
*/
package database
