// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/anuragksng/foodrec/internal/recommend"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "nested", "foodrec.duckdb")
	cfg.Threads = 1
	cfg.MaxMemory = "256MB"
	db, err := Open(&cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	cfg.Threads = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative threads accepted")
	}
	cfg = DefaultConfig()
	cfg.MaxMemory = " "
	if err := cfg.Validate(); err == nil {
		t.Error("blank max_memory accepted")
	}
}

func TestOpenCreatesSchema(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatal(err)
	}
	items, err := db.GetCatalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("empty catalog = %v, want []", items)
	}
}

func TestFoodRoundTripAndDataQuality(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	good := recommend.FoodItem{ID: 2, Name: "Rasam", Cuisine: "South Indian", Category: "Soup",
		Diet: recommend.DietVegetarian, Spice: 6, Sugar: 1, Description: "peppery", Weather: recommend.WeatherRainy}
	if err := db.UpsertFood(ctx, good); err != nil {
		t.Fatal(err)
	}
	bad := recommend.FoodItem{ID: 1, Name: "Mystery", Diet: "Pescatarian", Spice: -1, Sugar: 3}
	if err := db.UpsertFood(ctx, bad); err != nil {
		t.Fatal(err)
	}

	items, err := db.GetCatalog(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != 1 || items[1].ID != 2 {
		t.Fatalf("catalog = %+v", items)
	}
	if items[1] != good {
		t.Errorf("round trip = %+v, want %+v", items[1], good)
	}
	if items[0].Diet != recommend.DietUnknown || items[0].Spice != -1 {
		t.Errorf("bad row = %+v, want unknown diet and spice -1", items[0])
	}
	if !recommend.IsDataQuality(items[0].Validate()) {
		t.Error("bad row passes validation")
	}

	got, err := db.GetFood(ctx, 2)
	if err != nil || got.Name != "Rasam" {
		t.Errorf("GetFood = %+v, %v", got, err)
	}
	if _, err := db.GetFood(ctx, 99); !errors.Is(err, recommend.ErrFoodNotFound) {
		t.Errorf("GetFood(99) = %v", err)
	}
}

func TestSearchCatalogFallback(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()
	for _, f := range []recommend.FoodItem{
		{ID: 1, Name: "Tomato Soup", Cuisine: "Continental", Category: "Soup", Diet: recommend.DietVegetarian, Spice: 2, Sugar: 3},
		{ID: 2, Name: "Masala Chai", Cuisine: "Indian", Category: "Beverage", Diet: recommend.DietVegetarian, Spice: 3, Sugar: 6},
		{ID: 3, Name: "Fish Curry", Cuisine: "Goan", Category: "Main", Diet: recommend.DietNonVegetarian, Spice: 8, Sugar: 1, Description: "Tangy coconut gravy"},
	} {
		if err := db.UpsertFood(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		term string
		want []int
	}{
		{"SOUP", []int{1}},
		{"coconut", []int{3}},
		{"spicy chai or soup", []int{1, 2}},
		{"xx yy", nil},
		{"", nil},
	}
	for _, tt := range tests {
		got, err := db.SearchCatalog(ctx, tt.term)
		if err != nil {
			t.Fatalf("SearchCatalog(%q): %v", tt.term, err)
		}
		if len(got) != len(tt.want) {
			t.Errorf("SearchCatalog(%q) = %d items, want %v", tt.term, len(got), tt.want)
			continue
		}
		for i, id := range tt.want {
			if got[i].ID != id {
				t.Errorf("SearchCatalog(%q)[%d] = %d, want %d", tt.term, i, got[i].ID, id)
			}
		}
	}
}

func TestProfileRoundTrip(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	if _, err := db.GetUserProfile(ctx, 1); !errors.Is(err, recommend.ErrUserNotFound) {
		t.Fatalf("missing user = %v", err)
	}

	p := &recommend.UserProfile{
		ID:   1,
		Diet: recommend.DietVegetarian,
		Preferences: map[recommend.WeatherType]recommend.Preference{
			recommend.WeatherCold: {Spice: 5, Sugar: 5, MealType: "Soup"},
			recommend.WeatherHot:  {Spice: 2, Sugar: 7},
		},
		Allergies: []string{"peanut", "shellfish"},
	}
	if err := db.UpsertProfile(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetUserProfile(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Diet != recommend.DietVegetarian || len(got.Allergies) != 2 {
		t.Errorf("profile = %+v", got)
	}
	if got.Preferences[recommend.WeatherCold].MealType != "Soup" {
		t.Errorf("cold pref = %+v", got.Preferences[recommend.WeatherCold])
	}
	if got.Preferences[recommend.WeatherHot].MealType != recommend.MealTypeAny {
		t.Errorf("blank meal type not defaulted: %+v", got.Preferences[recommend.WeatherHot])
	}

	p.Preferences = map[recommend.WeatherType]recommend.Preference{recommend.WeatherWindy: {Spice: 1, Sugar: 1}}
	if err := db.UpsertProfile(ctx, p); err != nil {
		t.Fatal(err)
	}
	got, _ = db.GetUserProfile(ctx, 1)
	if len(got.Preferences) != 1 {
		t.Errorf("preferences not replaced: %+v", got.Preferences)
	}
}

func TestSignals(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.RecordFeedback(ctx, 1, 10, recommend.StatusLiked); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordFeedback(ctx, 1, 10, recommend.StatusDisliked); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordFeedback(ctx, 1, 11, recommend.StatusLiked); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordFeedback(ctx, 1, 11, "meh"); !errors.Is(err, recommend.ErrInvalidFeedback) {
		t.Errorf("invalid status = %v", err)
	}
	fb, err := db.GetFeedback(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !fb.IsDisliked(10) || !fb.IsLiked(11) || fb.IsLiked(10) {
		t.Errorf("feedback liked=%v disliked=%v", fb.LikedIDs(), fb.DislikedIDs())
	}

	for _, term := range []string{"soup", "chai", "dal", "kheer"} {
		if err := db.RecordSearch(ctx, 1, term); err != nil {
			t.Fatal(err)
		}
	}
	terms, err := db.GetRecentSearches(ctx, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 3 || terms[0] != "kheer" || terms[2] != "chai" {
		t.Errorf("recent searches = %v", terms)
	}

	if err := db.RecordRating(ctx, 1, 10, 4); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordRating(ctx, 1, 10, 9); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordRating(ctx, 2, 11, 7); err != nil {
		t.Fatal(err)
	}
	m, err := db.GetRatingMatrix(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if m[1][10] != 9 || m[2][11] != 7 || len(m) != 2 {
		t.Errorf("matrix = %v", m)
	}
}

func TestWeatherFoodTypes(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	ctx := context.Background()

	got, err := db.GetWeatherFoodTypes(ctx, recommend.WeatherCold)
	if err != nil || len(got) != 0 {
		t.Fatalf("unset weather = %v, %v", got, err)
	}
	if err := db.SetWeatherFoodTypes(ctx, recommend.WeatherCold, []string{"Soup", "Tea"}); err != nil {
		t.Fatal(err)
	}
	got, _ = db.GetWeatherFoodTypes(ctx, recommend.WeatherCold)
	if len(got) != 2 || got[0] != "Soup" || got[1] != "Tea" {
		t.Errorf("weather types = %v", got)
	}
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestImportCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, FoodsFile, `Food_ID,Dish_Name,Cuisine_Type,Veg_Non,Describe,Spice_Level,Sugar_Level,Dish_Category,Weather_Type
1,Tomato Soup,Continental,veg,Warm soup,2,3,Soup,Cold
2,Chicken Curry,Indian,Non-Veg,,7,2,Main,Cold
3,Odd Dish,Fusion,Pescatarian,,4,4,Main,Hot
4,Broken Levels,Fusion,Veg,,high,2.0,Snack,Hot
x,Bad Id,Fusion,Veg,,1,1,Snack,Hot
`)
	writeFile(t, dir, UsersFile, `User_ID,Age,Gender,Dietary_Preferences,Allergies
1,25,F,Vegan,None
2,30,M,No Restrictions,"peanut,soy"
`)
	writeFile(t, dir, PreferencesFile, `User_ID,Weather_Type,Spice_Preference,Sugar_Preference,Meal_Type
1,Cold,5,5,
1,Stormy,5,5,Any
`)
	writeFile(t, dir, RatingsFile, `User_ID,Food_ID,Rating
1,1,8
2,2,11
2,1,
`)
	writeFile(t, dir, WeatherFile, `Weather_Type,Preferred_Foods
Cold,"Soup, Tea ,"
`)

	db := openTestDB(t)
	ctx := context.Background()

	res, err := db.ImportCSV(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	want := ImportResult{Foods: 4, Users: 2, Preferences: 1, Ratings: 1, Weather: 1, Rejected: 4}
	if *res != want {
		t.Errorf("ImportCSV = %+v, want %+v", *res, want)
	}

	catalog, _ := db.GetCatalog(ctx)
	if catalog[0].Diet != recommend.DietVegetarian || catalog[0].Description != "Warm soup" {
		t.Errorf("food 1 = %+v", catalog[0])
	}
	if catalog[1].Diet != recommend.DietNonVegetarian || catalog[1].Description != "No description available" {
		t.Errorf("food 2 = %+v", catalog[1])
	}
	if catalog[2].Diet != recommend.DietUnknown {
		t.Errorf("food 3 diet = %q, want unknown", catalog[2].Diet)
	}
	if catalog[3].Spice != -1 || catalog[3].Sugar != 2 {
		t.Errorf("food 4 levels = %d/%d", catalog[3].Spice, catalog[3].Sugar)
	}

	u1, _ := db.GetUserProfile(ctx, 1)
	if u1.Diet != recommend.DietVegetarian || u1.Allergies != nil {
		t.Errorf("user 1 = %+v", u1)
	}
	if u1.Preferences[recommend.WeatherCold].MealType != recommend.MealTypeAny {
		t.Errorf("user 1 cold pref = %+v", u1.Preferences[recommend.WeatherCold])
	}
	u2, _ := db.GetUserProfile(ctx, 2)
	if u2.Diet != recommend.DietNonVegetarian || len(u2.Allergies) != 2 {
		t.Errorf("user 2 = %+v", u2)
	}

	types, _ := db.GetWeatherFoodTypes(ctx, recommend.WeatherCold)
	if len(types) != 2 || types[1] != "Tea" {
		t.Errorf("cold types = %v", types)
	}

	again, err := db.ImportCSV(ctx, dir)
	if err != nil || !again.Skipped {
		t.Errorf("second import = %+v, %v", again, err)
	}
}

func TestImportCSVRequiresFoods(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	if _, err := db.ImportCSV(context.Background(), t.TempDir()); err == nil {
		t.Error("import without foods file succeeded")
	}
}
