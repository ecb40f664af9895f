// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package main

import (
	"context"

	"github.com/anuragksng/foodrec/internal/recommend"
	"github.com/anuragksng/foodrec/internal/store"
)

var demoFoods = []recommend.FoodItem{
	{ID: 1, Name: "Tomato Soup", Cuisine: "Continental", Category: "Soup", Diet: recommend.DietVegetarian, Spice: 2, Sugar: 3, Description: "Warm tomato soup", Weather: recommend.WeatherCold},
	{ID: 2, Name: "Chicken Curry", Cuisine: "Indian", Category: "Main Course", Diet: recommend.DietNonVegetarian, Spice: 4, Sugar: 1, Description: "Spicy chicken curry", Weather: recommend.WeatherCold},
	{ID: 3, Name: "Masala Chai", Cuisine: "Indian", Category: "Beverage", Diet: recommend.DietVegetarian, Spice: 2, Sugar: 4, Description: "Spiced milk tea", Weather: recommend.WeatherRainy},
	{ID: 4, Name: "Pakora", Cuisine: "Indian", Category: "Snack", Diet: recommend.DietVegetarian, Spice: 3, Sugar: 1, Description: "Fried vegetable fritters", Weather: recommend.WeatherRainy},
	{ID: 5, Name: "Mango Lassi", Cuisine: "Indian", Category: "Beverage", Diet: recommend.DietVegetarian, Spice: 1, Sugar: 5, Description: "Chilled mango yogurt drink", Weather: recommend.WeatherHot},
	{ID: 6, Name: "Greek Salad", Cuisine: "Mediterranean", Category: "Salad", Diet: recommend.DietVegetarian, Spice: 1, Sugar: 2, Description: "Cucumber, tomato and feta", Weather: recommend.WeatherHot},
	{ID: 7, Name: "Grilled Fish", Cuisine: "Mediterranean", Category: "Main Course", Diet: recommend.DietNonVegetarian, Spice: 2, Sugar: 1, Description: "Lemon herb grilled fish", Weather: recommend.WeatherHumid},
	{ID: 8, Name: "Coconut Water", Cuisine: "Thai", Category: "Beverage", Diet: recommend.DietVegetarian, Spice: 1, Sugar: 3, Description: "Fresh coconut water", Weather: recommend.WeatherHumid},
	{ID: 9, Name: "Ramen", Cuisine: "Japanese", Category: "Soup", Diet: recommend.DietNonVegetarian, Spice: 3, Sugar: 2, Description: "Pork broth noodle soup", Weather: recommend.WeatherWindy},
	{ID: 10, Name: "Vegetable Stew", Cuisine: "Continental", Category: "Main Course", Diet: recommend.DietVegetarian, Spice: 2, Sugar: 2, Description: "Hearty root vegetable stew", Weather: recommend.WeatherWindy},
	{ID: 11, Name: "Paneer Tikka", Cuisine: "Indian", Category: "Starter", Diet: recommend.DietVegetarian, Spice: 4, Sugar: 1, Description: "Grilled spiced cottage cheese", Weather: recommend.WeatherCold},
	{ID: 12, Name: "Pad Thai", Cuisine: "Thai", Category: "Main Course", Diet: recommend.DietNonVegetarian, Spice: 3, Sugar: 3, Description: "Stir fried rice noodles with shrimp", Weather: recommend.WeatherHumid},
}

var demoWeatherTypes = map[recommend.WeatherType][]string{
	recommend.WeatherCold:  {"Soup", "Main Course", "Starter"},
	recommend.WeatherHot:   {"Beverage", "Salad"},
	recommend.WeatherRainy: {"Snack", "Beverage"},
	recommend.WeatherHumid: {"Beverage", "Main Course"},
	recommend.WeatherWindy: {"Soup", "Main Course"},
}

var demoProfiles = []*recommend.UserProfile{
	{ID: 1, Diet: recommend.DietVegetarian, Preferences: map[recommend.WeatherType]recommend.Preference{
		recommend.WeatherCold: {Spice: 3, Sugar: 2, MealType: "Soup"},
		recommend.WeatherHot:  {Spice: 1, Sugar: 4, MealType: recommend.MealTypeAny},
	}},
	{ID: 2, Diet: recommend.DietNonVegetarian, Preferences: map[recommend.WeatherType]recommend.Preference{
		recommend.WeatherCold: {Spice: 4, Sugar: 1, MealType: "Main Course"},
	}},
	{ID: 3, Diet: recommend.DietNonVegetarian},
}

var demoRatings = []struct{ user, food, rating int }{
	{1, 1, 9}, {1, 3, 8}, {1, 11, 7},
	{2, 2, 9}, {2, 9, 8}, {2, 1, 6},
	{3, 2, 8}, {3, 12, 9}, {3, 7, 7},
}

// newDemoStore returns an in-memory store with a small fixed catalog.
func newDemoStore() *store.Memory {
	ctx := context.Background()
	m := store.NewMemory()
	for _, f := range demoFoods {
		_ = m.UpsertFood(ctx, f)
	}
	for w, types := range demoWeatherTypes {
		m.SetWeatherFoodTypes(w, types)
	}
	for _, p := range demoProfiles {
		_ = m.UpsertProfile(ctx, p)
	}
	for _, r := range demoRatings {
		_ = m.RecordRating(ctx, r.user, r.food, r.rating)
	}
	return m
}
