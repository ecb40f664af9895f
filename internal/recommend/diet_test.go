// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"testing"
)

func TestParseDiet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   DietType
		wantOK bool
	}{
		{"Vegetarian", DietVegetarian, true},
		{"veg", DietVegetarian, true},
		{"  VEG ", DietVegetarian, true},
		{"Non-Vegetarian", DietNonVegetarian, true},
		{"NonVegetarian", DietNonVegetarian, true},
		{"non veg", DietNonVegetarian, true},
		{"Non-Veg", DietNonVegetarian, true},
		{"vegan", DietUnknown, false},
		{"", DietUnknown, false},
		{"meat", DietUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDiet(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseDiet(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseDeclaredDiet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want DietType
	}{
		{"Vegetarian", DietVegetarian},
		{"Vegan", DietVegetarian},
		{"Eggetarian", DietVegetarian},
		{"Jain", DietVegetarian},
		{"Non-Vegetarian", DietNonVegetarian},
		{"None", DietNonVegetarian},
		{"No Restrictions", DietNonVegetarian},
		{"Gluten-Free", DietNonVegetarian},
		{"keto", DietNonVegetarian},
		{"Paleo", DietNonVegetarian},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDeclaredDiet(tt.in)
			if !ok || got != tt.want {
				t.Errorf("ParseDeclaredDiet(%q) = (%v, %v), want (%v, true)", tt.in, got, ok, tt.want)
			}
		})
	}

	if _, ok := ParseDeclaredDiet("pescatarian"); ok {
		t.Error("ParseDeclaredDiet(pescatarian) ok = true, want false")
	}
}

func TestIsCompatible(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user DietType
		food DietType
		want bool
	}{
		{"veg user veg food", DietVegetarian, DietVegetarian, true},
		{"veg user non-veg food", DietVegetarian, DietNonVegetarian, false},
		{"non-veg user non-veg food", DietNonVegetarian, DietNonVegetarian, true},
		{"non-veg user veg food", DietNonVegetarian, DietVegetarian, false},
		{"unknown food", DietVegetarian, DietUnknown, false},
		{"unknown user", DietUnknown, DietVegetarian, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsCompatible(tt.user, tt.food); got != tt.want {
				t.Errorf("IsCompatible(%v, %v) = %v, want %v", tt.user, tt.food, got, tt.want)
			}
		})
	}
}

func TestFilterCompatible(t *testing.T) {
	t.Parallel()

	items := []FoodItem{
		veg(3, 1, 1, WeatherCold),
		nonVeg(1, 1, 1, WeatherCold),
		veg(2, 1, 1, WeatherHot),
		{ID: 4, Diet: DietUnknown},
	}

	t.Run("keeps order", func(t *testing.T) {
		t.Parallel()
		got := ids(FilterCompatible(items, DietVegetarian))
		if want := []int{3, 2}; !equalInts(got, want) {
			t.Errorf("FilterCompatible() = %v, want %v", got, want)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		for _, d := range []DietType{DietVegetarian, DietNonVegetarian, DietUnknown} {
			once := FilterCompatible(items, d)
			twice := FilterCompatible(once, d)
			if !equalInts(ids(once), ids(twice)) {
				t.Errorf("diet %v: filter twice = %v, once = %v", d, ids(twice), ids(once))
			}
		}
	})

	t.Run("nil input gives empty slice", func(t *testing.T) {
		t.Parallel()
		if got := FilterCompatible(nil, DietVegetarian); got == nil || len(got) != 0 {
			t.Errorf("FilterCompatible(nil) = %#v, want empty non-nil", got)
		}
	})
}

func TestFoodItemValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		item    FoodItem
		wantErr bool
	}{
		{"valid", veg(1, 5, 5, WeatherCold), false},
		{"missing diet", FoodItem{ID: 2, Spice: 1, Sugar: 1}, true},
		{"spice too high", FoodItem{ID: 3, Diet: DietVegetarian, Spice: 11}, true},
		{"negative sugar", FoodItem{ID: 4, Diet: DietVegetarian, Sugar: -1}, true},
		{"zero id", FoodItem{Diet: DietVegetarian}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.item.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsDataQuality(err) {
				t.Errorf("Validate() error = %T, want *DataQualityError", err)
			}
		})
	}
}
