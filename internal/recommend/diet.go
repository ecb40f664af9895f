// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package recommend

import (
	"strings"
)

// DietType is the two-value dietary classification of foods and users.
type DietType string

const (
	DietUnknown       DietType = ""
	DietVegetarian    DietType = "Vegetarian"
	DietNonVegetarian DietType = "Non-Vegetarian"
)

// Valid reports whether d is one of the two known diet types.
func (d DietType) Valid() bool {
	return d == DietVegetarian || d == DietNonVegetarian
}

// String returns the canonical name, or "Unknown".
func (d DietType) String() string {
	if d == DietUnknown {
		return "Unknown"
	}
	return string(d)
}

// normalizeDietToken lowercases s and strips spaces, hyphens and underscores.
func normalizeDietToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var foodDietTokens = map[string]DietType{
	"vegetarian":    DietVegetarian,
	"veg":           DietVegetarian,
	"nonvegetarian": DietNonVegetarian,
	"nonveg":        DietNonVegetarian,
}

// declaredDietTokens extends foodDietTokens with the free-text values users declare.
var declaredDietTokens = map[string]DietType{
	"vegan":          DietVegetarian,
	"eggetarian":     DietVegetarian,
	"jain":           DietVegetarian,
	"none":           DietNonVegetarian,
	"norestrictions": DietNonVegetarian,
	"norestriction":  DietNonVegetarian,
	"glutenfree":     DietNonVegetarian,
	"keto":           DietNonVegetarian,
	"paleo":          DietNonVegetarian,
}

// ParseDiet parses a catalog diet label. It returns DietUnknown and false when
// the label is not recognised.
func ParseDiet(s string) (DietType, bool) {
	d, ok := foodDietTokens[normalizeDietToken(s)]
	if !ok {
		return DietUnknown, false
	}
	return d, true
}

// ParseDeclaredDiet parses a user's declared dietary preference, mapping
// restrictive diets onto Vegetarian and unrestricted ones onto Non-Vegetarian.
func ParseDeclaredDiet(s string) (DietType, bool) {
	tok := normalizeDietToken(s)
	if d, ok := foodDietTokens[tok]; ok {
		return d, true
	}
	if d, ok := declaredDietTokens[tok]; ok {
		return d, true
	}
	return DietUnknown, false
}

// IsCompatible reports whether a food with diet food may be shown to a user
// whose diet is user. Unknown diets on either side are never compatible.
func IsCompatible(user, food DietType) bool {
	switch user {
	case DietVegetarian:
		return food == DietVegetarian
	case DietNonVegetarian:
		return food == DietNonVegetarian
	default:
		return false
	}
}

// FilterCompatible returns the items compatible with diet, preserving order.
// It is idempotent.
func FilterCompatible(items []FoodItem, diet DietType) []FoodItem {
	out := make([]FoodItem, 0, len(items))
	for i := range items {
		if IsCompatible(diet, items[i].Diet) {
			out = append(out, items[i])
		}
	}
	return out
}
