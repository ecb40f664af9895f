// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

// Package services adapts blocking servers and periodic jobs to
// suture.Service so the supervisor tree can restart them.
package services
