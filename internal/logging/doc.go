// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package logging provides centralized zerolog-based logging.

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json"})

	logging.Info().Msg("server starting")
	logging.Err(err).Msg("import failed")

	// request-scoped fields (request_id, correlation_id, user_id)
	logging.Ctx(ctx).Info().Int("food_id", id).Msg("feedback recorded")

Components take a child logger:

	logger := logging.WithComponent("store")

# Adapters

Some libraries want their own logger type. Both adapters write through
zerolog so every line shares the same format and level:

  - NewSlogLogger for sutureslog (supervisor events)
  - NewWatermillLogger for watermill publishers and subscribers

# Best Practices

Always terminate log chains with .Msg() or .Send(), and prefer structured
fields over Msgf.
*/
package logging
