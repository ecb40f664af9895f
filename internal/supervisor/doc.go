// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package supervisor runs the long-lived foodrec services under a suture
supervisor tree.

The tree has three layers, each its own child supervisor:

	foodrec
	├── data-layer      WAL replayer, WAL value-log GC
	├── events-layer    change invalidator
	└── api-layer       HTTP server

A crash in one layer restarts only that layer's service. Supervisor events
are logged through sutureslog, which main wires to zerolog via
logging.NewSlogLogger.

Service adapters that are not part of a domain package live in the
services subpackage.
*/
package supervisor
