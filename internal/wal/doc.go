// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

// Package wal journals user signal writes (feedback, searches, ratings) in
// BadgerDB before they reach the primary store.
//
// Entries are keyed by a monotonically increasing sequence so pending
// entries replay in the order they were accepted, which keeps feedback
// last-write-wins across an outage. A confirmed entry is deleted; there is
// no separate compaction pass beyond Badger's value log GC.
//
// The Replayer is a suture service that periodically applies pending
// entries to the target store.
package wal
