// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package events carries data-change notifications between store decorators
and caches, in-process or across instances.

A write that changes recommendation inputs (catalog, ratings, feedback,
search history) is published as a Change on one topic per kind:

	foodrec.catalog.changed
	foodrec.ratings.changed
	foodrec.feedback.changed
	foodrec.search.recorded

The Bus uses watermill's gochannel pub/sub when no NATS URL is configured
and core NATS (no JetStream) otherwise. Every instance receives every
change; there is no queue group because each one has its own caches.

The Invalidator is a suture service that subscribes to all topics and fans
changes out to registered handlers.
*/
package events
