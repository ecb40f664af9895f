// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package models defines the HTTP request and response structures.

Every endpoint answers with APIResponse:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {
	    "timestamp": "2026-01-15T12:00:00Z",
	    "query_time_ms": 12,
	    "request_id": "b4f1..."
	  }
	}

Error responses set status to "error" and fill the error object with a
machine-readable code and a message safe to show to users. Request bodies
carry validate tags checked by the validation package.
*/
package models
