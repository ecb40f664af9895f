// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

// Package testinfra starts Docker containers for integration tests.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/events/...
//
// # NATS Container
//
// NewNATSContainer runs a core NATS server for the cross-instance event
// bus:
//
//	func TestBusOverNATS(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    nc, err := testinfra.NewNATSContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, nc.Container)
//
//	    cfg := events.DefaultConfig()
//	    cfg.NATSURL = nc.URL
//	}
//
// Tests skip when no Docker daemon is reachable.
package testinfra
