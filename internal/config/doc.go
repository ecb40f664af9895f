// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

/*
Package config loads the service configuration.

Configuration is layered with Koanf v2, later sources overriding earlier ones:

 1. Defaults: each component's DefaultConfig
 2. Config file: optional YAML (CONFIG_PATH, ./config.yaml, /etc/foodrec/config.yaml)
 3. Environment variables: an explicit mapping table (see envMappings)

Unknown environment variables are ignored so the process environment cannot
leak into the configuration tree.

# Sections

  - server: HTTP listener, CORS origins, rate limit
  - database: DuckDB file and resource limits
  - import: CSV seed directory
  - store: retry policy and circuit breaker
  - snapshot: snapshot cache TTL
  - recommend: engine limits and response cache
  - wal: badger signal journal
  - events: change event bus (gochannel or NATS)
  - logging: zerolog level and format

# Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Server.Addr())
*/
package config
