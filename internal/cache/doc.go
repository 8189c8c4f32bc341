// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package cache provides the result cache used by the recommendation engine.

# Overview

Values are opaque byte slices stored under string keys with a per-entry
time-to-live. Three backends are available:

  - memory: in-process map with TTL expiry and a size cap
  - badger: embedded persistent store (dgraph-io/badger) using native entry TTLs
  - redis: shared cache for multi-instance deployments (redis/go-redis)

A fourth backend, none, disables caching.

# Failure Handling

Backends return errors. Breaker wraps a backend with a circuit breaker
(sony/gobreaker) and converts every failure into a miss on Get and false on
Set, so cache trouble never reaches callers. Misses do not count as failures.
Once the breaker opens, requests are short-circuited until the timeout expires.

# Keys

Keys follow the recommendation layout:

	rec:{user}:{product}_{category}_{topN}   recommendation lists
	trending:{category}                      trending lists
	similarity:{product}                     precomputed neighbors

InvalidateUser and InvalidateProduct delete by prefix.

# Usage Example

	c, err := cache.New(cache.Config{Backend: "memory", MaxEntries: 10000}, logger)
	if err != nil {
	    return err
	}
	defer c.Close()

	c.Set(ctx, "trending:all", data, 15*time.Minute)
	if data, ok := c.Get(ctx, "trending:all"); ok {
	    // use data
	}

# Metrics

Every operation is counted in hybridrec_cache_operations_total with the
backend name, the operation and the result.
*/
package cache
