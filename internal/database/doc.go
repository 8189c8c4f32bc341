// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package database provides the product catalog and interaction log used to
// train and serve recommendations.
//
// # Overview
//
// The package is the data layer between the recommendation engine and a SQL
// database. It implements recommend.DataStore and recommend.ProductReader and
// owns the schema, migrations and demo seed data.
//
// # Drivers
//
// Two database/sql drivers are supported:
//   - duckdb (github.com/duckdb/duckdb-go/v2): CGO, column store, the default
//   - sqlite (modernc.org/sqlite): pure Go, for CGO-free builds
//
// Both share the same SQL. Timestamps are stored as BIGINT unix milliseconds
// so window aggregations behave identically on either driver.
//
// # Files
//
//   - database.go: connection lifecycle and pool configuration
//   - database_schema.go: table and index DDL per driver
//   - migrations.go: versioned schema migrations
//   - store.go: catalog and interaction queries
//   - seed.go: demo catalog and interaction history
//
// # Usage Example
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	engine, err := recommend.NewEngine(recCfg, recommend.Dependencies{Store: db, ...}, logger)
//
// # Thread Safety
//
// DB is safe for concurrent use. Queries run with a 30 second timeout derived
// from the caller's context.
package database
