// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
database_schema.go - Database Schema Management

Tables:
  - products: the catalog (one row per product)
  - interactions: append-only user-product event log

Timestamps are BIGINT unix milliseconds. Identifier columns are generated by a
sequence on DuckDB and by the rowid alias on SQLite; everything else is shared.

Index Strategy:
Indexes are created for:
  - interactions(occurred_at) for popularity and trending windows
  - interactions(product_id) for per-product aggregation
  - interactions(user_id) for per-user lookups
  - products(category, rating) for the rating fallback
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// idColumn returns the generated primary key definition for a table.
func (db *DB) idColumn(table string) string {
	if db.driver == DriverSQLite {
		return "id INTEGER PRIMARY KEY"
	}
	return fmt.Sprintf("id BIGINT PRIMARY KEY DEFAULT nextval('%s_id_seq')", table)
}

// sequenceQueries returns sequence DDL, which only DuckDB needs.
func (db *DB) sequenceQueries(tables ...string) []string {
	if db.driver == DriverSQLite {
		return nil
	}
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = fmt.Sprintf("CREATE SEQUENCE IF NOT EXISTS %s_id_seq START 1", t)
	}
	return out
}

// getTableCreationQueries returns the table creation SQL statements
func (db *DB) getTableCreationQueries() []string {
	queries := db.sequenceQueries("products", "interactions")
	return append(queries,
		`CREATE TABLE IF NOT EXISTS products (
			`+db.idColumn("products")+`,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			price DOUBLE NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			rating DOUBLE NOT NULL DEFAULT 0,
			stock_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			`+db.idColumn("interactions")+`,
			user_id BIGINT NOT NULL,
			product_id BIGINT NOT NULL,
			interaction_type TEXT NOT NULL,
			value DOUBLE NOT NULL DEFAULT 1.0,
			occurred_at BIGINT NOT NULL
		)`,
	)
}

// getIndexQueries returns the index creation SQL statements
func (db *DB) getIndexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_interactions_occurred_at ON interactions(occurred_at)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_product ON interactions(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category_rating ON products(category, rating)`,
	}
}
