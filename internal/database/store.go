// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/validation"
)

var (
	_ recommend.DataStore     = (*DB)(nil)
	_ recommend.ProductReader = (*DB)(nil)
)

const productColumns = `id, name, description, category, brand, tags, price, image_url, rating, stock_count`

func scanProduct(rows *sql.Rows) (recommend.Product, error) {
	var p recommend.Product
	err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Brand, &p.Tags,
		&p.Price, &p.ImageURL, &p.Rating, &p.StockCount)
	return p, err
}

// ListProducts returns the full catalog ordered by id.
func (db *DB) ListProducts(ctx context.Context) ([]recommend.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	products, err := queryAndScan(ctx, db.conn,
		`SELECT `+productColumns+` FROM products ORDER BY id`, nil, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return products, nil
}

// ProductsByID returns the products with the given ids in id order.
// Unknown ids are skipped.
func (db *DB) ProductsByID(ctx context.Context, ids []int) ([]recommend.Product, error) {
	if len(ids) == 0 {
		return []recommend.Product{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (` + placeholders(len(ids)) + `) ORDER BY id`
	products, err := queryAndScan(ctx, db.conn, query, intArgs(ids), scanProduct)
	if err != nil {
		return nil, fmt.Errorf("query products by id: %w", err)
	}
	return products, nil
}

// ListInteractions returns the full interaction log in insertion order.
func (db *DB) ListInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	interactions, err := queryAndScan(ctx, db.conn,
		`SELECT id, user_id, product_id, interaction_type, value, occurred_at
		 FROM interactions ORDER BY id`, nil,
		func(rows *sql.Rows) (recommend.Interaction, error) {
			var (
				in         recommend.Interaction
				typ        string
				occurredAt int64
			)
			if err := rows.Scan(&in.ID, &in.UserID, &in.ProductID, &typ, &in.Value, &occurredAt); err != nil {
				return in, err
			}
			in.Type = recommend.InteractionType(typ)
			in.Timestamp = time.UnixMilli(occurredAt).UTC()
			return in, nil
		})
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	return interactions, nil
}

// ListInteractionsSince aggregates interactions at or after since per product.
func (db *DB) ListInteractionsSince(ctx context.Context, since time.Time) ([]recommend.ProductActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	activity, err := queryAndScan(ctx, db.conn,
		`SELECT product_id, COUNT(*), MAX(occurred_at)
		 FROM interactions
		 WHERE occurred_at >= ?
		 GROUP BY product_id
		 ORDER BY product_id`,
		[]interface{}{since.UnixMilli()},
		func(rows *sql.Rows) (recommend.ProductActivity, error) {
			var (
				a      recommend.ProductActivity
				latest int64
			)
			if err := rows.Scan(&a.ProductID, &a.Count, &latest); err != nil {
				return a, err
			}
			a.Latest = time.UnixMilli(latest).UTC()
			return a, nil
		})
	if err != nil {
		return nil, fmt.Errorf("query interaction activity: %w", err)
	}
	return activity, nil
}

// ListInteractionsInRange counts interactions per product in [start, end).
func (db *DB) ListInteractionsInRange(ctx context.Context, start, end time.Time) ([]recommend.ProductCount, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	counts, err := queryAndScan(ctx, db.conn,
		`SELECT product_id, COUNT(*)
		 FROM interactions
		 WHERE occurred_at >= ? AND occurred_at < ?
		 GROUP BY product_id
		 ORDER BY product_id`,
		[]interface{}{start.UnixMilli(), end.UnixMilli()},
		func(rows *sql.Rows) (recommend.ProductCount, error) {
			var c recommend.ProductCount
			err := rows.Scan(&c.ProductID, &c.Count)
			return c, err
		})
	if err != nil {
		return nil, fmt.Errorf("query interaction counts: %w", err)
	}
	return counts, nil
}

// ListProductIDsByRating returns product ids by rating descending, ties by id.
// An empty category matches every product.
func (db *DB) ListProductIDsByRating(ctx context.Context, category string, limit int) ([]int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT id FROM products`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY rating DESC, id ASC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	ids, err := queryAndScan(ctx, db.conn, query, args, func(rows *sql.Rows) (int, error) {
		var id int
		err := rows.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("query products by rating: %w", err)
	}
	return ids, nil
}

// InsertProduct adds a product and returns its id.
// A zero p.ID lets the database assign one.
func (db *DB) InsertProduct(ctx context.Context, p *recommend.Product) (int, error) {
	if verr := validation.ValidateStruct(p); verr != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRecord, verr)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	args := []interface{}{p.Name, p.Description, p.Category, p.Brand, p.Tags,
		p.Price, p.ImageURL, p.Rating, p.StockCount}
	query := `INSERT INTO products (name, description, category, brand, tags, price, image_url, rating, stock_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`
	if p.ID > 0 {
		query = `INSERT INTO products (id, name, description, category, brand, tags, price, image_url, rating, stock_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`
		args = append([]interface{}{p.ID}, args...)
	}

	var id int
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	return id, nil
}

// InsertInteraction appends an interaction and returns its id.
// A zero Value is stored as 1.0 and a zero Timestamp as the current time.
func (db *DB) InsertInteraction(ctx context.Context, in *recommend.Interaction) (int, error) {
	if in.Value == 0 {
		in.Value = 1.0
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}
	if verr := validation.ValidateStruct(in); verr != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRecord, verr)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var id int
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO interactions (user_id, product_id, interaction_type, value, occurred_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		in.UserID, in.ProductID, string(in.Type), in.Value, in.Timestamp.UnixMilli(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert interaction: %w", err)
	}
	in.ID = id
	return id, nil
}

// Counts returns the number of products and interactions.
func (db *DB) Counts(ctx context.Context) (products, interactions int, err error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err = db.conn.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM products), (SELECT COUNT(*) FROM interactions)`,
	).Scan(&products, &interactions)
	if err != nil {
		return 0, 0, fmt.Errorf("count rows: %w", err)
	}
	return products, interactions, nil
}
