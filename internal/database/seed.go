// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package database

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// mockSeed fixes the demo data set so every seeded database is identical.
const mockSeed = 42

// Mock data parameters
const (
	mockUsers          = 3
	mockHistoryDays    = 14
	mockMinPerUser     = 5
	mockMaxPerUser     = 10
	mockFavoriteCats   = 2
	mockBrand          = "AuraStyle"
	mockImageURLPrefix = "https://images.unsplash.com/"
)

// mockCatalog is the demo catalog: four categories of five products.
var mockCatalog = []struct {
	category string
	items    []string
	images   []string
}{
	{
		category: "Electronics",
		items:    []string{"Wireless Headphones", "Smartwatch Pro", "Mechanical Keyboard", "Gaming Mouse", "Noise Cancelling Earbuds"},
		images:   []string{"photo-1505740420928-5e560c06d30e", "photo-1523275335684-37898b6baf30", "photo-1527443224154-c4a3942d3acf", "photo-1527866959252-deab85ef7d1b", "photo-1588333234836-1e9619c95d90"},
	},
	{
		category: "Fashion",
		items:    []string{"Classic Denim Jacket", "Canvas Sneakers", "Leather Wallet", "Cotton Hoodie", "Wristwatch Minimalist"},
		images:   []string{"photo-1551537482-f2075a1d41f2", "photo-1542291026-7eec264c27ff", "photo-1627123424574-724758594e93", "photo-1556821810-ac1b45574471", "photo-1524592094714-0f0654e20314"},
	},
	{
		category: "Home & Living",
		items:    []string{"Weighted Blanket", "Desk Lamp LED", "Ceramic Coffee Mug", "Succulent Set", "Aroma Diffuser"},
		images:   []string{"photo-1580302200322-959cde116f64", "photo-1507473885765-e6ed057f782c", "photo-1517256011271-bfbd70416a9a", "photo-1485955900106-19d1cb7a4628", "photo-1602928321679-560bb453f190"},
	},
	{
		category: "Fitness",
		items:    []string{"Yoga Mat", "Dumbbell Set 10kg", "Resistance Bands", "Foam Roller", "Protein Shaker"},
		images:   []string{"photo-1601925260368-ae2f83cf8b7f", "photo-1583454110551-21f2fa2ec617", "photo-1598289431512-b97b0917a63e", "photo-1591171889500-2f16b229712a", "photo-1593079831268-3381b0fdb527"},
	},
}

var mockAdjectives = []string{"Premium", "Ultra", "Lite", "Essential", "Modern", "Sleek", "Classic"}

// Views are three times as likely as clicks or carts.
var mockInteractionTypes = []string{"view", "view", "view", "click", "cart"}

// SeedSummary reports what SeedMockData wrote.
type SeedSummary struct {
	Products     int
	Users        int
	Interactions int
}

// SeedMockData replaces the catalog and interaction log with the demo data set.
// This is intended for demos and local development only.
func (db *DB) SeedMockData(ctx context.Context) (SeedSummary, error) {
	return db.seedMockData(ctx, mockSeed, time.Now().UTC())
}

func (db *DB) seedMockData(ctx context.Context, seed int64, now time.Time) (SeedSummary, error) {
	db.logger.Info().Msg("Seeding database with mock data...")

	//nolint:gosec // G404: deterministic demo data, not security sensitive
	rng := rand.New(rand.NewSource(seed))
	var summary SeedSummary

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM interactions`, `DELETE FROM products`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return summary, fmt.Errorf("clear tables: %w", err)
		}
	}

	byCategory := make(map[string][]int, len(mockCatalog))
	for _, cat := range mockCatalog {
		for i, item := range cat.items {
			var id int
			err := tx.QueryRowContext(ctx,
				`INSERT INTO products (name, description, category, brand, tags, price, image_url, rating, stock_count)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`,
				mockAdjectives[rng.Intn(len(mockAdjectives))]+" "+item,
				fmt.Sprintf("High quality %s from our latest collection. Perfect for daily use and designed for durability in the %s category.", item, cat.category),
				cat.category,
				mockBrand,
				mockTags(cat.category, item),
				round(19.99+rng.Float64()*(199.99-19.99), 2),
				mockImageURLPrefix+cat.images[i%len(cat.images)]+"?w=800&q=80",
				round(3.5+rng.Float64()*1.5, 1),
				5+rng.Intn(46),
			).Scan(&id)
			if err != nil {
				return summary, fmt.Errorf("insert product %q: %w", item, err)
			}
			byCategory[cat.category] = append(byCategory[cat.category], id)
			summary.Products++
		}
	}

	window := int64(mockHistoryDays * 24 * time.Hour / time.Millisecond)
	for user := 1; user <= mockUsers; user++ {
		liked := make([]int, 0, mockFavoriteCats*5)
		for _, idx := range rng.Perm(len(mockCatalog))[:mockFavoriteCats] {
			liked = append(liked, byCategory[mockCatalog[idx].category]...)
		}

		n := mockMinPerUser + rng.Intn(mockMaxPerUser-mockMinPerUser+1)
		for j := 0; j < n; j++ {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO interactions (user_id, product_id, interaction_type, value, occurred_at)
				 VALUES (?, ?, ?, ?, ?)`,
				user,
				liked[rng.Intn(len(liked))],
				mockInteractionTypes[rng.Intn(len(mockInteractionTypes))],
				1.0+rng.Float64()*4.0,
				now.UnixMilli()-rng.Int63n(window),
			)
			if err != nil {
				return summary, fmt.Errorf("insert interaction: %w", err)
			}
			summary.Interactions++
		}
		summary.Users++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("commit seed: %w", err)
	}

	db.logger.Info().
		Int("products", summary.Products).
		Int("users", summary.Users).
		Int("interactions", summary.Interactions).
		Msg("Mock data seeded")

	return summary, nil
}

// mockTags builds "category, word, word, premium" tags from a product name.
func mockTags(category, item string) string {
	words := strings.Fields(strings.ToLower(item))
	return strings.ToLower(category) + ", " + strings.Join(words, ", ") + ", premium"
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
