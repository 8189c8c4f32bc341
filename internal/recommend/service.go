// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"fmt"
)

// Defaults of the storefront surfaces.
const (
	PersonalizedTopN      = 10
	PersonalizedDiversity = 0.3
	SimilarTopN           = 5
	TrendingTopN          = 5
)

// Service resolves engine rankings to catalog records for the three
// storefront surfaces.
type Service struct {
	engine   *Engine
	products ProductReader
}

// NewService creates a Service over an engine and a product reader.
func NewService(engine *Engine, products ProductReader) *Service {
	return &Service{engine: engine, products: products}
}

// Personalized returns products for a user.
func (s *Service) Personalized(ctx context.Context, userID int) ([]Product, error) {
	resp, err := s.engine.Recommend(ctx, Query{
		UserID:          userID,
		TopN:            PersonalizedTopN,
		DiversityFactor: PersonalizedDiversity,
	})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, resp.ProductIDs)
}

// Similar returns products like the given one. The seed is never included.
func (s *Service) Similar(ctx context.Context, productID int) ([]Product, error) {
	resp, err := s.engine.Recommend(ctx, Query{
		ProductID: productID,
		TopN:      SimilarTopN,
	})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, resp.ProductIDs)
}

// Trending returns the fastest growing products, optionally within a category.
func (s *Service) Trending(ctx context.Context, category string) ([]Product, error) {
	resp, err := s.engine.GetTrending(ctx, category, TrendingTopN)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, resp.ProductIDs)
}

// Rebuild forces a full retrain.
func (s *Service) Rebuild(ctx context.Context) error {
	return s.engine.Fit(ctx, true)
}

// resolve loads products and returns them in ranking order.
// Ids that no longer exist in the catalog are dropped.
func (s *Service) resolve(ctx context.Context, ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	products, err := s.products.ProductsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	byID := make(map[int]Product, len(products))
	for i := range products {
		byID[products[i].ID] = products[i]
	}

	ordered := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
