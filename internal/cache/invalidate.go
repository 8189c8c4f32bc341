// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"context"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Invalidator removes cached entries.
type Invalidator interface {
	Delete(ctx context.Context, key string) bool
	DeletePrefix(ctx context.Context, prefix string) int
}

// InvalidateUser drops every cached recommendation list for a user.
func InvalidateUser(ctx context.Context, inv Invalidator, userID int) int {
	return inv.DeletePrefix(ctx, recommend.UserRecommendationPrefix(userID))
}

// InvalidateProduct drops a product's precomputed similarity list.
func InvalidateProduct(ctx context.Context, inv Invalidator, productID int) bool {
	return inv.Delete(ctx, recommend.SimilarityKey(productID))
}

// InvalidateTrending drops every cached trending list.
func InvalidateTrending(ctx context.Context, inv Invalidator) int {
	return inv.DeletePrefix(ctx, recommend.TrendingKeyPrefix)
}

var _ recommend.ResultCache = (*Breaker)(nil)
