// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

func TestInvalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, err := New(Config{Backend: BackendMemory}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	keys := []string{
		recommend.RecommendationKey(recommend.Query{UserID: 5, TopN: 10}),
		recommend.RecommendationKey(recommend.Query{UserID: 5, ProductID: 2, Category: "Fashion", TopN: 5}),
		recommend.RecommendationKey(recommend.Query{UserID: 50, TopN: 10}),
		recommend.SimilarityKey(5),
		recommend.SimilarityKey(50),
		recommend.TrendingKey(""),
		recommend.TrendingKey("Fashion"),
	}
	for _, k := range keys {
		require.True(t, c.Set(ctx, k, []byte("[]"), time.Hour))
	}

	assert.Equal(t, 2, InvalidateUser(ctx, c, 5))
	assert.True(t, InvalidateProduct(ctx, c, 5))
	assert.Equal(t, 2, InvalidateTrending(ctx, c))

	_, ok := c.Get(ctx, keys[2])
	assert.True(t, ok, "user 50 shares a numeric prefix with user 5")
	_, ok = c.Get(ctx, recommend.SimilarityKey(50))
	assert.True(t, ok)
	_, ok = c.Get(ctx, recommend.SimilarityKey(5))
	assert.False(t, ok)
}
