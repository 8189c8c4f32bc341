// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"strconv"
)

// Cache key prefixes shared with cache invalidation.
const (
	RecommendationKeyPrefix = "rec:"
	TrendingKeyPrefix       = "trending:"
	SimilarityKeyPrefix     = "similarity:"
)

// RecommendationKey returns the cache key of a normalized query.
// Format: rec:{user|0}:{product|0}_{category|all}_{topN}.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func RecommendationKey(q Query) string {
	return RecommendationKeyPrefix + strconv.Itoa(q.UserID) + ":" +
		strconv.Itoa(q.ProductID) + "_" + categoryKey(q.Category) + "_" + strconv.Itoa(q.TopN)
}

// UserRecommendationPrefix returns the key prefix of every cached list for a user.
func UserRecommendationPrefix(userID int) string {
	return RecommendationKeyPrefix + strconv.Itoa(userID) + ":"
}

// TrendingKey returns the cache key of the trending list for a category.
func TrendingKey(category string) string {
	return TrendingKeyPrefix + categoryKey(category)
}

// SimilarityKey returns the cache key of a product's precomputed neighbors.
func SimilarityKey(productID int) string {
	return SimilarityKeyPrefix + strconv.Itoa(productID)
}

func categoryKey(category string) string {
	if category == "" {
		return "all"
	}
	return category
}
