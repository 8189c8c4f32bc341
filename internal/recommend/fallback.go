// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

// fallback returns the highest-rated products other than seedID. It never
// fails; store errors yield an empty list. A seedID of 0 excludes nothing.
func (e *Engine) fallback(ctx context.Context, category string, seedID, topN int, reason string) []int {
	metrics.RecordFallback(reason)

	limit := topN
	if seedID != 0 && limit > 0 {
		limit++
	}
	ids, err := e.store.ListProductIDsByRating(ctx, category, limit)
	if err != nil {
		e.logger.Warn().Err(err).Str("category", category).Msg("fallback query failed")
		return []int{}
	}

	out := make([]int, 0, min(len(ids), topN))
	for _, id := range ids {
		if id == seedID && seedID != 0 {
			continue
		}
		out = append(out, id)
	}
	return truncateIDs(out, topN)
}
