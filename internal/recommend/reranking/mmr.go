// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package reranking

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// maxRerankSize limits slice allocations; k is also bounded by len(items).
const maxRerankSize = 10000

// MMR implements Maximal Marginal Relevance reranking.
// It balances relevance and diversity by iteratively selecting items
// that are both relevant and dissimilar to already selected items.
//
// The MMR formula is:
//
//	MMR = argmax[lambda * score(i) - (1-lambda) * max(sim(i, s)) for s in selected]
//
// Where:
//   - lambda: the query's diversity factor, in (0, 1]
//   - score(i): combined hybrid score of item i
//   - sim(i, s): content similarity between item i and selected item s
//
// The first pick is the highest scoring item. Ties at every step go to the
// lowest product id, so output is deterministic.
//
// Reference:
// Carbonell, J., & Goldstein, J. (1998). "The Use of MMR, Diversity-Based
// Reranking for Reordering Documents and Producing Summaries." SIGIR 1998.
type MMR struct{}

// NewMMR creates a new MMR reranker.
func NewMMR() *MMR {
	return &MMR{}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank selects up to k items in MMR order. A lambda of 0 or less, or a
// missing similarity function, yields the plain score ranking.
func (m *MMR) Rerank(ctx context.Context, items []recommend.ScoredItem, k int, opts recommend.RerankOptions) []recommend.ScoredItem {
	if len(items) == 0 || k <= 0 {
		return []recommend.ScoredItem{}
	}

	// Bound k to prevent excessive memory allocation
	k = min(k, maxRerankSize, len(items))

	if opts.Lambda <= 0 || opts.Similarity == nil {
		return topByScore(items, k)
	}
	lambda := math.Min(opts.Lambda, 1)

	// maxSim[i] tracks the highest similarity of candidate i to any selected item.
	maxSim := make([]float64, len(items))
	for i := range maxSim {
		maxSim[i] = math.Inf(-1)
	}
	taken := make([]bool, len(items))
	selected := make([]recommend.ScoredItem, 0, k)

	for len(selected) < k {
		if ctx.Err() != nil {
			break
		}

		bestIdx := -1
		bestMMR := math.Inf(-1)
		for i := range items {
			if taken[i] {
				continue
			}

			penalty := 0.0
			if len(selected) > 0 {
				penalty = maxSim[i]
			}
			mmrScore := lambda*items[i].Score - (1-lambda)*penalty

			if bestIdx < 0 || mmrScore > bestMMR ||
				(mmrScore == bestMMR && items[i].ProductID < items[bestIdx].ProductID) {
				bestIdx = i
				bestMMR = mmrScore
			}
		}

		if bestIdx < 0 {
			break
		}

		taken[bestIdx] = true
		picked := items[bestIdx]
		selected = append(selected, picked)

		for i := range items {
			if taken[i] {
				continue
			}
			if sim := opts.Similarity(items[i].ProductID, picked.ProductID); sim > maxSim[i] {
				maxSim[i] = sim
			}
		}
	}

	return selected
}

// topByScore returns the k best items by score, ties by ascending id.
func topByScore(items []recommend.ScoredItem, k int) []recommend.ScoredItem {
	sorted := make([]recommend.ScoredItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].ProductID < sorted[j].ProductID
	})
	return sorted[:k]
}

// Ensure MMR implements the interface.
var _ recommend.Reranker = (*MMR)(nil)
