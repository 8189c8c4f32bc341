// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"sort"
)

// signals holds one score map per signal, keyed by product id.
// A product missing from a map contributes 0 for that signal.
type signals struct {
	content       map[int]float64
	collaborative map[int]float64
	popularity    map[int]float64
}

// combineScores computes the weighted hybrid score for every candidate product.
// The seed product is skipped and, when category is set, only exact matches
// are kept. The result is in catalog order.
func combineScores(products []Product, sig signals, w SignalWeights, seed int, category string) []ScoredItem {
	items := make([]ScoredItem, 0, len(products))
	for i := range products {
		p := &products[i]
		if seed != 0 && p.ID == seed {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}

		score := w.Content*sig.content[p.ID] +
			w.Collaborative*sig.collaborative[p.ID] +
			w.Popularity*sig.popularity[p.ID]

		items = append(items, ScoredItem{ProductID: p.ID, Score: score})
	}
	return items
}

// sortByScore orders items by score descending, ties by ascending id.
func sortByScore(items []ScoredItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ProductID < items[j].ProductID
	})
}

func itemIDs(items []ScoredItem) []int {
	ids := make([]int, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	return ids
}
