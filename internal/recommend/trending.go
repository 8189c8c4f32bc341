// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"sort"
)

// trendingEntry is a product with its interaction velocity.
type trendingEntry struct {
	ProductID int
	Recent    int
	Previous  int
	Velocity  float64
}

// velocity is the relative growth between two windows, smoothed by one
// so products without previous activity do not divide by zero.
func velocity(recent, previous int) float64 {
	return float64(recent-previous) / float64(previous+1)
}

// rankTrending ranks every product with recent activity by velocity
// descending, ties broken by ascending id. When allowed is non-nil only
// products in it are kept.
func rankTrending(recent, previous []ProductCount, allowed map[int]struct{}) []trendingEntry {
	prev := make(map[int]int, len(previous))
	for _, p := range previous {
		prev[p.ProductID] += p.Count
	}

	counts := make(map[int]int, len(recent))
	for _, r := range recent {
		counts[r.ProductID] += r.Count
	}

	entries := make([]trendingEntry, 0, len(counts))
	for id, n := range counts {
		if n <= 0 {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[id]; !ok {
				continue
			}
		}
		entries = append(entries, trendingEntry{
			ProductID: id,
			Recent:    n,
			Previous:  prev[id],
			Velocity:  velocity(n, prev[id]),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Velocity != entries[j].Velocity {
			return entries[i].Velocity > entries[j].Velocity
		}
		return entries[i].ProductID < entries[j].ProductID
	})
	return entries
}
