// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"math"
	"time"
)

// computePopularity scores products by interaction volume in the popularity
// window, decayed by the age of their latest interaction:
//
//	score = count/maxCount * exp(-days/30)
//
// where days is the whole number of days since the latest interaction.
// Products absent from activity are absent from the result and score 0.
func computePopularity(activity []ProductActivity, now time.Time) map[int]float64 {
	scores := make(map[int]float64, len(activity))

	maxCount := 0
	for _, a := range activity {
		maxCount = max(maxCount, a.Count)
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, a := range activity {
		if a.Count <= 0 {
			continue
		}
		days := max(0, math.Floor(now.Sub(a.Latest).Hours()/24))
		scores[a.ProductID] = float64(a.Count) / float64(maxCount) * math.Exp(-days/PopularityDecayDays)
	}
	return scores
}
