// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"math"
	"reflect"
	"testing"
)

func TestCombineScores(t *testing.T) {
	products := fixtureProducts()
	sig := signals{
		content:       map[int]float64{1: 1, 2: 0.8, 4: 0.1},
		collaborative: map[int]float64{2: 0.5, 3: 1},
		popularity:    map[int]float64{3: 0.4, 5: 1},
	}
	w := SignalWeights{Content: 0.35, Collaborative: 0.40, Popularity: 0.15}

	items := combineScores(products, sig, w, 1, "")

	want := map[int]float64{
		2: 0.35*0.8 + 0.40*0.5,
		3: 0.40*1 + 0.15*0.4,
		4: 0.35 * 0.1,
		5: 0.15 * 1,
	}
	if len(items) != len(want) {
		t.Fatalf("len(items) = %d, want %d", len(items), len(want))
	}
	for _, it := range items {
		if it.ProductID == 1 {
			t.Error("seed product was scored")
		}
		if math.Abs(it.Score-want[it.ProductID]) > 1e-12 {
			t.Errorf("score[%d] = %f, want %f", it.ProductID, it.Score, want[it.ProductID])
		}
	}
}

func TestCombineScores_CategoryAndMissingSignals(t *testing.T) {
	items := combineScores(fixtureProducts(), signals{}, DefaultConfig().Weights, 0, "Fashion")

	if got := itemIDs(items); !reflect.DeepEqual(got, []int{4, 5}) {
		t.Errorf("ids = %v, want [4 5]", got)
	}
	for _, it := range items {
		if it.Score != 0 {
			t.Errorf("score[%d] = %f, want 0 with no signals", it.ProductID, it.Score)
		}
	}
}

func TestSortByScore(t *testing.T) {
	items := []ScoredItem{
		{ProductID: 4, Score: 0.2},
		{ProductID: 9, Score: 0.5},
		{ProductID: 2, Score: 0.2},
		{ProductID: 1, Score: 0.9},
	}
	sortByScore(items)

	if got := itemIDs(items); !reflect.DeepEqual(got, []int{1, 9, 2, 4}) {
		t.Errorf("order = %v, want [1 9 2 4]", got)
	}
}
