// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// cfModel is a truncated SVD reconstruction of the mean-centered
// user-product affinity matrix, with user means restored.
type cfModel struct {
	users   map[int]int
	items   map[int]int
	itemIDs []int
	pred    *mat.Dense
	rowMax  []float64
	factors int
}

// trainCollaborative builds latent factors from the interaction log.
// It returns an error wrapping ErrInsufficientInteractions when the log is
// too small or too narrow; callers treat that as "collaborative filtering off".
func trainCollaborative(interactions []Interaction, minInteractions, maxFactors int) (*cfModel, error) {
	if len(interactions) < minInteractions {
		return nil, fmt.Errorf("%w: %d < %d", ErrInsufficientInteractions, len(interactions), minInteractions)
	}

	userIDs, itemIDs := distinctIDs(interactions)
	rows, cols := len(userIDs), len(itemIDs)

	k := min(maxFactors, rows-1, cols-1)
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d users x %d products leaves no latent rank",
			ErrInsufficientInteractions, rows, cols)
	}

	users := indexOf(userIDs)
	items := indexOf(itemIDs)

	affinity := mat.NewDense(rows, cols, nil)
	for i := range interactions {
		r, c := users[interactions[i].UserID], items[interactions[i].ProductID]
		affinity.Set(r, c, affinity.At(r, c)+interactions[i].Value)
	}

	means := make([]float64, rows)
	for r := 0; r < rows; r++ {
		row := affinity.RawRowView(r)
		means[r] = floats.Sum(row) / float64(cols)
		floats.AddConst(-means[r], row)
	}

	var svd mat.SVD
	if ok := svd.Factorize(affinity, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization did not converge for %dx%d matrix", rows, cols)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	uk := u.Slice(0, rows, 0, k)
	vk := v.Slice(0, cols, 0, k)
	sigma := mat.NewDiagDense(k, values[:k])

	var us mat.Dense
	us.Mul(uk, sigma)
	pred := mat.NewDense(rows, cols, nil)
	pred.Mul(&us, vk.T())

	rowMax := make([]float64, rows)
	for r := 0; r < rows; r++ {
		row := pred.RawRowView(r)
		floats.AddConst(means[r], row)
		rowMax[r] = floats.Max(row)
	}

	return &cfModel{
		users:   users,
		items:   items,
		itemIDs: itemIDs,
		pred:    pred,
		rowMax:  rowMax,
		factors: k,
	}, nil
}

// predict returns the raw predicted affinity of a user for a product.
func (m *cfModel) predict(userID, productID int) (float64, bool) {
	if m == nil {
		return 0, false
	}
	r, ok := m.users[userID]
	if !ok {
		return 0, false
	}
	c, ok := m.items[productID]
	if !ok {
		return 0, false
	}
	return m.pred.At(r, c), true
}

// scoresFor returns normalized scores in [0, 1] for every product the user's
// row covers. Negative predictions clip to 0. Unknown users yield an empty map.
func (m *cfModel) scoresFor(userID int) map[int]float64 {
	if m == nil {
		return map[int]float64{}
	}
	r, ok := m.users[userID]
	if !ok {
		return map[int]float64{}
	}

	maxPred := m.rowMax[r]
	if maxPred <= 0 {
		maxPred = 1
	}

	scores := make(map[int]float64, len(m.itemIDs))
	for c, id := range m.itemIDs {
		scores[id] = max(0, m.pred.At(r, c)) / maxPred
	}
	return scores
}

// distinctIDs returns the sorted distinct user and product ids of the log.
func distinctIDs(interactions []Interaction) (userIDs, itemIDs []int) {
	userSet := make(map[int]struct{})
	itemSet := make(map[int]struct{})
	for i := range interactions {
		userSet[interactions[i].UserID] = struct{}{}
		itemSet[interactions[i].ProductID] = struct{}{}
	}
	return sortedKeys(userSet), sortedKeys(itemSet)
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func indexOf(ids []int) map[int]int {
	index := make(map[int]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}
	return index
}
