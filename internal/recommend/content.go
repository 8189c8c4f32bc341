// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package recommend

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// contentModel holds pairwise cosine similarity between catalog products.
// Rows and columns follow the catalog order in ids.
type contentModel struct {
	ids   []int
	index map[int]int
	sim   *mat.SymDense
	dim   int
}

// buildContentModel encodes every product and computes the cosine similarity matrix.
// Memory is quadratic in the catalog size.
func buildContentModel(ctx context.Context, enc TextEncoder, products []Product, batchSize int) (*contentModel, error) {
	n := len(products)
	if n == 0 {
		return nil, fmt.Errorf("%w: no products to encode", ErrDataUnavailable)
	}

	vectors, err := encodeProducts(ctx, enc, products, batchSize)
	if err != nil {
		return nil, err
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("encoder returned zero-dimension embeddings")
	}

	normalized := mat.NewDense(n, dim, nil)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("embedding dimension mismatch for product %d: got %d, want %d",
				products[i].ID, len(v), dim)
		}
		row := make([]float64, dim)
		copy(row, v)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		normalized.SetRow(i, row)
	}

	var product mat.Dense
	product.Mul(normalized, normalized.T())

	sim := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sim.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			// Average both triangles so rounding in Mul cannot break symmetry.
			s := clampUnit((product.At(i, j) + product.At(j, i)) / 2)
			sim.SetSym(i, j, s)
		}
	}

	model := &contentModel{
		ids:   make([]int, n),
		index: make(map[int]int, n),
		sim:   sim,
		dim:   dim,
	}
	for i := range products {
		model.ids[i] = products[i].ID
		model.index[products[i].ID] = i
	}
	return model, nil
}

// encodeProducts runs the encoder over product text in fixed-size batches.
func encodeProducts(ctx context.Context, enc TextEncoder, products []Product, batchSize int) ([][]float64, error) {
	if batchSize < 1 {
		batchSize = 1
	}

	texts := make([]string, len(products))
	for i := range products {
		texts[i] = products[i].contentText()
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := min(start+batchSize, len(texts))

		batch, err := enc.Encode(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("encode batch %d-%d: %w", start, end, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("encoder returned %d vectors for %d texts", len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// similarity returns the cosine similarity of two products.
// The boolean is false when either product is not in the model.
func (m *contentModel) similarity(a, b int) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return m.sim.At(i, j), true
}

// scoresFor returns the similarity of every product to the seed.
// Unknown seeds yield an empty map.
func (m *contentModel) scoresFor(seed int) map[int]float64 {
	row, ok := m.index[seed]
	if !ok {
		return map[int]float64{}
	}
	scores := make(map[int]float64, len(m.ids))
	for j, id := range m.ids {
		scores[id] = m.sim.At(row, j)
	}
	return scores
}

// neighbors returns the k most similar products excluding the product itself,
// by score descending with ties broken by ascending id.
func (m *contentModel) neighbors(productID, k int) []SimilarProduct {
	row, ok := m.index[productID]
	if !ok || k <= 0 {
		return nil
	}

	out := make([]SimilarProduct, 0, len(m.ids)-1)
	for j, id := range m.ids {
		if j == row {
			continue
		}
		out = append(out, SimilarProduct{ProductID: id, Score: m.sim.At(row, j)})
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].ProductID < out[b].ProductID
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
