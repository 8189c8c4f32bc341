// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package embed

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// DefaultHashingDimensions is the vector size used when none is configured.
const DefaultHashingDimensions = 384

// Hashing embeds text by feature hashing of lower-cased tokens.
//
// Each token lands in bucket hash mod Dimensions with a sign taken from a
// separate hash bit, so unrelated tokens that collide tend to cancel. Vectors
// are L2-normalized. Identical text always yields identical vectors.
type Hashing struct {
	dims int
}

// NewHashing creates a hashing encoder. Non-positive dims use DefaultHashingDimensions.
func NewHashing(dims int) *Hashing {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &Hashing{dims: dims}
}

// Encode embeds each text. It only fails when ctx is done.
func (h *Hashing) Encode(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *Hashing) vector(text string) []float64 {
	vec := make([]float64, h.dims)
	for _, tok := range tokenize(text) {
		sum := xxhash.Sum64String(tok)
		bucket := int(sum % uint64(h.dims))
		if sum>>63 == 1 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

// Model identifies the encoder and its size.
func (h *Hashing) Model() string {
	return "hashing-" + strconv.Itoa(h.dims)
}

// Dimensions returns the vector size.
func (h *Hashing) Dimensions() int {
	return h.dims
}

// tokenize splits text into lower-cased runs of letters and digits.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
