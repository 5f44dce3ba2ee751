// Package xxhash provides an offline Embedder based on feature hashing.
package xxhash

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/webgraph"
)

// DefaultDimensions is the vector size of a new Embedder.
const DefaultDimensions = 256

var _ webgraph.Embedder = (*Embedder)(nil)

// Embedder hashes lowercased word tokens into a fixed number of buckets
// and L2-normalizes the counts. Equal texts always produce equal vectors.
// A sign bit taken from the hash spreads collisions around zero.
type Embedder struct {
	dims int
}

// NewEmbedder returns an Embedder producing vectors of dims components.
// A non-positive dims uses DefaultDimensions.
func NewEmbedder(dims int) *Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Embedder{dims: dims}
}

// Embed returns one vector per text. Texts without word characters map to
// the zero vector.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *Embedder) embed(text string) []float32 {
	v := make([]float32, e.dims)
	for _, tok := range Tokenize(text) {
		h := xxhash.Sum64String(tok)
		idx := h % uint64(e.dims)
		if h>>63 == 1 {
			v[idx]--
		} else {
			v[idx]++
		}
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range v {
		v[i] *= scale
	}
	return v
}

// Tokenize splits text into lowercased runs of letters and digits.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
