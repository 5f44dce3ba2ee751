package xxhash_test

import (
	"context"
	"math"
	"testing"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/xxhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("vectors are unit length", func(t *testing.T) {
		t.Parallel()

		vectors, err := xxhash.NewEmbedder(64).Embed(ctx, []string{"Python is a programming language"})

		require.NoError(t, err)
		require.Len(t, vectors, 1)
		require.Len(t, vectors[0], 64)
		var sum float64
		for _, x := range vectors[0] {
			sum += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
	})

	t.Run("is deterministic and case insensitive", func(t *testing.T) {
		t.Parallel()

		e := xxhash.NewEmbedder(0)
		vectors, err := e.Embed(ctx, []string{"Example Domain", "example domain!"})

		require.NoError(t, err)
		assert.Len(t, vectors[0], xxhash.DefaultDimensions)
		assert.InDelta(t, 1.0, webgraph.CosineSimilarity(vectors[0], vectors[1]), 1e-6)
	})

	t.Run("shared words score higher than disjoint ones", func(t *testing.T) {
		t.Parallel()

		vectors, err := xxhash.NewEmbedder(1024).Embed(ctx, []string{
			"python programming language tutorial",
			"python language reference",
			"cooking pasta recipes",
		})

		require.NoError(t, err)
		related := webgraph.CosineSimilarity(vectors[0], vectors[1])
		unrelated := webgraph.CosineSimilarity(vectors[0], vectors[2])
		assert.Greater(t, related, unrelated)
	})

	t.Run("empty text is the zero vector", func(t *testing.T) {
		t.Parallel()

		vectors, err := xxhash.NewEmbedder(8).Embed(ctx, []string{"  ...  "})

		require.NoError(t, err)
		assert.Equal(t, make([]float32, 8), vectors[0])
	})

	t.Run("honors cancellation", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := xxhash.NewEmbedder(8).Embed(cctx, []string{"a"})

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"hello", "world", "42"}, xxhash.Tokenize("Hello, World! 42"))
	assert.Empty(t, xxhash.Tokenize(""))
}
