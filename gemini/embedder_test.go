package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// newTestClient returns a genai client whose requests go to handler.
func newTestClient(t *testing.T, handler http.HandlerFunc) *genai.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  srv.Client(),
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	require.NoError(t, err)
	return client
}

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("returns vectors in input order", func(t *testing.T) {
		t.Parallel()

		var paths []string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			paths = append(paths, r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"embeddings": []map[string]any{
					{"values": []float32{1, 0}},
					{"values": []float32{0, 1}},
				},
			})
		})

		vectors, err := gemini.NewEmbedder(client).Embed(context.Background(), []string{"first", "second"})

		require.NoError(t, err)
		assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
		require.Len(t, paths, 1)
		assert.True(t, strings.HasSuffix(paths[0], gemini.DefaultEmbeddingModel+":batchEmbedContents"), paths[0])
	})

	t.Run("count mismatch is internal error", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"embeddings": [{"values": [1, 0]}]}`))
		})

		_, err := gemini.NewEmbedder(client).Embed(context.Background(), []string{"first", "second"})

		assert.Equal(t, webgraph.EINTERNAL, webgraph.ErrorCode(err))
	})

	t.Run("no texts makes no request", func(t *testing.T) {
		t.Parallel()

		vectors, err := gemini.NewEmbedder(nil).Embed(context.Background(), nil)

		require.NoError(t, err)
		assert.Nil(t, vectors)
	})
}
