package gemini

import (
	"context"

	"github.com/fwojciec/webgraph"
	"google.golang.org/genai"
)

// DefaultEmbeddingModel is the model used for content embeddings.
const DefaultEmbeddingModel = "gemini-embedding-001"

var _ webgraph.Embedder = (*Embedder)(nil)

// Embedder implements webgraph.Embedder using the Gemini embeddings API.
type Embedder struct {
	client *genai.Client

	Model string

	// Dimensions truncates embeddings when positive.
	Dimensions int32
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *genai.Client) *Embedder {
	return &Embedder{client: client, Model: DefaultEmbeddingModel}
}

// Embed embeds texts in one request and returns vectors in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	config := &genai.EmbedContentConfig{TaskType: "SEMANTIC_SIMILARITY"}
	if e.Dimensions > 0 {
		dims := e.Dimensions
		config.OutputDimensionality = &dims
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.Model, contents, config)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Embeddings) != len(texts) {
		return nil, webgraph.Errorf(webgraph.EINTERNAL, "gemini returned %d embeddings for %d texts", embeddingCount(resp), len(texts))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, webgraph.Errorf(webgraph.EINTERNAL, "gemini returned empty embedding %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func embeddingCount(resp *genai.EmbedContentResponse) int {
	if resp == nil {
		return 0
	}
	return len(resp.Embeddings)
}
