package webgraph

import (
	"context"
	"math"
	"sort"
)

// DefaultTopK is the number of results returned when topK is not positive.
const DefaultTopK = 3

// PreviewLength is the number of content bytes shown in query results.
const PreviewLength = 500

// QueryResult is a node ranked against a query.
type QueryResult struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Preview    string   `json:"preview"`
	Similarity float64  `json:"similarity"`
	Neighbors  []string `json:"neighbors"`
}

// CosineSimilarity returns the cosine similarity of a and b.
// Vectors of different length or with zero magnitude have similarity 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Rank orders the embedded nodes of g by similarity to query, highest
// first, and returns at most topK results. Ties keep insertion order.
// Nodes without an embedding are skipped.
func Rank(g *Graph, query []float32, topK int) []QueryResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	var results []QueryResult
	for _, n := range g.Nodes() {
		if len(n.Embedding) == 0 {
			continue
		}
		results = append(results, QueryResult{
			URL:        n.URL,
			Title:      n.Title,
			Preview:    Preview(n.Content, PreviewLength),
			Similarity: CosineSimilarity(query, n.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > topK {
		results = results[:topK]
	}
	for i := range results {
		results[i].Neighbors = g.Neighbors(results[i].URL)
	}
	return results
}

// Search embeds query with e and ranks the nodes of g against it.
func Search(ctx context.Context, g *Graph, e Embedder, query string, topK int) ([]QueryResult, error) {
	if query == "" {
		return nil, Errorf(EINVALID, "query required")
	}
	vecs, err := e.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, Errorf(EINTERNAL, "embedder returned %d vectors for 1 text", len(vecs))
	}
	return Rank(g, vecs[0], topK), nil
}
