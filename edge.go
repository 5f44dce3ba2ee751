package webgraph

import "context"

// Built-in edge function names.
const (
	// FuncScrapeTitle fetches both endpoints and records their titles.
	FuncScrapeTitle = "scrape_title"

	// FuncScrapeContent fetches both endpoints and records title and page text.
	FuncScrapeContent = "scrape_content"

	// FuncSimilarity scrapes content, embeds both endpoints and sets the
	// edge weight to their cosine similarity.
	FuncSimilarity = "similarity"
)

// Edge pairs two node URLs with the name of the edge function to invoke.
type Edge struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"projectId"`
	From      string   `json:"from"`
	To        string   `json:"to"`
	Func      string   `json:"func"`
	Weight    *float64 `json:"weight,omitempty"`
}

// Validate returns an error if the edge contains invalid fields.
func (e *Edge) Validate() error {
	if e.From == "" || e.To == "" {
		return Errorf(EINVALID, "edge endpoints required")
	}
	if e.From == e.To {
		return Errorf(EINVALID, "self-referential edge not allowed: %s", e.From)
	}
	if e.Func == "" {
		return Errorf(EINVALID, "edge function required")
	}
	return nil
}

// EdgeService represents a service for managing edges.
type EdgeService interface {
	// UpsertEdge creates the edge or replaces the existing edge between the
	// same ordered pair of URLs within the project.
	UpsertEdge(ctx context.Context, edge *Edge) error

	// FindEdges retrieves edges matching the filter in insertion order.
	FindEdges(ctx context.Context, filter EdgeFilter) ([]*Edge, error)

	// DeleteEdgesByProject removes all edges for a project.
	DeleteEdgesByProject(ctx context.Context, projectID string) error
}

// EdgeFilter represents a filter for FindEdges.
type EdgeFilter struct {
	ProjectID *string `json:"projectId"`
	From      *string `json:"from"`
	To        *string `json:"to"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
