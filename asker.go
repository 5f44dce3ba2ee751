package webgraph

import "context"

// Asker answers natural language questions using a project's graph as context.
type Asker interface {
	// Ask answers a question about a project's graph.
	// Returns ENOTFOUND if the project has no nodes.
	Ask(ctx context.Context, projectID string, question string) (string, error)
}
