package mock

import (
	"context"

	"github.com/fwojciec/webgraph"
)

var _ webgraph.GraphService = (*GraphService)(nil)

// GraphService is a mock implementation of webgraph.GraphService.
type GraphService struct {
	CreateProjectGraphFn func(ctx context.Context, project *webgraph.Project, g *webgraph.Graph, replace bool) error
}

func (s *GraphService) CreateProjectGraph(ctx context.Context, project *webgraph.Project, g *webgraph.Graph, replace bool) error {
	return s.CreateProjectGraphFn(ctx, project, g, replace)
}
