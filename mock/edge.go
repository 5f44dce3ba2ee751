package mock

import (
	"context"

	"github.com/fwojciec/webgraph"
)

var _ webgraph.EdgeService = (*EdgeService)(nil)

// EdgeService is a mock implementation of webgraph.EdgeService.
type EdgeService struct {
	UpsertEdgeFn           func(ctx context.Context, edge *webgraph.Edge) error
	FindEdgesFn            func(ctx context.Context, filter webgraph.EdgeFilter) ([]*webgraph.Edge, error)
	DeleteEdgesByProjectFn func(ctx context.Context, projectID string) error
}

func (s *EdgeService) UpsertEdge(ctx context.Context, edge *webgraph.Edge) error {
	return s.UpsertEdgeFn(ctx, edge)
}

func (s *EdgeService) FindEdges(ctx context.Context, filter webgraph.EdgeFilter) ([]*webgraph.Edge, error) {
	return s.FindEdgesFn(ctx, filter)
}

func (s *EdgeService) DeleteEdgesByProject(ctx context.Context, projectID string) error {
	return s.DeleteEdgesByProjectFn(ctx, projectID)
}
