package mock

import (
	"context"

	"github.com/fwojciec/webgraph"
)

var (
	_ webgraph.NodeService = (*NodeService)(nil)
	_ webgraph.NodeWriter  = (*NodeWriter)(nil)
)

// NodeService is a mock implementation of webgraph.NodeService.
type NodeService struct {
	UpsertNodeFn           func(ctx context.Context, node *webgraph.Node) error
	FindNodeByIDFn         func(ctx context.Context, id string) (*webgraph.Node, error)
	FindNodesFn            func(ctx context.Context, filter webgraph.NodeFilter) ([]*webgraph.Node, error)
	DeleteNodeFn           func(ctx context.Context, id string) error
	DeleteNodesByProjectFn func(ctx context.Context, projectID string) error
}

func (s *NodeService) UpsertNode(ctx context.Context, node *webgraph.Node) error {
	return s.UpsertNodeFn(ctx, node)
}

func (s *NodeService) FindNodeByID(ctx context.Context, id string) (*webgraph.Node, error) {
	return s.FindNodeByIDFn(ctx, id)
}

func (s *NodeService) FindNodes(ctx context.Context, filter webgraph.NodeFilter) ([]*webgraph.Node, error) {
	return s.FindNodesFn(ctx, filter)
}

func (s *NodeService) DeleteNode(ctx context.Context, id string) error {
	return s.DeleteNodeFn(ctx, id)
}

func (s *NodeService) DeleteNodesByProject(ctx context.Context, projectID string) error {
	return s.DeleteNodesByProjectFn(ctx, projectID)
}

// NodeWriter is a mock implementation of webgraph.NodeWriter.
type NodeWriter struct {
	WriteNodeFn func(ctx context.Context, node *webgraph.Node) error
}

func (w *NodeWriter) WriteNode(ctx context.Context, node *webgraph.Node) error {
	return w.WriteNodeFn(ctx, node)
}
