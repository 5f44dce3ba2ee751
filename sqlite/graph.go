package sqlite

import (
	"context"
	"errors"

	"github.com/fwojciec/webgraph"
)

// Compile-time interface verification.
var _ webgraph.GraphService = (*GraphService)(nil)

// GraphService implements webgraph.GraphService using SQLite.
type GraphService struct {
	db *DB
}

// NewGraphService creates a new GraphService.
func NewGraphService(db *DB) *GraphService {
	return &GraphService{db: db}
}

// CreateProjectGraph stores project, its nodes and its edges in one
// transaction. A replaced project is deleted inside the same transaction,
// so a failed write leaves the previous project untouched.
func (s *GraphService) CreateProjectGraph(ctx context.Context, project *webgraph.Project, g *webgraph.Graph, replace bool) (err error) {
	if g == nil {
		return webgraph.Errorf(webgraph.EINVALID, "graph required")
	}
	if err := project.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil {
			err = errors.Join(err, rbErr)
		}
	}()

	if replace {
		if _, err := tx.ExecContext(ctx, "DELETE FROM projects WHERE name = ?", project.Name); err != nil {
			return err
		}
	}
	if err := insertProject(ctx, tx, project); err != nil {
		return err
	}
	for _, n := range g.Nodes() {
		n.ProjectID = project.ID
		if err := upsertNode(ctx, tx, n); err != nil {
			return err
		}
	}
	for _, e := range g.Edges() {
		e.ProjectID = project.ID
		if err := upsertEdge(ctx, tx, e); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadGraph reads a project's nodes and edges into an in-memory graph.
func LoadGraph(ctx context.Context, nodes webgraph.NodeService, edges webgraph.EdgeService, projectID string) (*webgraph.Graph, error) {
	ns, err := nodes.FindNodes(ctx, webgraph.NodeFilter{ProjectID: &projectID})
	if err != nil {
		return nil, err
	}
	es, err := edges.FindEdges(ctx, webgraph.EdgeFilter{ProjectID: &projectID})
	if err != nil {
		return nil, err
	}
	return webgraph.BuildGraph(ns, es)
}

// SaveGraph upserts every node and edge of g into the project.
func SaveGraph(ctx context.Context, nodes webgraph.NodeService, edges webgraph.EdgeService, projectID string, g *webgraph.Graph) error {
	for _, n := range g.Nodes() {
		n.ProjectID = projectID
		if err := nodes.UpsertNode(ctx, n); err != nil {
			return err
		}
	}
	for _, e := range g.Edges() {
		e.ProjectID = projectID
		if err := edges.UpsertEdge(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
