package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/webgraph"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ webgraph.EdgeService = (*EdgeService)(nil)

// EdgeService implements webgraph.EdgeService using SQLite.
type EdgeService struct {
	db *DB
}

// NewEdgeService creates a new EdgeService.
func NewEdgeService(db *DB) *EdgeService {
	return &EdgeService{db: db}
}

// UpsertEdge creates the edge or replaces the function and weight of the
// edge between the same ordered pair.
func (s *EdgeService) UpsertEdge(ctx context.Context, edge *webgraph.Edge) error {
	return upsertEdge(ctx, s.db, edge)
}

func upsertEdge(ctx context.Context, q queryer, edge *webgraph.Edge) error {
	if err := edge.Validate(); err != nil {
		return err
	}
	if edge.ProjectID == "" {
		return webgraph.Errorf(webgraph.EINVALID, "edge project ID required")
	}

	id := edge.ID
	if id == "" {
		id = uuid.New().String()
	}

	var weight sql.NullFloat64
	if edge.Weight != nil {
		weight = sql.NullFloat64{Float64: *edge.Weight, Valid: true}
	}

	err := q.QueryRowContext(ctx, `
		INSERT INTO edges (id, project_id, from_url, to_url, func, weight)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, from_url, to_url) DO UPDATE SET
			func = excluded.func,
			weight = excluded.weight
		RETURNING id
	`, id, edge.ProjectID, edge.From, edge.To, edge.Func, weight).Scan(&edge.ID)

	if isForeignKeyError(err) {
		return webgraph.Errorf(webgraph.ENOTFOUND, "project not found")
	}
	return err
}

// FindEdges retrieves edges matching the filter in insertion order.
func (s *EdgeService) FindEdges(ctx context.Context, filter webgraph.EdgeFilter) ([]*webgraph.Edge, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, project_id, from_url, to_url, func, weight FROM edges WHERE 1=1")

	if filter.ProjectID != nil {
		query.WriteString(" AND project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.From != nil {
		query.WriteString(" AND from_url = ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query.WriteString(" AND to_url = ?")
		args = append(args, *filter.To)
	}

	query.WriteString(" ORDER BY rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []*webgraph.Edge
	for rows.Next() {
		var edge webgraph.Edge
		var weight sql.NullFloat64
		if err := rows.Scan(&edge.ID, &edge.ProjectID, &edge.From, &edge.To, &edge.Func, &weight); err != nil {
			return nil, err
		}
		if weight.Valid {
			w := weight.Float64
			edge.Weight = &w
		}
		edges = append(edges, &edge)
	}

	return edges, rows.Err()
}

// DeleteEdgesByProject removes all edges for a project.
func (s *EdgeService) DeleteEdgesByProject(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM edges WHERE project_id = ?", projectID)
	return err
}
