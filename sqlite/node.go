package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fwojciec/webgraph"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ webgraph.NodeService = (*NodeService)(nil)

// NodeService implements webgraph.NodeService using SQLite.
type NodeService struct {
	db *DB
}

// NewNodeService creates a new NodeService.
func NewNodeService(db *DB) *NodeService {
	return &NodeService{db: db}
}

// UpsertNode creates the node or updates the node with the same project
// and URL. An updated node keeps its ID and position.
func (s *NodeService) UpsertNode(ctx context.Context, node *webgraph.Node) error {
	return upsertNode(ctx, s.db, node)
}

func upsertNode(ctx context.Context, q queryer, node *webgraph.Node) error {
	if err := node.Validate(); err != nil {
		return err
	}
	if node.ProjectID == "" {
		return webgraph.Errorf(webgraph.EINVALID, "node project ID required")
	}

	id := node.ID
	if id == "" {
		id = uuid.New().String()
	}

	err := q.QueryRowContext(ctx, `
		INSERT INTO nodes (id, project_id, url, title, content, content_hash, embedding, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, url) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			content_hash = excluded.content_hash,
			embedding = excluded.embedding,
			fetched_at = excluded.fetched_at
		RETURNING id
	`, id, node.ProjectID, node.URL, node.Title, node.Content, node.ContentHash,
		encodeEmbedding(node.Embedding), formatTime(node.FetchedAt)).Scan(&node.ID)

	if isForeignKeyError(err) {
		return webgraph.Errorf(webgraph.ENOTFOUND, "project not found")
	}
	return err
}

// FindNodeByID retrieves a node by ID.
func (s *NodeService) FindNodeByID(ctx context.Context, id string) (*webgraph.Node, error) {
	nodes, err := s.FindNodes(ctx, webgraph.NodeFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, webgraph.Errorf(webgraph.ENOTFOUND, "node not found")
	}
	return nodes[0], nil
}

// FindNodes retrieves nodes matching the filter in insertion order.
func (s *NodeService) FindNodes(ctx context.Context, filter webgraph.NodeFilter) ([]*webgraph.Node, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, project_id, url, title, content, content_hash, embedding, fetched_at FROM nodes WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.ProjectID != nil {
		query.WriteString(" AND project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*webgraph.Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	return nodes, rows.Err()
}

// DeleteNode removes a node and every edge touching it.
func (s *NodeService) DeleteNode(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var projectID, url string
	err = tx.QueryRowContext(ctx, "SELECT project_id, url FROM nodes WHERE id = ?", id).Scan(&projectID, &url)
	if err == sql.ErrNoRows {
		return webgraph.Errorf(webgraph.ENOTFOUND, "node not found")
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM edges WHERE project_id = ? AND (from_url = ? OR to_url = ?)
	`, projectID, url, url); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes WHERE id = ?", id); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteNodesByProject removes all nodes for a project.
func (s *NodeService) DeleteNodesByProject(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM nodes WHERE project_id = ?", projectID)
	return err
}

func scanNode(rows *sql.Rows) (*webgraph.Node, error) {
	var node webgraph.Node
	var embedding []byte
	var fetchedAt string

	if err := rows.Scan(&node.ID, &node.ProjectID, &node.URL, &node.Title, &node.Content,
		&node.ContentHash, &embedding, &fetchedAt); err != nil {
		return nil, err
	}

	var err error
	if node.Embedding, err = decodeEmbedding(embedding); err != nil {
		return nil, err
	}
	if node.FetchedAt, err = parseOptionalTime(fetchedAt, "fetched_at"); err != nil {
		return nil, err
	}
	return &node, nil
}

// isForeignKeyError reports whether err is a SQLite foreign key violation.
func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
