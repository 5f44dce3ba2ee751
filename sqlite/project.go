package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/webgraph"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ webgraph.ProjectService = (*ProjectService)(nil)

// ProjectService implements webgraph.ProjectService using SQLite.
type ProjectService struct {
	db *DB
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *DB) *ProjectService {
	return &ProjectService{db: db}
}

// CreateProject creates a new project.
func (s *ProjectService) CreateProject(ctx context.Context, project *webgraph.Project) error {
	return insertProject(ctx, s.db, project)
}

// insertProject assigns the project an ID and timestamps and inserts it.
// Returns ECONFLICT if the name is taken.
func insertProject(ctx context.Context, q queryer, project *webgraph.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}

	var exists int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM projects WHERE name = ?", project.Name).Scan(&exists); err != nil {
		return err
	}
	if exists > 0 {
		return webgraph.Errorf(webgraph.ECONFLICT, "project %q already exists", project.Name)
	}

	project.ID = uuid.New().String()
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := q.ExecContext(ctx, `
		INSERT INTO projects (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, project.ID, project.Name, formatTime(project.CreatedAt), formatTime(project.UpdatedAt))

	return err
}

// FindProjectByID retrieves a project by ID.
func (s *ProjectService) FindProjectByID(ctx context.Context, id string) (*webgraph.Project, error) {
	projects, err := s.FindProjects(ctx, webgraph.ProjectFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, webgraph.Errorf(webgraph.ENOTFOUND, "project not found")
	}
	return projects[0], nil
}

// FindProjects retrieves projects matching the filter, newest first.
func (s *ProjectService) FindProjects(ctx context.Context, filter webgraph.ProjectFilter) ([]*webgraph.Project, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, created_at, updated_at FROM projects WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*webgraph.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// DeleteProject permanently removes a project. Nodes and edges are removed
// by the foreign key cascade.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return webgraph.Errorf(webgraph.ENOTFOUND, "project not found")
	}

	return nil
}

func scanProject(rows *sql.Rows) (*webgraph.Project, error) {
	var project webgraph.Project
	var createdAt, updatedAt string

	if err := rows.Scan(&project.ID, &project.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if project.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if project.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &project, nil
}
