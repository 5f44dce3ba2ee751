package webgraph

import (
	"context"
	"strings"
	"time"
	"unicode"
)

// Project is a named graph persisted in storage. Nodes and edges belong to
// exactly one project.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the project contains invalid fields.
// Names are typed on the command line, so they may not contain whitespace.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Errorf(EINVALID, "project name required")
	}
	if strings.ContainsFunc(p.Name, unicode.IsSpace) {
		return Errorf(EINVALID, "project name %q must not contain whitespace", p.Name)
	}
	return nil
}

// ProjectService represents a service for managing projects.
type ProjectService interface {
	// CreateProject creates a new project.
	// Returns ECONFLICT if a project with the same name exists.
	CreateProject(ctx context.Context, project *Project) error

	// FindProjectByID retrieves a project by ID.
	// Returns ENOTFOUND if project does not exist.
	FindProjectByID(ctx context.Context, id string) (*Project, error)

	// FindProjects retrieves projects matching the filter.
	FindProjects(ctx context.Context, filter ProjectFilter) ([]*Project, error)

	// DeleteProject permanently removes a project with its nodes and edges.
	// Returns ENOTFOUND if project does not exist.
	DeleteProject(ctx context.Context, id string) error
}

// ProjectFilter represents a filter for FindProjects.
type ProjectFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
