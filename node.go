package webgraph

import (
	"context"
	"net/url"
	"time"
)

// Node is a website in the graph. Only URL is supplied by the user; the
// remaining fields are filled in by edge functions when the graph runs.
type Node struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHash string    `json:"contentHash"`
	Embedding   []float32 `json:"embedding,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the node contains invalid fields.
func (n *Node) Validate() error {
	return ValidateURL(n.URL)
}

// DisplayTitle returns the node title, falling back to the URL.
func (n *Node) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return n.URL
}

// Fresh reports whether the node was fetched within maxAge of now.
// A zero maxAge means nothing is ever fresh.
func (n *Node) Fresh(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 || n.FetchedAt.IsZero() {
		return false
	}
	return now.Sub(n.FetchedAt) < maxAge
}

// ValidateURL returns EINVALID unless rawURL is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return Errorf(EINVALID, "node URL required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Errorf(EINVALID, "invalid node URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALID, "node URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return Errorf(EINVALID, "node URL %q has no host", rawURL)
	}
	return nil
}

// NodeService represents a service for managing nodes.
type NodeService interface {
	// UpsertNode creates the node or updates the existing node with the
	// same project and URL. The node's ID is set on return.
	UpsertNode(ctx context.Context, node *Node) error

	// FindNodeByID retrieves a node by ID.
	// Returns ENOTFOUND if node does not exist.
	FindNodeByID(ctx context.Context, id string) (*Node, error)

	// FindNodes retrieves nodes matching the filter in insertion order.
	FindNodes(ctx context.Context, filter NodeFilter) ([]*Node, error)

	// DeleteNode permanently removes a node and the edges touching it.
	// Returns ENOTFOUND if node does not exist.
	DeleteNode(ctx context.Context, id string) error

	// DeleteNodesByProject removes all nodes for a project.
	DeleteNodesByProject(ctx context.Context, projectID string) error
}

// NodeFilter represents a filter for FindNodes.
type NodeFilter struct {
	ID        *string `json:"id"`
	ProjectID *string `json:"projectId"`
	URL       *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// NodeWriter exports nodes to an external destination.
type NodeWriter interface {
	WriteNode(ctx context.Context, node *Node) error
}
