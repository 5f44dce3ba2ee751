package webgraph

import (
	"context"
	"sync"
)

// Graph is an in-memory directed graph of website nodes keyed by URL.
// Node and edge order is insertion order. Accessors return copies, so
// callers mutate the graph only through its methods.
//
// Graph is safe for concurrent use by multiple goroutines.
type Graph struct {
	mu        sync.RWMutex
	nodes     map[string]*Node
	nodeOrder []string
	edges     map[edgeKey]*Edge
	edgeOrder []edgeKey
}

type edgeKey struct{ from, to string }

// NewGraph returns an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

// BuildGraph assembles a graph from stored nodes and edges, in the
// order given.
func BuildGraph(nodes []*Node, edges []*Edge) (*Graph, error) {
	g := NewGraph()
	for _, n := range nodes {
		if err := g.PutNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(*e); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// AddNode adds a node for url and returns a copy of it. If a node with the
// same URL already exists, it is returned unchanged.
func (g *Graph) AddNode(url string) *Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	return copyNode(g.addNode(url))
}

func (g *Graph) addNode(url string) *Node {
	if n, ok := g.nodes[url]; ok {
		return n
	}
	n := &Node{URL: url}
	g.nodes[url] = n
	g.nodeOrder = append(g.nodeOrder, url)
	return n
}

// PutNode inserts the node or replaces the node with the same URL,
// keeping its position.
func (g *Graph) PutNode(n *Node) error {
	if err := n.Validate(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[n.URL]; !ok {
		g.nodeOrder = append(g.nodeOrder, n.URL)
	}
	g.nodes[n.URL] = copyNode(n)
	return nil
}

// UpdateNode applies fn to the node for url under the graph lock.
// Returns false if no such node exists.
func (g *Graph) UpdateNode(url string, fn func(n *Node)) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[url]
	if !ok {
		return false
	}
	fn(n)
	n.URL = url
	return true
}

// AddEdge validates e and adds it to the graph. Endpoints that are not yet
// in the graph are added. An existing edge between the same ordered pair
// is replaced in place.
func (g *Graph) AddEdge(e Edge) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := ValidateURL(e.From); err != nil {
		return err
	}
	if err := ValidateURL(e.To); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.addNode(e.From)
	g.addNode(e.To)

	key := edgeKey{e.From, e.To}
	if _, ok := g.edges[key]; !ok {
		g.edgeOrder = append(g.edgeOrder, key)
	}
	g.edges[key] = copyEdge(&e)
	return nil
}

// SetWeight sets the weight of the edge from -> to.
// Returns false if no such edge exists.
func (g *Graph) SetWeight(from, to string, weight float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.edges[edgeKey{from, to}]
	if !ok {
		return false
	}
	e.Weight = &weight
	return true
}

// Edge returns a copy of the edge from -> to, or nil.
func (g *Graph) Edge(from, to string) *Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	e, ok := g.edges[edgeKey{from, to}]
	if !ok {
		return nil
	}
	return copyEdge(e)
}

// Node returns a copy of the node for url, or nil.
func (g *Graph) Node(url string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[url]
	if !ok {
		return nil
	}
	return copyNode(n)
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]*Node, 0, len(g.nodeOrder))
	for _, url := range g.nodeOrder {
		nodes = append(nodes, copyNode(g.nodes[url]))
	}
	return nodes
}

// Edges returns copies of all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]*Edge, 0, len(g.edgeOrder))
	for _, key := range g.edgeOrder {
		edges = append(edges, copyEdge(g.edges[key]))
	}
	return edges
}

// Successors returns the URLs that url has outgoing edges to, in edge order.
func (g *Graph) Successors(url string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	for _, key := range g.edgeOrder {
		if key.from == url {
			out = append(out, key.to)
		}
	}
	return out
}

// Neighbors returns the URLs connected to url by an edge in either
// direction, deduplicated, in edge order.
func (g *Graph) Neighbors(url string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, key := range g.edgeOrder {
		var other string
		switch url {
		case key.from:
			other = key.to
		case key.to:
			other = key.from
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodeOrder)
}

func copyNode(n *Node) *Node {
	c := *n
	if n.Embedding != nil {
		c.Embedding = append([]float32(nil), n.Embedding...)
	}
	return &c
}

func copyEdge(e *Edge) *Edge {
	c := *e
	if e.Weight != nil {
		w := *e.Weight
		c.Weight = &w
	}
	return &c
}

// GraphService stores a project together with its graph.
type GraphService interface {
	// CreateProjectGraph stores project and every node and edge of g, or
	// nothing on failure. Returns ECONFLICT if a project with the same name
	// exists, unless replace is set, in which case the existing project is
	// removed as part of the same write.
	CreateProjectGraph(ctx context.Context, project *Project, g *Graph, replace bool) error
}
