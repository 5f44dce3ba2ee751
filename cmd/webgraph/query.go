package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/sqlite"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	project, err := deps.findProject(c.Name)
	if err != nil {
		return deps.fail(err)
	}

	g, err := sqlite.LoadGraph(deps.Ctx, deps.Nodes, deps.Edges, project.ID)
	if err != nil {
		return deps.fail(err)
	}

	results, err := webgraph.Search(deps.Ctx, g, deps.Embedder, c.Question, c.TopK)
	if err != nil {
		return deps.fail(err)
	}

	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No embedded nodes in %q. Run 'webgraph run %s' on similarity edges first.\n", c.Name, c.Name)
		return nil
	}

	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		fmt.Fprintf(deps.Stdout, "%d. %s (%.4f)\n", i+1, title, r.Similarity)
		fmt.Fprintf(deps.Stdout, "   %s\n", r.URL)
		fmt.Fprintf(deps.Stdout, "   %s\n", r.Preview)
		if len(r.Neighbors) > 0 {
			fmt.Fprintf(deps.Stdout, "   Related: %s\n", strings.Join(r.Neighbors, ", "))
		}
	}
	return nil
}
