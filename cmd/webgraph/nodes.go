package main

import (
	"fmt"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/crawl"
)

// Run executes the nodes command.
func (c *NodesCmd) Run(deps *Dependencies) error {
	project, err := deps.findProject(c.Name)
	if err != nil {
		return deps.fail(err)
	}

	nodes, err := deps.Nodes.FindNodes(deps.Ctx, webgraph.NodeFilter{ProjectID: &project.ID})
	if err != nil {
		return deps.fail(err)
	}

	if len(nodes) == 0 {
		fmt.Fprintf(deps.Stdout, "Project %q has no nodes.\n", c.Name)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Nodes for %s (%d total):\n\n", c.Name, len(nodes))
	for i, n := range nodes {
		status := "not fetched"
		if !n.FetchedAt.IsZero() {
			status = fmt.Sprintf("fetched %s, %s", n.FetchedAt.Format("2006-01-02"), crawl.FormatBytes(len(n.Content)))
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s\n     %s (%s)\n", i+1, n.DisplayTitle(), n.URL, status)
		if c.Full && n.Content != "" {
			fmt.Fprintf(deps.Stdout, "\n%s\n\n", n.Content)
		}
	}
	return nil
}
