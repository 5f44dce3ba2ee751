package main

import (
	"fmt"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/crawl"
)

// Run executes the edges command.
func (c *EdgesCmd) Run(deps *Dependencies) error {
	project, err := deps.findProject(c.Name)
	if err != nil {
		return deps.fail(err)
	}

	edges, err := deps.Edges.FindEdges(deps.Ctx, webgraph.EdgeFilter{ProjectID: &project.ID})
	if err != nil {
		return deps.fail(err)
	}

	if len(edges) == 0 {
		fmt.Fprintf(deps.Stdout, "Project %q has no edges.\n", c.Name)
		return nil
	}

	for _, e := range edges {
		fmt.Fprintf(deps.Stdout, "%s -> %s  %s  %s\n",
			crawl.TruncateURL(e.From, 50), crawl.TruncateURL(e.To, 50), e.Func, crawl.FormatWeight(e.Weight))
	}
	return nil
}
