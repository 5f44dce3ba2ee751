package main

import (
	"errors"
	"fmt"

	"github.com/fwojciec/webgraph"
)

// Run executes the export command. Nothing is published unless every node
// is written.
func (c *ExportCmd) Run(deps *Dependencies) error {
	project, err := deps.findProject(c.Name)
	if err != nil {
		return deps.fail(err)
	}

	nodes, err := deps.Nodes.FindNodes(deps.Ctx, webgraph.NodeFilter{ProjectID: &project.ID})
	if err != nil {
		return deps.fail(err)
	}

	w := deps.NewExporter(c.Dir, c.Force)
	for _, n := range nodes {
		if err := w.WriteNode(deps.Ctx, n); err != nil {
			return deps.fail(errors.Join(err, w.Abort()))
		}
	}
	if err := w.Commit(); err != nil {
		return deps.fail(errors.Join(err, w.Abort()))
	}

	fmt.Fprintf(deps.Stdout, "Exported %d nodes to %s\n", len(nodes), c.Dir)
	return nil
}
