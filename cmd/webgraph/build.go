package main

import (
	"fmt"

	"github.com/fwojciec/webgraph/hcl"
)

// Run executes the build command.
func (c *BuildCmd) Run(deps *Dependencies) error {
	vars, err := hcl.ParseVars(c.Var)
	if err != nil {
		return deps.fail(err)
	}

	g, err := hcl.DecodeFile(c.File, vars)
	if err != nil {
		return deps.fail(err)
	}

	if err := deps.saveProject(c.Name, g, c.Force); err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Built project %q (%d nodes, %d edges)\n", c.Name, g.Len(), len(g.Edges()))
	return nil
}
