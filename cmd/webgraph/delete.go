package main

import (
	"fmt"

	"github.com/fwojciec/webgraph"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		return deps.fail(webgraph.Errorf(webgraph.EINVALID, "use --force to confirm deletion"))
	}

	project, err := deps.findProject(c.Name)
	if err != nil {
		return deps.fail(err)
	}

	if err := deps.Projects.DeleteProject(deps.Ctx, project.ID); err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Deleted project %q\n", project.Name)
	return nil
}
