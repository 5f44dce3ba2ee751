package main

import (
	"fmt"

	"github.com/fwojciec/webgraph"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	projects, err := deps.Projects.FindProjects(deps.Ctx, webgraph.ProjectFilter{})
	if err != nil {
		return deps.fail(err)
	}

	if len(projects) == 0 {
		fmt.Fprintln(deps.Stdout, "No projects found. Use 'webgraph build' or 'webgraph discover' to create one.")
		return nil
	}

	for _, p := range projects {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", p.ID, p.Name, p.CreatedAt.Format("2006-01-02"))
	}
	return nil
}
