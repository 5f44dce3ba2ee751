package main

import "fmt"

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	project, err := deps.findProject(c.Name)
	if err != nil {
		return deps.fail(err)
	}

	answer, err := deps.Asker.Ask(deps.Ctx, project.ID, c.Question)
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintln(deps.Stdout, answer)
	return nil
}
