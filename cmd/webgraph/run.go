package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/webgraph/crawl"
	"github.com/fwojciec/webgraph/sqlite"
)

// Run executes the run command. Results are saved even when the run is
// interrupted, so completed edges are not fetched again next time.
func (c *RunCmd) Run(deps *Dependencies) error {
	project, err := deps.findProject(c.Name)
	if err != nil {
		return deps.fail(err)
	}

	g, err := sqlite.LoadGraph(deps.Ctx, deps.Nodes, deps.Edges, project.ID)
	if err != nil {
		return deps.fail(err)
	}

	runner := *deps.Runner
	if c.Concurrency > 0 {
		runner.Concurrency = c.Concurrency
	}
	runner.MaxAge = c.MaxAge

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Running %d edges\n", event.Total)
		case crawl.ProgressCompleted:
			line := fmt.Sprintf("%s -> %s", event.Edge.FromTitle, event.Edge.ToTitle)
			if w := event.Edge.Edge.Weight; w != nil {
				line += " (" + crawl.FormatWeight(w) + ")"
			}
			fmt.Fprintln(deps.Stdout, line)
		case crawl.ProgressFailed:
			e := event.Edge.Edge
			cause := event.Edge.Err
			if inner := errors.Unwrap(cause); inner != nil {
				cause = inner
			}
			fmt.Fprintf(deps.Stderr, "  fail %s -> %s: %s\n",
				crawl.TruncateURL(e.From, 60), crawl.TruncateURL(e.To, 60), errorText(cause))
		}
	}

	result, runErr := runner.Run(deps.Ctx, g, progress)

	if result != nil {
		if err := sqlite.SaveGraph(context.WithoutCancel(deps.Ctx), deps.Nodes, deps.Edges, project.ID, g); err != nil {
			return deps.fail(err)
		}
		fmt.Fprintf(deps.Stdout, "Done: %d completed, %d failed\n", result.Completed, result.Failed)
	}
	if runErr != nil {
		return deps.fail(runErr)
	}
	return nil
}
