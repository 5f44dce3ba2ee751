package main

import (
	"fmt"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/crawl"
)

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	if err := webgraph.ValidateURL(c.URL); err != nil {
		return deps.fail(err)
	}

	filter, err := webgraph.NewURLFilter(c.Filter, c.Exclude)
	if err != nil {
		return deps.fail(err)
	}

	var g *webgraph.Graph
	if c.Sitemap {
		g, err = crawl.FromSitemap(deps.Ctx, deps.Sitemaps, c.URL, filter, c.Func, c.MaxNodes)
	} else {
		d := *deps.Discoverer
		d.Filter = filter
		d.Depth = c.Depth
		d.MaxNodes = c.MaxNodes
		d.Func = c.Func
		g, err = d.Discover(deps.Ctx, c.URL)
	}
	if err != nil {
		return deps.fail(err)
	}

	if err := deps.saveProject(c.Name, g, c.Force); err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Discovered project %q (%d nodes, %d edges)\n", c.Name, g.Len(), len(g.Edges()))
	return nil
}
