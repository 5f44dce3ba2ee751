package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/crawl"
)

// Exporter stages node files and publishes them on Commit.
type Exporter interface {
	webgraph.NodeWriter
	Commit() error
	Abort() error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Projects webgraph.ProjectService
	Nodes    webgraph.NodeService
	Edges    webgraph.EdgeService
	Graphs   webgraph.GraphService
	Sitemaps webgraph.SitemapService

	Runner     *crawl.Runner
	Discoverer *crawl.Discoverer
	Embedder   webgraph.Embedder
	Asker      webgraph.Asker

	// NewExporter returns an Exporter writing to dir. With force, a
	// directory that no export wrote may be replaced.
	NewExporter func(dir string, force bool) Exporter
}

// fail prints err to stderr and returns it.
func (d *Dependencies) fail(err error) error {
	fmt.Fprintf(d.Stderr, "error: %s\n", errorText(err))
	return err
}

// errorText returns the message of an application error, or the full
// error text for anything else.
func errorText(err error) string {
	var e *webgraph.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// findProject returns the project named name, or ENOTFOUND.
func (d *Dependencies) findProject(name string) (*webgraph.Project, error) {
	projects, err := d.Projects.FindProjects(d.Ctx, webgraph.ProjectFilter{Name: &name})
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, webgraph.Errorf(webgraph.ENOTFOUND, "project %q not found. Use 'webgraph list' to see available projects.", name)
	}
	return projects[0], nil
}

// saveProject stores g as a new project named name. With force, an
// existing project of that name is replaced.
func (d *Dependencies) saveProject(name string, g *webgraph.Graph, force bool) error {
	return d.Graphs.CreateProjectGraph(d.Ctx, &webgraph.Project{Name: name}, g, force)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log fetches and API calls to stderr"`
	DB      string `name:"db" help:"Database path (overrides WEBGRAPH_DB)"`

	Build    BuildCmd    `cmd:"" help:"Create a project from an HCL graph definition"`
	Discover DiscoverCmd `cmd:"" help:"Create a project by following links from a URL"`
	Run      RunCmd      `cmd:"" help:"Run the edge functions of a project"`
	List     ListCmd     `cmd:"" help:"List all projects"`
	Nodes    NodesCmd    `cmd:"" help:"List the nodes of a project"`
	Edges    EdgesCmd    `cmd:"" help:"List the edges of a project"`
	Query    QueryCmd    `cmd:"" help:"Rank nodes by similarity to a question"`
	Ask      AskCmd      `cmd:"" help:"Answer a question using the project graph"`
	Export   ExportCmd   `cmd:"" help:"Write nodes as markdown files"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a project with its nodes and edges"`
}

// BuildCmd is the "build" subcommand.
type BuildCmd struct {
	Name  string   `arg:"" help:"Project name"`
	File  string   `arg:"" type:"existingfile" help:"Graph definition (.hcl or .json)"`
	Var   []string `short:"V" sep:"none" help:"Variable as key=value (repeatable)"`
	Force bool     `short:"f" help:"Replace an existing project"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	Name     string   `arg:"" help:"Project name"`
	URL      string   `arg:"" help:"Seed URL"`
	Depth    int      `short:"d" default:"1" help:"Link hops to follow from the seed"`
	MaxNodes int      `short:"n" default:"50" help:"Maximum number of nodes"`
	Func     string   `default:"scrape_title" help:"Edge function of discovered edges"`
	Sitemap  bool     `help:"Seed from the site's sitemap instead of links"`
	Filter   []string `short:"F" sep:"none" help:"Include URLs matching regex (repeatable)"`
	Exclude  []string `short:"X" sep:"none" help:"Exclude URLs matching regex (repeatable)"`
	Force    bool     `short:"f" help:"Replace an existing project"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Name        string        `arg:"" help:"Project name"`
	Concurrency int           `short:"c" default:"4" help:"Edges run in parallel"`
	Render      bool          `help:"Render pages in headless Chrome"`
	Extract     string        `default:"goquery" enum:"goquery,trafilatura,readability" help:"Content extractor (goquery, trafilatura, readability)"`
	Markdown    bool          `help:"Store content as markdown instead of plain text"`
	MaxAge      time.Duration `default:"0s" help:"Skip nodes fetched within this duration"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// NodesCmd is the "nodes" subcommand.
type NodesCmd struct {
	Name string `arg:"" help:"Project name"`
	Full bool   `help:"Show node content"`
}

// EdgesCmd is the "edges" subcommand.
type EdgesCmd struct {
	Name string `arg:"" help:"Project name"`
}

// QueryCmd is the "query" subcommand.
type QueryCmd struct {
	Name     string `arg:"" help:"Project name"`
	Question string `arg:"" help:"Question to rank nodes against"`
	TopK     int    `short:"k" default:"3" help:"Number of results"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Name     string `arg:"" help:"Project name"`
	Question string `arg:"" help:"Question to ask about the graph"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Name  string `arg:"" help:"Project name"`
	Dir   string `arg:"" help:"Output directory"`
	Force bool   `short:"f" help:"Replace an existing directory not written by export"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Project name"`
	Force bool   `help:"Confirm deletion"`
}
