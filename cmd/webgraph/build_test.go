package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/webgraph"
	main "github.com/fwojciec/webgraph/cmd/webgraph"
	"github.com/fwojciec/webgraph/crawl"
	"github.com/fwojciec/webgraph/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graphHCL = `
node "python" { url = "https://www.python.org" }
node "go"     { url = "https://${var.host}" }
edge {
  from = "python"
  to   = "go"
  func = "similarity"
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("creates project from HCL", func(t *testing.T) {
		t.Parallel()

		store := &graphStore{}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Graphs = store.graphService("p1")

		cmd := &main.BuildCmd{
			Name: "langs",
			File: writeFile(t, "graph.hcl", graphHCL),
			Var:  []string{"host=go.dev"},
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Built project \"langs\" (2 nodes, 1 edges)\n", stdout.String())
		assert.Equal(t, "langs", store.project.Name)
		assert.False(t, store.replace)
		require.Len(t, store.nodes, 2)
		assert.Equal(t, "https://go.dev", store.nodes[1].URL)
		require.Len(t, store.edges, 1)
		assert.Equal(t, webgraph.FuncSimilarity, store.edges[0].Func)
		assert.Equal(t, "p1", store.edges[0].ProjectID)
	})

	t.Run("rejects malformed variable", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)

		cmd := &main.BuildCmd{Name: "langs", File: writeFile(t, "graph.hcl", graphHCL), Var: []string{"host"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, webgraph.EINVALID, webgraph.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("rejects invalid graph before creating project", func(t *testing.T) {
		t.Parallel()

		store := &graphStore{}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Graphs = store.graphService("p1")

		src := `
node "a" { url = "https://a.example" }
edge {
  from = "a"
  to   = "b"
}
`
		err := (&main.BuildCmd{Name: "bad", File: writeFile(t, "graph.hcl", src)}).Run(deps)

		require.Error(t, err)
		assert.Nil(t, store.project)
		assert.Contains(t, stderr.String(), "unknown node")
	})

	t.Run("force replaces existing project", func(t *testing.T) {
		t.Parallel()

		store := &graphStore{}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Graphs = store.graphService("p2")

		cmd := &main.BuildCmd{
			Name:  "langs",
			File:  writeFile(t, "graph.hcl", graphHCL),
			Var:   []string{"host=go.dev"},
			Force: true,
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.True(t, store.replace)
		assert.Equal(t, "p2", store.nodes[0].ProjectID)
	})

	t.Run("existing project without force", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Graphs = &mock.GraphService{
			CreateProjectGraphFn: func(_ context.Context, p *webgraph.Project, _ *webgraph.Graph, replace bool) error {
				assert.False(t, replace)
				return webgraph.Errorf(webgraph.ECONFLICT, "project %q already exists", p.Name)
			},
		}

		err := (&main.BuildCmd{Name: "langs", File: writeFile(t, "graph.hcl", graphHCL), Var: []string{"host=go.dev"}}).Run(deps)

		assert.Equal(t, webgraph.ECONFLICT, webgraph.ErrorCode(err))
		assert.Equal(t, "error: project \"langs\" already exists\n", stderr.String())
		assert.Empty(t, stdout.String())
	})
}

func TestDiscoverCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("follows links from the seed", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{
			"https://example.com":   `<html><body><a href="/a">A</a><a href="/b">B</a></body></html>`,
			"https://example.com/a": `<html><body></body></html>`,
			"https://example.com/b": `<html><body></body></html>`,
		}
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				html, ok := pages[url]
				if !ok {
					return "", webgraph.Errorf(webgraph.ENOTFOUND, "not found")
				}
				return html, nil
			},
		}

		store := &graphStore{}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Graphs = store.graphService("p1")
		deps.Discoverer = &crawl.Discoverer{
			Fetcher:     fetcher,
			Links:       &mock.LinkExtractor{ExtractLinksFn: seedLinks},
			RateLimiter: noWait(),
		}

		cmd := &main.DiscoverCmd{Name: "site", URL: "https://example.com", Depth: 1, MaxNodes: 10, Func: webgraph.FuncScrapeTitle}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Discovered project \"site\" (3 nodes, 2 edges)")
		require.Len(t, store.edges, 2)
		assert.Equal(t, "https://example.com", store.edges[0].From)
	})

	t.Run("seeds from sitemap", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, filter *webgraph.URLFilter) ([]string, error) {
				assert.Equal(t, "https://example.com", baseURL)
				require.NotNil(t, filter)
				return []string{"https://example.com/docs/a", "https://example.com/docs/b"}, nil
			},
		}

		store := &graphStore{}
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Graphs = store.graphService("p1")
		deps.Sitemaps = sitemaps

		cmd := &main.DiscoverCmd{
			Name:     "site",
			URL:      "https://example.com",
			MaxNodes: 10,
			Func:     webgraph.FuncScrapeContent,
			Sitemap:  true,
			Filter:   []string{"/docs/"},
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.Len(t, store.edges, 2)
		assert.Equal(t, webgraph.FuncScrapeContent, store.edges[1].Func)
	})

	t.Run("rejects invalid filter", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)

		cmd := &main.DiscoverCmd{Name: "site", URL: "https://example.com", Filter: []string{"[unclosed"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("rejects relative URL", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)

		err := (&main.DiscoverCmd{Name: "site", URL: "/docs"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, webgraph.EINVALID, webgraph.ErrorCode(err))
	})
}

// seedLinks reports two links on the seed page and none elsewhere.
func seedLinks(_, baseURL string) ([]string, error) {
	if baseURL != "https://example.com" {
		return nil, nil
	}
	return []string{"https://example.com/a", "https://example.com/b"}, nil
}
