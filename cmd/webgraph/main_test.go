package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/webgraph"
	main "github.com/fwojciec/webgraph/cmd/webgraph"
	"github.com/fwojciec/webgraph/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runMain runs the CLI against the database at dbPath.
func runMain(t *testing.T, dbPath string, fetcher webgraph.Fetcher, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	m := main.NewMain()
	m.Config.DB = dbPath
	m.Config.Rate = 1000
	m.Fetcher = fetcher

	var out, errOut bytes.Buffer
	err = m.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	stdout, _, err := runMain(t, dbPath, nil, "--help")

	require.NoError(t, err)
	for _, cmd := range allCommands {
		assert.Contains(t, stdout, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "Flags:")

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "help must not create the database")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	stdout, stderr, err := runMain(t, filepath.Join(t.TempDir(), "test.db"), nil)

	require.Error(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stderr, "no command specified")
}

func TestMain_Run_UnknownCommand(t *testing.T) {
	t.Parallel()

	_, stderr, err := runMain(t, filepath.Join(t.TempDir(), "test.db"), nil, "frobnicate")

	require.Error(t, err)
	assert.Contains(t, stderr, "error:")
}

func TestMain_Run_AskRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, stderr, err := runMain(t, filepath.Join(t.TempDir(), "test.db"), nil, "ask", "site", "what?")

	require.Error(t, err)
	assert.Equal(t, webgraph.EUNAUTHORIZED, webgraph.ErrorCode(err))
	assert.Contains(t, stderr, "GEMINI_API_KEY not set")
}

func TestMain_Run_RejectsNonPositiveRate(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Config.DB = filepath.Join(t.TempDir(), "test.db")
	m.Config.Rate = 0

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{"discover", "site", "https://example.com"}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, stderr.String(), "WEBGRAPH_RATE must be positive")
}

func TestMain_Run_ProjectLifecycle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	graphFile := filepath.Join(dir, "graph.hcl")
	require.NoError(t, os.WriteFile(graphFile, []byte(`
node "home" { url = "https://example.com" }
node "docs" { url = "https://example.com/docs" }
edge {
  from = "home"
  to   = "docs"
  func = "similarity"
}
`), 0o644))

	pages := map[string]string{
		"https://example.com":      `<html><head><title>Example Home</title></head><body><p>Welcome to the example site about gophers.</p></body></html>`,
		"https://example.com/docs": `<html><head><title>Example Docs</title></head><body><p>Documentation about gophers and their burrows.</p></body></html>`,
	}
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			html, ok := pages[url]
			if !ok {
				return "", webgraph.Errorf(webgraph.ENOTFOUND, "not found")
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}

	stdout, _, err := runMain(t, dbPath, nil, "build", "site", graphFile)
	require.NoError(t, err)
	assert.Contains(t, stdout, `Built project "site" (2 nodes, 1 edges)`)

	_, stderr, err := runMain(t, dbPath, nil, "build", "site", graphFile)
	require.Error(t, err, "building over an existing project requires --force")
	assert.Contains(t, stderr, `error: project "site" already exists`)

	stdout, _, err = runMain(t, dbPath, nil, "build", "site", graphFile, "--force")
	require.NoError(t, err)
	assert.Contains(t, stdout, `Built project "site" (2 nodes, 1 edges)`)

	stdout, _, err = runMain(t, dbPath, nil, "list")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stdout, "site"))

	stdout, _, err = runMain(t, dbPath, nil, "edges", "site")
	require.NoError(t, err)
	assert.Contains(t, stdout, "https://example.com -> https://example.com/docs  similarity  -")

	stdout, stderr, err = runMain(t, dbPath, fetcher, "run", "site")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Example Home -> Example Docs")
	assert.Contains(t, stdout, "Done: 1 completed, 0 failed")

	stdout, _, err = runMain(t, dbPath, nil, "nodes", "site")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Example Home")
	assert.Contains(t, stdout, "Example Docs")

	stdout, _, err = runMain(t, dbPath, nil, "query", "site", "gophers burrows", "-k", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1. Example Docs")

	exportDir := filepath.Join(dir, "export")
	stdout, _, err = runMain(t, dbPath, nil, "export", "site", exportDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 2 nodes")
	data, err := os.ReadFile(filepath.Join(exportDir, "example.com", "docs.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Example Docs")

	_, _, err = runMain(t, dbPath, nil, "export", "site", exportDir)
	require.NoError(t, err, "a previous export may be replaced without --force")

	stdout, _, err = runMain(t, dbPath, nil, "delete", "site", "--force")
	require.NoError(t, err)
	assert.Contains(t, stdout, `Deleted project "site"`)

	stdout, _, err = runMain(t, dbPath, nil, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No projects found")
}
