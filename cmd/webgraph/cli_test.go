package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webgraph"
	main "github.com/fwojciec/webgraph/cmd/webgraph"
	"github.com/fwojciec/webgraph/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCommands = []string{"build", "discover", "run", "list", "nodes", "edges", "query", "ask", "export", "delete"}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_ParsesRunFlags(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"run", "site", "-c", "8", "--extract", "readability", "--markdown", "--max-age", "1h"})
	require.NoError(t, err)

	assert.Equal(t, "site", cli.Run.Name)
	assert.Equal(t, 8, cli.Run.Concurrency)
	assert.Equal(t, "readability", cli.Run.Extract)
	assert.True(t, cli.Run.Markdown)
	assert.Equal(t, "1h0m0s", cli.Run.MaxAge.String())
}

func TestCLI_RejectsUnknownExtractor(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{"run", "site", "--extract", "lynx"})
	assert.Error(t, err)
}

// projectsNamed returns a ProjectService that knows a single project.
func projectsNamed(id, name string) *mock.ProjectService {
	return &mock.ProjectService{
		FindProjectsFn: func(_ context.Context, filter webgraph.ProjectFilter) ([]*webgraph.Project, error) {
			if filter.Name != nil && *filter.Name != name {
				return nil, nil
			}
			return []*webgraph.Project{{ID: id, Name: name}}, nil
		},
	}
}

func newDeps(stdout, stderr *bytes.Buffer) *main.Dependencies {
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
	}
}

func TestDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)

		err := (&main.DeleteCmd{Name: "site"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, webgraph.EINVALID, webgraph.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
		assert.Empty(t, stdout.String())
	})

	t.Run("deletes project", func(t *testing.T) {
		t.Parallel()

		var deletedID string
		projects := projectsNamed("p1", "site")
		projects.DeleteProjectFn = func(_ context.Context, id string) error {
			deletedID = id
			return nil
		}

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Projects = projects

		err := (&main.DeleteCmd{Name: "site", Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "p1", deletedID)
		assert.Contains(t, stdout.String(), `Deleted project "site"`)
	})

	t.Run("unknown project", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Projects = projectsNamed("p1", "site")

		err := (&main.DeleteCmd{Name: "other", Force: true}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, webgraph.ENOTFOUND, webgraph.ErrorCode(err))
		assert.Contains(t, stderr.String(), "webgraph list")
	})
}

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints answer", func(t *testing.T) {
		t.Parallel()

		var gotProject, gotQuestion string
		asker := &mock.Asker{
			AskFn: func(_ context.Context, projectID, question string) (string, error) {
				gotProject, gotQuestion = projectID, question
				return "Python links to Go.", nil
			},
		}

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Projects = projectsNamed("p1", "site")
		deps.Asker = asker

		err := (&main.AskCmd{Name: "site", Question: "what links where?"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "p1", gotProject)
		assert.Equal(t, "what links where?", gotQuestion)
		assert.Equal(t, "Python links to Go.\n", stdout.String())
	})

	t.Run("reports asker error", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(context.Context, string, string) (string, error) {
				return "", errors.New("quota exceeded")
			},
		}

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Projects = projectsNamed("p1", "site")
		deps.Asker = asker

		err := (&main.AskCmd{Name: "site", Question: "q"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: quota exceeded\n", stderr.String())
	})
}
