package goquery_test

import (
	"testing"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves same-host links in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<nav><a href="/docs/intro">Intro</a></nav>
<main>
	<a href="guide#setup">Guide</a>
	<a href="https://docs.example.com/docs/api">API</a>
	<a href="/docs/intro#again">Intro again</a>
</main>
</body></html>`

		links, err := goquery.NewLinkExtractor("").ExtractLinks(html, "https://docs.example.com/docs/")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://docs.example.com/docs/intro",
			"https://docs.example.com/docs/guide",
			"https://docs.example.com/docs/api",
		}, links)
	})

	t.Run("skips external non-HTTP and self links", func(t *testing.T) {
		t.Parallel()

		html := `<body>
<a href="https://other.example.com/x">Other</a>
<a href="https://example.com/x">Apex</a>
<a href="mailto:me@docs.example.com">Mail</a>
<a href="javascript:void(0)">JS</a>
<a href="ftp://docs.example.com/file">FTP</a>
<a href="#top">Top</a>
<a href="">Empty</a>
<a>No href</a>
<a href="/ok">OK</a>
</body>`

		links, err := goquery.NewLinkExtractor("").ExtractLinks(html, "https://docs.example.com/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example.com/ok"}, links)
	})

	t.Run("honors base element", func(t *testing.T) {
		t.Parallel()

		html := `<head><base href="/v2/"></head><body><a href="page">Page</a></body>`

		links, err := goquery.NewLinkExtractor("").ExtractLinks(html, "https://docs.example.com/v1/index.html")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example.com/v2/page"}, links)
	})

	t.Run("restricts to selector", func(t *testing.T) {
		t.Parallel()

		html := `<body><nav><a href="/nav">Nav</a></nav><main><a href="/content">Content</a></main></body>`

		links, err := goquery.NewLinkExtractor("main a[href]").ExtractLinks(html, "https://docs.example.com/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example.com/content"}, links)
	})

	t.Run("returns EINVALID for invalid base URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewLinkExtractor("").ExtractLinks("<a href='/x'>x</a>", "://bad")

		assert.Equal(t, webgraph.EINVALID, webgraph.ErrorCode(err))
	})

	t.Run("returns nil for page without links", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewLinkExtractor("").ExtractLinks("<p>nothing here</p>", "https://docs.example.com/")

		require.NoError(t, err)
		assert.Empty(t, links)
	})
}
