package slog_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/mock"
	wgslog "github.com/fwojciec/webgraph/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("logs count and whether a filter was applied", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		var gotFilter *webgraph.URLFilter
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, _ string, filter *webgraph.URLFilter) ([]string, error) {
				gotFilter = filter
				return []string{"https://example.com/docs/a", "https://example.com/docs/b"}, nil
			},
		}
		filter, err := webgraph.NewURLFilter([]string{"/docs/"}, nil)
		require.NoError(t, err)

		urls, err := wgslog.NewLoggingSitemapService(inner, newLogger(&buf)).
			DiscoverURLs(context.Background(), "https://example.com", filter)

		require.NoError(t, err)
		assert.Len(t, urls, 2)
		assert.Same(t, filter, gotFilter)
		output := buf.String()
		assert.Contains(t, output, `msg="sitemap discovery"`)
		assert.Contains(t, output, "url=https://example.com")
		assert.Contains(t, output, "filtered=true")
		assert.Contains(t, output, "count=2")
	})

	t.Run("logs error at warn", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, string, *webgraph.URLFilter) ([]string, error) {
				return nil, errors.New("connection failed")
			},
		}

		_, err := wgslog.NewLoggingSitemapService(inner, newLogger(&buf)).
			DiscoverURLs(context.Background(), "https://example.com", nil)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "filtered=false")
		assert.Contains(t, output, `err="connection failed"`)
	})
}
