package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webgraph"
)

// Ensure LoggingFetcher implements webgraph.Fetcher.
var _ webgraph.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher and logs one line per fetch.
type LoggingFetcher struct {
	next   webgraph.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next webgraph.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the URL, the response
// size and the elapsed time.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		logCall(ctx, f.logger, "fetch", begin, err,
			"url", url,
			"bytes", len(html),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
