package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webgraph"
)

var _ webgraph.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder and logs one line per batch.
type LoggingEmbedder struct {
	next   webgraph.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next webgraph.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates to the wrapped embedder.
func (e *LoggingEmbedder) Embed(ctx context.Context, texts []string) (vectors [][]float32, err error) {
	defer func(begin time.Time) {
		dims := 0
		if len(vectors) > 0 {
			dims = len(vectors[0])
		}
		logCall(ctx, e.logger, "embed", begin, err,
			"count", len(texts),
			"dims", dims,
		)
	}(time.Now())
	return e.next.Embed(ctx, texts)
}
