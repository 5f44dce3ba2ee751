package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webgraph"
)

var _ webgraph.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker and logs each question.
type LoggingAsker struct {
	next   webgraph.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next webgraph.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped asker. The question text is not logged,
// only its length.
func (a *LoggingAsker) Ask(ctx context.Context, projectID string, question string) (answer string, err error) {
	defer func(begin time.Time) {
		logCall(ctx, a.logger, "ask", begin, err,
			"project", projectID,
			"question_bytes", len(question),
			"answer_bytes", len(answer),
		)
	}(time.Now())
	return a.next.Ask(ctx, projectID, question)
}
