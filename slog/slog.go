// Package slog wraps webgraph services with log/slog decorators. Each
// decorator logs one line per call: Info on success, Warn with the error
// code on failure.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webgraph"
)

func logCall(ctx context.Context, logger *slog.Logger, msg string, begin time.Time, err error, attrs ...any) {
	attrs = append(attrs, "duration", time.Since(begin))
	level := slog.LevelInfo
	if err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, "code", webgraph.ErrorCode(err), "err", err)
	}
	logger.Log(ctx, level, msg, attrs...)
}
