package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/webgraph"
)

// Ensure LoggingSitemapService implements webgraph.SitemapService.
var _ webgraph.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService and logs each discovery.
type LoggingSitemapService struct {
	next   webgraph.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next webgraph.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *webgraph.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		logCall(ctx, s.logger, "sitemap discovery", begin, err,
			"url", baseURL,
			"filtered", filter != nil,
			"count", len(urls),
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
