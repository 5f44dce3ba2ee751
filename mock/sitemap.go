package mock

import (
	"context"

	"github.com/fwojciec/webgraph"
)

var (
	_ webgraph.SitemapService = (*SitemapService)(nil)
	_ webgraph.DomainLimiter  = (*DomainLimiter)(nil)
)

// SitemapService is a mock implementation of webgraph.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *webgraph.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *webgraph.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}

// DomainLimiter is a mock implementation of webgraph.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.WaitFn(ctx, domain)
}
