package mock

import (
	"context"

	"github.com/fwojciec/webgraph"
)

var _ webgraph.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of webgraph.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, url string) (*webgraph.Page, error)
}

func (s *Scraper) Scrape(ctx context.Context, url string) (*webgraph.Page, error) {
	return s.ScrapeFn(ctx, url)
}
