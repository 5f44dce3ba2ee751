// Package scrape turns a URL into a webgraph.Page by fetching, extracting
// and converting it.
package scrape

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/webgraph"
)

// Compile-time interface verification.
var _ webgraph.Scraper = (*Scraper)(nil)

// Scraper composes a Fetcher, an Extractor and a Converter.
type Scraper struct {
	Fetcher   webgraph.Fetcher
	Extractor webgraph.Extractor
	Converter webgraph.Converter
}

// Scrape fetches url and returns its title and converted content.
// Returns EINVALID if the page is empty.
func (s *Scraper) Scrape(ctx context.Context, url string) (*webgraph.Page, error) {
	html, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(html) == "" {
		return nil, webgraph.Errorf(webgraph.EINVALID, "empty page at %s", url)
	}

	extracted, err := s.Extractor.Extract(html)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", url, err)
	}

	content, err := s.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", url, err)
	}

	return &webgraph.Page{
		URL:     url,
		Title:   strings.TrimSpace(extracted.Title),
		Content: strings.TrimSpace(content),
	}, nil
}
