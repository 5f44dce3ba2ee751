package webgraph

import "context"

// Page is the result of scraping a single URL.
type Page struct {
	URL     string
	Title   string
	Content string
}

// Scraper fetches a URL and extracts its title and content.
// Implementations hide fetcher, extractor and converter selection.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Page, error)
}
