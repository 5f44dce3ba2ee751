package mock

import "github.com/fwojciec/webgraph"

var (
	_ webgraph.Extractor     = (*Extractor)(nil)
	_ webgraph.Converter     = (*Converter)(nil)
	_ webgraph.LinkExtractor = (*LinkExtractor)(nil)
)

// Extractor is a mock implementation of webgraph.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*webgraph.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*webgraph.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Converter is a mock implementation of webgraph.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// LinkExtractor is a mock implementation of webgraph.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return l.ExtractLinksFn(html, baseURL)
}
