// Package readability extracts the main content of web pages using
// github.com/go-shiori/go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/webgraph"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements webgraph.Extractor at compile time.
var _ webgraph.Extractor = (*Extractor)(nil)

// Extractor applies the Mozilla Readability algorithm. It suits article
// pages; on pages without a clear article it may return little content.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content. The title falls
// back to the site name when the page declares none.
func (e *Extractor) Extract(rawHTML string) (*webgraph.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webgraph.Errorf(webgraph.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	title := article.Title
	if title == "" {
		title = article.SiteName
	}

	return &webgraph.ExtractResult{
		Title:       strings.TrimSpace(title),
		ContentHTML: article.Content,
	}, nil
}
