// Package trafilatura extracts the main content of web pages using
// github.com/markusmobius/go-trafilatura.
package trafilatura

import (
	"bytes"
	"html"
	"strings"

	"github.com/fwojciec/webgraph"
	"github.com/markusmobius/go-trafilatura"
	nethtml "golang.org/x/net/html"
)

// Ensure Extractor implements webgraph.Extractor at compile time.
var _ webgraph.Extractor = (*Extractor)(nil)

// Extractor drops boilerplate such as navigation, footers and comments
// and keeps the main article of a page.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
}

// Extract processes raw HTML and returns the main content. The title falls
// back to the site name when the page declares none.
func (e *Extractor) Extract(rawHTML string) (*webgraph.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, webgraph.Errorf(webgraph.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	switch {
	case result.ContentNode != nil:
		var buf bytes.Buffer
		if err := nethtml.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
		contentHTML = buf.String()
	case result.ContentText != "":
		contentHTML = "<p>" + html.EscapeString(result.ContentText) + "</p>"
	}

	title := result.Metadata.Title
	if title == "" {
		title = result.Metadata.Sitename
	}

	return &webgraph.ExtractResult{
		Title:       title,
		ContentHTML: contentHTML,
	}, nil
}
