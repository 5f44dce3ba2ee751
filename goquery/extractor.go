package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webgraph"
)

// Compile-time interface verification.
var _ webgraph.Extractor = (*Extractor)(nil)

// hiddenSelector matches elements that never render as page text.
const hiddenSelector = "script, style, noscript, template"

// Extractor returns a page's title and its whole body without hidden
// elements. Unlike the readability-style extractors it keeps navigation
// and footer text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses html and returns its title and body HTML. The title comes
// from <title>, then the og:title meta tag, then the first <h1>.
func (e *Extractor) Extract(html string) (*webgraph.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webgraph.Errorf(webgraph.EINVALID, "failed to parse HTML: %v", err)
	}

	body := doc.Find("body").First()
	body.Find(hiddenSelector).Remove()
	content, err := body.Html()
	if err != nil {
		return nil, err
	}

	return &webgraph.ExtractResult{
		Title:       title(doc),
		ContentHTML: strings.TrimSpace(content),
	}, nil
}

func title(doc *goquery.Document) string {
	if t := collapse(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t := collapse(og); t != "" {
			return t
		}
	}
	return collapse(doc.Find("h1").First().Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
