package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webgraph"
	"golang.org/x/net/html"
)

// Compile-time interface verification.
var _ webgraph.Converter = (*TextConverter)(nil)

// TextConverter converts HTML to its visible text. Text nodes are joined
// with single spaces and runs of whitespace collapse, so adjacent blocks
// never run together.
type TextConverter struct{}

// NewTextConverter creates a new TextConverter.
func NewTextConverter() *TextConverter {
	return &TextConverter{}
}

// Convert returns the visible text of htmlContent.
func (c *TextConverter) Convert(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", webgraph.Errorf(webgraph.EINVALID, "failed to parse HTML: %v", err)
	}
	doc.Find(hiddenSelector).Remove()

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range doc.Find("body").Nodes {
		walk(n)
	}

	return collapse(strings.Join(parts, " ")), nil
}
