// Package goquery implements HTML extraction with CSS selectors using
// github.com/PuerkitoBio/goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/webgraph"
)

// Compile-time interface verification.
var _ webgraph.LinkExtractor = (*LinkExtractor)(nil)

// DefaultLinkSelector matches every anchor with an href.
const DefaultLinkSelector = "a[href]"

// LinkExtractor extracts same-host links matched by a CSS selector.
type LinkExtractor struct {
	selector string
}

// NewLinkExtractor creates a LinkExtractor for anchors matching selector,
// or DefaultLinkSelector when selector is empty. Use a narrower selector
// such as "main a[href]" to skip navigation chrome.
func NewLinkExtractor(selector string) *LinkExtractor {
	if selector == "" {
		selector = DefaultLinkSelector
	}
	return &LinkExtractor{selector: selector}
}

// ExtractLinks parses HTML and returns absolute links on the same host as
// baseURL in document order. Fragments are stripped, duplicates and links
// back to baseURL itself are dropped.
func (e *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, webgraph.Errorf(webgraph.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, webgraph.Errorf(webgraph.EINVALID, "failed to parse HTML: %v", err)
	}

	// <base href> overrides the page URL for relative links.
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if ref, err := url.Parse(href); err == nil {
			base = base.ResolveReference(ref)
		}
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find(e.selector).Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" || !isSameHost(base, resolved) || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}

// resolveURL resolves href against base with the fragment stripped.
// Returns empty string if the href cannot be parsed, is not http(s), or
// points back at base.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isSameHost checks if the resolved URL has the same host as the base URL.
// Subdomains are different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(href, scheme) {
			return true
		}
	}
	return false
}
