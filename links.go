package webgraph

// LinkExtractor extracts outgoing links from HTML.
type LinkExtractor interface {
	// ExtractLinks parses HTML and returns absolute URLs on the same host as
	// baseURL, with fragments stripped, deduplicated, in document order.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
