package webgraph

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the document title.
	Title string

	// ContentHTML is the page content as HTML with non-visible
	// elements (scripts, styles) and, depending on the extractor,
	// boilerplate removed.
	ContentHTML string
}

// Extractor extracts the title and content from HTML pages.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}
