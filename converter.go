package webgraph

// Converter converts content HTML into the text stored on a node,
// e.g. plain text or Markdown.
type Converter interface {
	Convert(html string) (string, error)
}
