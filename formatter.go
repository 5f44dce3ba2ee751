package webgraph

import (
	"strings"
	"unicode/utf8"
)

// ContextHeader opens every formatted context.
const ContextHeader = "Knowledge Context:\n\n"

// ContextEntry is one node selected as LLM context, with the titles of the
// nodes its edges lead to.
type ContextEntry struct {
	Title       string
	Description string
	Related     []string
}

// String formats the entry as a bullet, followed by a Related line if the
// node has successors.
func (e ContextEntry) String() string {
	var sb strings.Builder
	desc := e.Description
	if desc == "" {
		desc = "No description available"
	}
	sb.WriteString("- " + e.Title + ": " + desc + "\n")
	if len(e.Related) > 0 {
		sb.WriteString("  Related: " + strings.Join(e.Related, ", ") + "\n")
	}
	return sb.String()
}

// SelectContext returns an entry for every node whose title (or URL when
// untitled) contains any whitespace-separated term of query, ignoring case.
// Related lists outgoing edge targets only. Entries follow node insertion
// order.
func SelectContext(g *Graph, query string) []ContextEntry {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil
	}

	var entries []ContextEntry
	for _, n := range g.Nodes() {
		label := strings.ToLower(n.DisplayTitle())
		matched := false
		for _, term := range terms {
			if strings.Contains(label, term) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		entry := ContextEntry{Title: n.DisplayTitle(), Description: n.Content}
		for _, url := range g.Successors(n.URL) {
			if nb := g.Node(url); nb != nil {
				entry.Related = append(entry.Related, nb.DisplayTitle())
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// FormatContext formats the context selected for query.
func FormatContext(g *Graph, query string) string {
	return FormatEntries(SelectContext(g, query))
}

// FormatEntries joins entries under ContextHeader.
func FormatEntries(entries []ContextEntry) string {
	var sb strings.Builder
	sb.WriteString(ContextHeader)
	for _, e := range entries {
		sb.WriteString(e.String())
	}
	return sb.String()
}

// Preview returns the first n bytes of content followed by "...",
// never splitting a UTF-8 sequence. Content no longer than n is
// still suffixed.
func Preview(content string, n int) string {
	if len(content) <= n {
		return content + "..."
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "..."
}
