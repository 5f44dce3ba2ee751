// Package webgraph builds graphs of websites whose edges carry work to run.
// A node wraps a single URL; an edge pairs two nodes and names the edge
// function to invoke (for example scrape_title). Running the graph executes
// every edge function, recording titles, page text, embeddings and
// similarity weights on the graph, which can then be queried or used as
// context for question answering.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package webgraph
