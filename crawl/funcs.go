package crawl

import (
	"context"
	"errors"

	"github.com/fwojciec/webgraph"
)

// EdgeFunc is the work attached to an edge. It reads and updates the run's
// graph through env.
type EdgeFunc func(ctx context.Context, env *Env, edge webgraph.Edge) error

// DefaultFuncs returns the built-in edge functions keyed by name.
func DefaultFuncs() map[string]EdgeFunc {
	return map[string]EdgeFunc{
		webgraph.FuncScrapeTitle:   ScrapeTitle,
		webgraph.FuncScrapeContent: ScrapeContent,
		webgraph.FuncSimilarity:    Similarity,
	}
}

// ScrapeTitle records the page title of both endpoints.
func ScrapeTitle(ctx context.Context, env *Env, edge webgraph.Edge) error {
	return forEndpoints(edge, func(url string) error {
		if env.Fresh(env.Graph().Node(url)) {
			return nil
		}
		page, err := env.Scrape(ctx, url)
		if err != nil {
			return err
		}
		env.Graph().UpdateNode(url, func(n *webgraph.Node) {
			n.Title = page.Title
			n.FetchedAt = env.Now()
		})
		return nil
	})
}

// ScrapeContent records the title, text content and content hash of both
// endpoints. A node whose content changed loses its embedding.
func ScrapeContent(ctx context.Context, env *Env, edge webgraph.Edge) error {
	return forEndpoints(edge, func(url string) error {
		return scrapeContent(ctx, env, url)
	})
}

// Similarity scrapes the content of both endpoints, embeds them and sets
// the edge weight to their cosine similarity.
func Similarity(ctx context.Context, env *Env, edge webgraph.Edge) error {
	if err := ScrapeContent(ctx, env, edge); err != nil {
		return err
	}
	from, err := env.Embed(ctx, edge.From)
	if err != nil {
		return err
	}
	to, err := env.Embed(ctx, edge.To)
	if err != nil {
		return err
	}
	env.Graph().SetWeight(edge.From, edge.To, webgraph.CosineSimilarity(from, to))
	return nil
}

func scrapeContent(ctx context.Context, env *Env, url string) error {
	if n := env.Graph().Node(url); env.Fresh(n) && n.ContentHash != "" {
		return nil
	}
	page, err := env.Scrape(ctx, url)
	if err != nil {
		return err
	}
	hash := ComputeHash(page.Content)
	env.Graph().UpdateNode(url, func(n *webgraph.Node) {
		if n.ContentHash != hash {
			n.Embedding = nil
		}
		n.Title = page.Title
		n.Content = page.Content
		n.ContentHash = hash
		n.FetchedAt = env.Now()
	})
	return nil
}

// forEndpoints calls fn for both endpoints so one failing page does not
// prevent the other from being recorded.
func forEndpoints(edge webgraph.Edge, fn func(url string) error) error {
	return errors.Join(fn(edge.From), fn(edge.To))
}
