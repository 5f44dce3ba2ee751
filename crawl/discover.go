package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/webgraph"
)

// Discovery defaults.
const (
	DefaultDepth    = 1
	DefaultMaxNodes = 50

	// frontierExpectedURLs sizes the Bloom filter.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
)

// Discoverer builds a graph by following links breadth-first from a seed.
// Every followed link becomes an edge from the page it was found on.
type Discoverer struct {
	Fetcher     webgraph.Fetcher
	Links       webgraph.LinkExtractor
	RateLimiter webgraph.DomainLimiter
	Filter      *webgraph.URLFilter
	RetryDelays []time.Duration
	Logger      *slog.Logger

	// Depth is the number of link hops followed from the seed.
	// Defaults to DefaultDepth.
	Depth int

	// MaxNodes bounds the size of the graph. Defaults to DefaultMaxNodes.
	MaxNodes int

	// Func is the edge function of discovered edges.
	// Defaults to webgraph.FuncScrapeTitle.
	Func string
}

// Discover fetches seed and the pages it links to up to Depth hops and
// returns the resulting graph. A failure to fetch the seed is returned;
// failures on other pages are logged and skipped. Node URLs never carry a
// fragment, including the seed's.
func (d *Discoverer) Discover(ctx context.Context, seed string) (*webgraph.Graph, error) {
	if err := webgraph.ValidateURL(seed); err != nil {
		return nil, err
	}
	seed = stripFragment(seed)

	depth := d.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	maxNodes := d.MaxNodes
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	fn := d.Func
	if fn == "" {
		fn = webgraph.FuncScrapeTitle
	}
	delays := d.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	g := webgraph.NewGraph()
	g.AddNode(seed)

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	frontier.Push(webgraph.Link{URL: seed})

	for {
		link, ok := frontier.Pop()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		html, err := Retry(ctx, link.URL, func(ctx context.Context, url string) (string, error) {
			if err := waitURL(ctx, d.RateLimiter, url); err != nil {
				return "", err
			}
			return d.Fetcher.Fetch(ctx, url)
		}, nil, delays)
		if err != nil {
			if link.URL == seed {
				return nil, fmt.Errorf("fetch seed: %w", err)
			}
			logger.Warn("discover", "url", link.URL, "err", err)
			continue
		}

		links, err := d.Links.ExtractLinks(html, link.URL)
		if err != nil {
			logger.Warn("discover", "url", link.URL, "err", err)
			continue
		}

		for _, target := range links {
			target = stripFragment(target)
			if target == link.URL || !d.Filter.Match(target) {
				continue
			}
			if g.Node(target) == nil && g.Len() >= maxNodes {
				continue
			}
			if err := g.AddEdge(webgraph.Edge{From: link.URL, To: target, Func: fn}); err != nil {
				continue
			}
			if link.Depth+1 < depth {
				frontier.Push(webgraph.Link{URL: target, Parent: link.URL, Depth: link.Depth + 1})
			}
		}
	}

	return g, nil
}

// FromSitemap builds a star graph with an edge from root to every URL the
// site's sitemap lists, up to maxNodes nodes in total.
func FromSitemap(ctx context.Context, sitemaps webgraph.SitemapService, root string, filter *webgraph.URLFilter, fn string, maxNodes int) (*webgraph.Graph, error) {
	if err := webgraph.ValidateURL(root); err != nil {
		return nil, err
	}
	root = stripFragment(root)
	if fn == "" {
		fn = webgraph.FuncScrapeTitle
	}
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	urls, err := sitemaps.DiscoverURLs(ctx, root, filter)
	if err != nil {
		return nil, fmt.Errorf("sitemap discovery: %w", err)
	}

	g := webgraph.NewGraph()
	g.AddNode(root)
	for _, u := range urls {
		if g.Len() >= maxNodes {
			break
		}
		if u == root {
			continue
		}
		if err := g.AddEdge(webgraph.Edge{From: root, To: u, Func: fn}); err != nil {
			continue
		}
	}
	return g, nil
}
