package crawl_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/crawl"
	"github.com/fwojciec/webgraph/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// site is a fake website keyed by URL; each page's HTML is its URL and its
// links are listed in the map.
type site map[string][]string

func (s site) fetcher(fetched *[]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			if fetched != nil {
				*fetched = append(*fetched, url)
			}
			if _, ok := s[url]; !ok {
				return "", webgraph.Errorf(webgraph.ENOTFOUND, "404 %s", url)
			}
			return url, nil
		},
	}
}

func (s site) links() *mock.LinkExtractor {
	return &mock.LinkExtractor{
		ExtractLinksFn: func(html, _ string) ([]string, error) {
			return s[html], nil
		},
	}
}

func edgePairs(g *webgraph.Graph) [][2]string {
	var pairs [][2]string
	for _, e := range g.Edges() {
		pairs = append(pairs, [2]string{e.From, e.To})
	}
	return pairs
}

var docsSite = site{
	"https://docs.example.com":        {"https://docs.example.com/a", "https://docs.example.com/b"},
	"https://docs.example.com/a":      {"https://docs.example.com/a/deep", "https://docs.example.com"},
	"https://docs.example.com/b":      {"https://docs.example.com/a"},
	"https://docs.example.com/a/deep": {},
}

func TestDiscoverer_Discover(t *testing.T) {
	t.Parallel()

	t.Run("links seed to its pages at default depth", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		d := &crawl.Discoverer{Fetcher: docsSite.fetcher(&fetched), Links: docsSite.links(), RetryDelays: []time.Duration{}}

		g, err := d.Discover(context.Background(), "https://docs.example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example.com"}, fetched)
		assert.Equal(t, [][2]string{
			{"https://docs.example.com", "https://docs.example.com/a"},
			{"https://docs.example.com", "https://docs.example.com/b"},
		}, edgePairs(g))
		for _, e := range g.Edges() {
			assert.Equal(t, webgraph.FuncScrapeTitle, e.Func)
		}
	})

	t.Run("follows links breadth first up to depth", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		d := &crawl.Discoverer{
			Fetcher:     docsSite.fetcher(&fetched),
			Links:       docsSite.links(),
			Depth:       2,
			Func:        webgraph.FuncSimilarity,
			RetryDelays: []time.Duration{},
		}

		g, err := d.Discover(context.Background(), "https://docs.example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://docs.example.com",
			"https://docs.example.com/a",
			"https://docs.example.com/b",
		}, fetched)
		assert.Equal(t, [][2]string{
			{"https://docs.example.com", "https://docs.example.com/a"},
			{"https://docs.example.com", "https://docs.example.com/b"},
			{"https://docs.example.com/a", "https://docs.example.com/a/deep"},
			{"https://docs.example.com/a", "https://docs.example.com"},
			{"https://docs.example.com/b", "https://docs.example.com/a"},
		}, edgePairs(g))
		assert.Equal(t, 4, g.Len())
	})

	t.Run("bounds node count", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{Fetcher: docsSite.fetcher(nil), Links: docsSite.links(), Depth: 3, MaxNodes: 2, RetryDelays: []time.Duration{}}

		g, err := d.Discover(context.Background(), "https://docs.example.com")

		require.NoError(t, err)
		assert.Equal(t, 2, g.Len())
		assert.Equal(t, [][2]string{
			{"https://docs.example.com", "https://docs.example.com/a"},
			{"https://docs.example.com/a", "https://docs.example.com"},
		}, edgePairs(g))
	})

	t.Run("applies URL filter", func(t *testing.T) {
		t.Parallel()

		filter := &webgraph.URLFilter{Exclude: []*regexp.Regexp{regexp.MustCompile(`/b$`)}}
		d := &crawl.Discoverer{Fetcher: docsSite.fetcher(nil), Links: docsSite.links(), Filter: filter, RetryDelays: []time.Duration{}}

		g, err := d.Discover(context.Background(), "https://docs.example.com")

		require.NoError(t, err)
		assert.Equal(t, [][2]string{{"https://docs.example.com", "https://docs.example.com/a"}}, edgePairs(g))
	})

	t.Run("skips pages that fail to fetch", func(t *testing.T) {
		t.Parallel()

		s := site{
			"https://docs.example.com":   {"https://docs.example.com/gone", "https://docs.example.com/a"},
			"https://docs.example.com/a": {"https://docs.example.com/a/1"},
		}
		d := &crawl.Discoverer{Fetcher: s.fetcher(nil), Links: s.links(), Depth: 2, RetryDelays: []time.Duration{}}

		g, err := d.Discover(context.Background(), "https://docs.example.com")

		require.NoError(t, err)
		assert.Len(t, g.Edges(), 3)
	})

	t.Run("returns error when seed fails", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return "", errors.New("connection refused") },
		}
		d := &crawl.Discoverer{Fetcher: fetcher, Links: docsSite.links(), RetryDelays: []time.Duration{}}

		_, err := d.Discover(context.Background(), "https://docs.example.com")

		assert.ErrorContains(t, err, "fetch seed: connection refused")
	})

	t.Run("drops seed fragment", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{Fetcher: docsSite.fetcher(nil), Links: docsSite.links(), RetryDelays: []time.Duration{}}

		g, err := d.Discover(context.Background(), "https://docs.example.com#intro")

		require.NoError(t, err)
		assert.Equal(t, 3, g.Len())
		assert.Nil(t, g.Node("https://docs.example.com#intro"))
		assert.Equal(t, []string{"https://docs.example.com/a", "https://docs.example.com/b"},
			g.Successors("https://docs.example.com"))
	})

	t.Run("returns error when seed with fragment fails", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", webgraph.Errorf(webgraph.ENOTFOUND, "page not found")
			},
		}
		d := &crawl.Discoverer{Fetcher: fetcher, Links: docsSite.links(), RetryDelays: []time.Duration{}}

		g, err := d.Discover(context.Background(), "https://down.example.com#top")

		assert.Nil(t, g)
		assert.Equal(t, webgraph.ENOTFOUND, webgraph.ErrorCode(err))
	})

	t.Run("drops link fragments", func(t *testing.T) {
		t.Parallel()

		pages := site{
			"https://docs.example.com":   {"https://docs.example.com/a#usage", "https://docs.example.com#top"},
			"https://docs.example.com/a": {},
		}
		d := &crawl.Discoverer{Fetcher: pages.fetcher(nil), Links: pages.links(), RetryDelays: []time.Duration{}}

		g, err := d.Discover(context.Background(), "https://docs.example.com")

		require.NoError(t, err)
		assert.Equal(t, [][2]string{{"https://docs.example.com", "https://docs.example.com/a"}}, edgePairs(g))
	})

	t.Run("rejects invalid seed", func(t *testing.T) {
		t.Parallel()

		d := &crawl.Discoverer{Fetcher: docsSite.fetcher(nil), Links: docsSite.links()}

		_, err := d.Discover(context.Background(), "docs.example.com")

		assert.Equal(t, webgraph.EINVALID, webgraph.ErrorCode(err))
	})

	t.Run("waits on rate limiter", func(t *testing.T) {
		t.Parallel()

		var waited []string
		limiter := &mock.DomainLimiter{WaitFn: func(_ context.Context, domain string) error {
			waited = append(waited, domain)
			return nil
		}}
		d := &crawl.Discoverer{Fetcher: docsSite.fetcher(nil), Links: docsSite.links(), RateLimiter: limiter, Depth: 2, RetryDelays: []time.Duration{}}

		_, err := d.Discover(context.Background(), "https://docs.example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"docs.example.com", "docs.example.com", "docs.example.com"}, waited)
	})
}

func TestFromSitemap(t *testing.T) {
	t.Parallel()

	t.Run("builds star graph from root", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string, _ *webgraph.URLFilter) ([]string, error) {
				assert.Equal(t, "https://docs.example.com", baseURL)
				return []string{"https://docs.example.com", "https://docs.example.com/a", "https://docs.example.com/b", "https://docs.example.com/c"}, nil
			},
		}

		g, err := crawl.FromSitemap(context.Background(), sitemaps, "https://docs.example.com", nil, webgraph.FuncScrapeContent, 3)

		require.NoError(t, err)
		assert.Equal(t, [][2]string{
			{"https://docs.example.com", "https://docs.example.com/a"},
			{"https://docs.example.com", "https://docs.example.com/b"},
		}, edgePairs(g))
		assert.Equal(t, webgraph.FuncScrapeContent, g.Edges()[0].Func)
	})

	t.Run("wraps sitemap errors", func(t *testing.T) {
		t.Parallel()

		sitemaps := &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, string, *webgraph.URLFilter) ([]string, error) {
				return nil, errors.New("boom")
			},
		}

		_, err := crawl.FromSitemap(context.Background(), sitemaps, "https://docs.example.com", nil, "", 0)

		assert.EqualError(t, err, "sitemap discovery: boom")
	})
}
