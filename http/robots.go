package http

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/webgraph"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// Ensure RobotsFetcher implements webgraph.Fetcher at compile time.
var _ webgraph.Fetcher = (*RobotsFetcher)(nil)

// RobotsFetcher wraps a Fetcher and refuses URLs disallowed by the host's
// robots.txt. Rules are fetched once per host and cached. A missing or
// unreadable robots.txt allows everything.
type RobotsFetcher struct {
	// CrawlDelay, when set, is called once per host whose matching group
	// declares a Crawl-delay.
	CrawlDelay func(host string, delay time.Duration)

	next      webgraph.Fetcher
	client    *http.Client
	userAgent string

	group singleflight.Group
	mu    sync.Mutex
	rules map[string]*robotstxt.Group
}

// NewRobotsFetcher wraps next. Rules are matched against userAgent and
// fetched with client, or a client with DefaultFetchTimeout when nil.
func NewRobotsFetcher(next webgraph.Fetcher, client *http.Client, userAgent string) *RobotsFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &RobotsFetcher{
		next:      next,
		client:    client,
		userAgent: userAgent,
		rules:     make(map[string]*robotstxt.Group),
	}
}

// Fetch returns EFORBIDDEN if robots.txt disallows rawURL and delegates
// to the wrapped Fetcher otherwise.
func (f *RobotsFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	allowed, err := f.Allowed(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", webgraph.Errorf(webgraph.EFORBIDDEN, "%s disallowed by robots.txt", rawURL)
	}
	return f.next.Fetch(ctx, rawURL)
}

// Close closes the wrapped Fetcher.
func (f *RobotsFetcher) Close() error {
	return f.next.Close()
}

// Allowed reports whether robots.txt permits fetching rawURL.
func (f *RobotsFetcher) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false, webgraph.Errorf(webgraph.EINVALID, "invalid URL %q", rawURL)
	}

	group, err := f.rulesFor(ctx, u)
	if err != nil {
		return false, err
	}
	if group == nil {
		return true, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return group.Test(path), nil
}

// rulesFor returns the cached rule group for u's host, fetching robots.txt
// on first use. A nil group allows everything.
func (f *RobotsFetcher) rulesFor(ctx context.Context, u *url.URL) (*robotstxt.Group, error) {
	key := u.Scheme + "://" + u.Host

	f.mu.Lock()
	group, ok := f.rules[key]
	f.mu.Unlock()
	if ok {
		return group, nil
	}

	v, err, _ := f.group.Do(key, func() (any, error) {
		f.mu.Lock()
		group, ok := f.rules[key]
		f.mu.Unlock()
		if ok {
			return group, nil
		}

		group = f.fetchRules(ctx, key+"/robots.txt")
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if group != nil && group.CrawlDelay > 0 && f.CrawlDelay != nil {
			f.CrawlDelay(u.Host, group.CrawlDelay)
		}
		f.mu.Lock()
		f.rules[key] = group
		f.mu.Unlock()
		return group, nil
	})
	if err != nil {
		return nil, err
	}
	group, _ = v.(*robotstxt.Group)
	return group, nil
}

func (f *RobotsFetcher) fetchRules(ctx context.Context, robotsURL string) *robotstxt.Group {
	resp, err := get(ctx, f.client, robotsURL, f.userAgent)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil
	}
	return data.FindGroup(f.userAgent)
}
