package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/webgraph"
	"golang.org/x/time/rate"
)

var _ webgraph.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter rate limits requests per host with one token bucket per
// host. Hosts compare case-insensitively. Requests to different hosts never
// wait on each other.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each host, with no bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter := d.limiter(domain)
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// SetCrawlDelay slows domain to one request per delay when that is slower
// than the configured rate. It never speeds a domain up.
func (d *DomainLimiter) SetCrawlDelay(domain string, delay time.Duration) {
	if delay <= 0 {
		return
	}
	limit := rate.Every(delay)

	d.mu.Lock()
	defer d.mu.Unlock()
	if l := d.limiter(domain); limit < l.Limit() {
		l.SetLimit(limit)
	}
}

// Limit returns the current requests per second allowed to domain.
func (d *DomainLimiter) Limit(domain string) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return float64(d.limiter(domain).Limit())
}

// limiter returns the token bucket for domain, creating it on first use.
// Must be called with mu held.
func (d *DomainLimiter) limiter(domain string) *rate.Limiter {
	domain = strings.ToLower(domain)
	l, ok := d.limiters[domain]
	if !ok {
		l = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[domain] = l
	}
	return l
}

// waitURL waits on limiter for the host of rawURL. A nil limiter never waits.
func waitURL(ctx context.Context, limiter webgraph.DomainLimiter, rawURL string) error {
	if limiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return webgraph.Errorf(webgraph.EINVALID, "invalid URL %q", rawURL)
	}
	return limiter.Wait(ctx, u.Host)
}
