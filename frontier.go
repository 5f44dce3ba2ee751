package webgraph

import "context"

// Link is a URL waiting to be visited during discovery.
type Link struct {
	URL    string
	Parent string // URL of the page the link was found on; empty for the seed
	Depth  int
}

// URLFrontier manages a discovery queue with deduplication.
type URLFrontier interface {
	// Push adds a link to the frontier.
	// Returns false if the URL has already been seen.
	Push(link Link) bool

	// Pop returns the next link, shallowest first.
	// Returns false if the frontier is empty.
	Pop() (Link, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
