package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/bloom"
)

// Compile-time interface verification.
var _ webgraph.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory discovery queue ordered by depth, with Bloom
// filter deduplication. Links of equal depth pop in push order, which
// makes discovery breadth-first.
//
// Frontier is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *linkHeap
	seq   int
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds a link to the frontier with its fragment stripped.
// Returns false if the URL has already been seen.
func (f *Frontier) Push(link webgraph.Link) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	link.URL = stripFragment(link.URL)
	if f.seen.TestAndAdd(link.URL) {
		return false
	}

	heap.Push(f.queue, queuedLink{Link: link, seq: f.seq})
	f.seq++
	return true
}

// Pop returns the shallowest link.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (webgraph.Link, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return webgraph.Link{}, false
	}
	q, _ := heap.Pop(f.queue).(queuedLink)
	return q.Link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been queued, ignoring its fragment.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

func stripFragment(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		return rawURL[:idx]
	}
	return rawURL
}

type queuedLink struct {
	webgraph.Link
	seq int
}

// linkHeap is a min-heap on (Depth, seq).
type linkHeap []queuedLink

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	if h[i].Depth != h[j].Depth {
		return h[i].Depth < h[j].Depth
	}
	return h[i].seq < h[j].seq
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	q, _ := x.(queuedLink)
	*h = append(*h, q)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
