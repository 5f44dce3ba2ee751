// Package crawl runs the work attached to the edges of a website graph and
// builds graphs by following links.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/webgraph"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultConcurrency is the number of edges processed at once when
// Runner.Concurrency is not set.
const DefaultConcurrency = 4

// Runner executes the edge function of every edge in a graph.
type Runner struct {
	// Funcs maps edge function names to implementations.
	// Defaults to DefaultFuncs().
	Funcs map[string]EdgeFunc

	Scraper     webgraph.Scraper
	Embedder    webgraph.Embedder
	RateLimiter webgraph.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration

	// MaxAge skips fetching nodes fetched within this duration.
	// Zero always fetches.
	MaxAge time.Duration

	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Result holds the outcome of a run.
type Result struct {
	// Edges holds one entry per graph edge, in graph order.
	Edges     []EdgeResult
	Completed int
	Failed    int
}

// EdgeResult is the outcome of running a single edge.
type EdgeResult struct {
	Edge      webgraph.Edge
	FromTitle string
	ToTitle   string
	Err       error
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Edge      *EdgeResult
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress.
// Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// Run executes the function of every edge in g, updating the nodes and
// edge weights of g in place. A failing edge is recorded in its
// EdgeResult and does not stop the others. Run returns an error only when
// g is nil or ctx is canceled; in the latter case the partial result is
// returned alongside ctx.Err().
func (r *Runner) Run(ctx context.Context, g *webgraph.Graph, progress ProgressFunc) (*Result, error) {
	if g == nil {
		return nil, webgraph.Errorf(webgraph.EINVALID, "graph required")
	}

	edges := g.Edges()
	total := len(edges)
	env := r.newEnv(g)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	result := &Result{Edges: make([]EdgeResult, total)}
	var mu sync.Mutex

	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for i, e := range edges {
		eg.Go(func() error {
			er := r.runEdge(ectx, env, *e)

			mu.Lock()
			defer mu.Unlock()
			result.Edges[i] = er
			typ := ProgressCompleted
			if er.Err != nil {
				result.Failed++
				typ = ProgressFailed
			} else {
				result.Completed++
			}
			if progress != nil {
				progress(ProgressEvent{
					Type:      typ,
					Completed: result.Completed + result.Failed,
					Total:     total,
					Edge:      &er,
				})
			}
			return nil
		})
	}
	_ = eg.Wait()

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (r *Runner) runEdge(ctx context.Context, env *Env, e webgraph.Edge) EdgeResult {
	funcs := r.Funcs
	if funcs == nil {
		funcs = DefaultFuncs()
	}

	var err error
	if fn, ok := funcs[e.Func]; !ok {
		err = webgraph.Errorf(webgraph.EINVALID, "unknown edge function %q", e.Func)
	} else {
		err = fn(ctx, env, e)
	}
	if err != nil {
		err = fmt.Errorf("%s -> %s: %w", e.From, e.To, err)
	}

	if updated := env.graph.Edge(e.From, e.To); updated != nil {
		e = *updated
	}
	er := EdgeResult{Edge: e, Err: err}
	if n := env.graph.Node(e.From); n != nil {
		er.FromTitle = n.DisplayTitle()
	}
	if n := env.graph.Node(e.To); n != nil {
		er.ToTitle = n.DisplayTitle()
	}
	return er
}

func (r *Runner) newEnv(g *webgraph.Graph) *Env {
	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	now := r.Now
	if now == nil {
		now = time.Now
	}
	env := &Env{
		graph:    g,
		scraper:  r.Scraper,
		embedder: r.Embedder,
		limiter:  r.RateLimiter,
		delays:   delays,
		maxAge:   r.MaxAge,
		now:      now,
		pages:    make(map[string]pageResult),
	}
	if r.Logger != nil {
		logger := r.Logger
		env.logf = func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		}
	}
	return env
}

type pageResult struct {
	page *webgraph.Page
	err  error
}

// Env is the run-scoped state shared by edge functions. Pages are fetched
// at most once per URL per run, successful or not.
type Env struct {
	graph    *webgraph.Graph
	scraper  webgraph.Scraper
	embedder webgraph.Embedder
	limiter  webgraph.DomainLimiter
	delays   []time.Duration
	maxAge   time.Duration
	now      func() time.Time
	logf     LogFunc

	group singleflight.Group
	mu    sync.Mutex
	pages map[string]pageResult
}

// Graph returns the graph being run.
func (e *Env) Graph() *webgraph.Graph { return e.graph }

// Now returns the run clock.
func (e *Env) Now() time.Time { return e.now() }

// Fresh reports whether the node was fetched within the run's MaxAge.
func (e *Env) Fresh(n *webgraph.Node) bool {
	return n != nil && n.Fresh(e.now(), e.maxAge)
}

// Scrape returns the page for url, scraping it with retries on first use.
func (e *Env) Scrape(ctx context.Context, url string) (*webgraph.Page, error) {
	if e.scraper == nil {
		return nil, webgraph.Errorf(webgraph.EINVALID, "scraper required")
	}
	v, err, _ := e.group.Do("page:"+url, func() (any, error) {
		e.mu.Lock()
		cached, ok := e.pages[url]
		e.mu.Unlock()
		if ok {
			return cached.page, cached.err
		}

		page, err := Retry(ctx, url, func(ctx context.Context, url string) (*webgraph.Page, error) {
			if err := waitURL(ctx, e.limiter, url); err != nil {
				return nil, err
			}
			return e.scraper.Scrape(ctx, url)
		}, e.logf, e.delays)

		// A canceled scrape is not cached so it never leaks into a later call.
		if ctx.Err() == nil {
			e.mu.Lock()
			e.pages[url] = pageResult{page: page, err: err}
			e.mu.Unlock()
		}
		return page, err
	})
	if err != nil {
		return nil, err
	}
	page, _ := v.(*webgraph.Page)
	return page, nil
}

// Embed returns the embedding of the node for url, computing and storing
// it when the node has none.
func (e *Env) Embed(ctx context.Context, url string) ([]float32, error) {
	if e.embedder == nil {
		return nil, webgraph.Errorf(webgraph.EINVALID, "embedder required")
	}
	v, err, _ := e.group.Do("embed:"+url, func() (any, error) {
		n := e.graph.Node(url)
		if n == nil {
			return nil, webgraph.Errorf(webgraph.ENOTFOUND, "node %q not found", url)
		}
		if len(n.Embedding) > 0 {
			return n.Embedding, nil
		}

		text := n.Content
		if text == "" {
			text = n.DisplayTitle()
		}
		vecs, err := e.embedder.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) != 1 {
			return nil, webgraph.Errorf(webgraph.EINTERNAL, "expected 1 embedding, got %d", len(vecs))
		}
		e.graph.UpdateNode(url, func(n *webgraph.Node) { n.Embedding = vecs[0] })
		return vecs[0], nil
	})
	if err != nil {
		return nil, err
	}
	vec, _ := v.([]float32)
	return vec, nil
}
