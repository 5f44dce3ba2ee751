package rod

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/fwojciec/webgraph"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the number of pages a browser renders before it is
// replaced.
const DefaultMaxPages = 75

// instance is one launched browser process.
type instance interface {
	Browser() *rod.Browser
	PID() int
	Close() error
}

type chrome struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (c *chrome) Browser() *rod.Browser { return c.browser }
func (c *chrome) PID() int              { return c.launcher.PID() }

func (c *chrome) Close() error {
	err := c.browser.Close()
	c.launcher.Kill()
	return err
}

// launchChrome starts headless Chrome with flags that keep background
// tabs from being throttled during long runs.
func launchChrome() (instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &chrome{browser: browser, launcher: l}, nil
}

// generation tracks the pages served by one browser instance.
type generation struct {
	inst    instance
	served  int64
	active  int
	retired bool
}

// Lease is a browser checked out for rendering one page. Return it with
// BrowserManager.Release.
type Lease struct {
	gen      *generation
	released bool
}

// Browser returns the leased browser.
func (l *Lease) Browser() *rod.Browser {
	return l.gen.inst.Browser()
}

// BrowserManager owns the headless browsers behind a Fetcher. Chrome memory
// grows under load and never returns to baseline, so after a fixed number
// of pages a fresh browser is launched for new leases. The old browser is
// closed once its last open page is released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	launch   func() (instance, error)
	maxPages int64
	current  *generation
	retired  []*generation
	closed   bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages rendered before the browser is
// replaced. Non-positive values use DefaultMaxPages.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// NewBrowserManager launches headless Chrome. Close must be called when the
// BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	return newBrowserManager(launchChrome, opts...)
}

func newBrowserManager(launch func() (instance, error), opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{launch: launch, maxPages: DefaultMaxPages}
	for _, opt := range opts {
		opt(bm)
	}
	if bm.maxPages <= 0 {
		bm.maxPages = DefaultMaxPages
	}

	inst, err := launch()
	if err != nil {
		return nil, err
	}
	bm.current = &generation{inst: inst}
	return bm, nil
}

// Acquire leases the current browser for one page. When the current
// browser has served maxPages pages a replacement is launched first; if
// the launch fails the old browser keeps serving.
func (bm *BrowserManager) Acquire() (*Lease, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, webgraph.Errorf(webgraph.EINVALID, "browser closed")
	}

	if bm.current.served >= bm.maxPages {
		if inst, err := bm.launch(); err == nil {
			bm.retire(bm.current)
			bm.current = &generation{inst: inst}
		}
	}

	g := bm.current
	g.served++
	g.active++
	return &Lease{gen: g}, nil
}

// retire closes g now if it has no open pages, or when the last one is
// released. Must be called with mu held.
func (bm *BrowserManager) retire(g *generation) {
	g.retired = true
	if g.active == 0 {
		_ = g.inst.Close()
		return
	}
	bm.retired = append(bm.retired, g)
}

// Release returns a lease. Releasing a lease twice has no effect.
func (bm *BrowserManager) Release(l *Lease) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if l.released {
		return
	}
	l.released = true

	g := l.gen
	g.active--
	if g.retired && g.active == 0 && !bm.closed {
		_ = g.inst.Close()
		bm.retired = slices.DeleteFunc(bm.retired, func(r *generation) bool { return r == g })
	}
}

// Close closes every browser, including those with pages still open.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	errs := []error{bm.current.inst.Close()}
	for _, g := range bm.retired {
		errs = append(errs, g.inst.Close())
	}
	bm.retired = nil
	return errors.Join(errs...)
}

// LauncherPID returns the process ID of the current browser, or 0 once
// closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.closed {
		return 0
	}
	return bm.current.inst.PID()
}
