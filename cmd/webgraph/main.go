package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/webgraph"
	"github.com/fwojciec/webgraph/crawl"
	"github.com/fwojciec/webgraph/fs"
	"github.com/fwojciec/webgraph/gemini"
	"github.com/fwojciec/webgraph/goquery"
	"github.com/fwojciec/webgraph/htmltomarkdown"
	lochttp "github.com/fwojciec/webgraph/http"
	"github.com/fwojciec/webgraph/readability"
	"github.com/fwojciec/webgraph/rod"
	"github.com/fwojciec/webgraph/scrape"
	wgslog "github.com/fwojciec/webgraph/slog"
	"github.com/fwojciec/webgraph/sqlite"
	"github.com/fwojciec/webgraph/trafilatura"
	"github.com/fwojciec/webgraph/xxhash"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	m := NewMain()
	m.Config = cfg

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config is read from the environment. Set before calling Run().
	Config Config

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher replaces the network fetcher when set.
	Fetcher webgraph.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Config: Config{
			UserAgent: lochttp.DefaultUserAgent,
			Rate:      1,
			Timeout:   lochttp.DefaultFetchTimeout,
		},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments. Errors are reported on
// stderr before being returned.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("webgraph"),
		kong.Description("Build graphs of websites and run functions along their edges."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return deps.fail(fmt.Errorf("failed to create parser: %w", err))
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return deps.fail(webgraph.Errorf(webgraph.EINVALID, "no command specified. Run 'webgraph --help' to see available commands"))
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return deps.fail(err)
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = slog.New(slog.DiscardHandler)
	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	dbPath := m.Config.DB
	if cli.DB != "" {
		dbPath = cli.DB
	}
	if dbPath == "" {
		dbPath = defaultDBPath()
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(stderr, "Hint: Set WEBGRAPH_DB or --db to use a different database path")
		return deps.fail(fmt.Errorf("failed to open database at %q: %w", dbPath, err))
	}
	defer m.Close()

	deps.Projects = sqlite.NewProjectService(m.DB)
	deps.Nodes = sqlite.NewNodeService(m.DB)
	deps.Edges = sqlite.NewEdgeService(m.DB)
	deps.Graphs = sqlite.NewGraphService(m.DB)
	deps.Sitemaps = wgslog.NewLoggingSitemapService(
		lochttp.NewSitemapService(m.httpClient(), m.Config.UserAgent), deps.Logger)
	deps.NewExporter = func(dir string, force bool) Exporter {
		dir = filepath.Clean(dir)
		w := fs.NewWriter(filepath.Dir(dir), filepath.Base(dir))
		w.Force = force
		return w
	}

	switch cmd {
	case "discover":
		if err := m.checkRate(); err != nil {
			return deps.fail(err)
		}
		limiter := crawl.NewDomainLimiter(m.Config.Rate)
		fetcher, err := m.newFetcher(false, limiter, deps.Logger)
		if err != nil {
			return deps.fail(err)
		}
		defer fetcher.Close()

		deps.Discoverer = &crawl.Discoverer{
			Fetcher:     fetcher,
			Links:       goquery.NewLinkExtractor(goquery.DefaultLinkSelector),
			RateLimiter: limiter,
			Logger:      deps.Logger,
		}

	case "run":
		if err := m.checkRate(); err != nil {
			return deps.fail(err)
		}
		limiter := crawl.NewDomainLimiter(m.Config.Rate)
		fetcher, err := m.newFetcher(cli.Run.Render, limiter, deps.Logger)
		if err != nil {
			if cli.Run.Render {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			}
			return deps.fail(err)
		}
		defer fetcher.Close()

		embedder, err := m.newEmbedder(ctx, deps.Logger)
		if err != nil {
			return deps.fail(err)
		}

		deps.Runner = &crawl.Runner{
			Scraper: &scrape.Scraper{
				Fetcher:   fetcher,
				Extractor: newExtractor(cli.Run.Extract),
				Converter: newConverter(cli.Run.Markdown),
			},
			Embedder:    embedder,
			RateLimiter: limiter,
			Logger:      deps.Logger,
		}

	case "query":
		embedder, err := m.newEmbedder(ctx, deps.Logger)
		if err != nil {
			return deps.fail(err)
		}
		deps.Embedder = embedder

	case "ask":
		if m.Config.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "Hint: Get an API key at https://aistudio.google.com/apikey")
			return deps.fail(webgraph.Errorf(webgraph.EUNAUTHORIZED, "GEMINI_API_KEY not set"))
		}
		client, err := m.genaiClient(ctx)
		if err != nil {
			return deps.fail(err)
		}
		counter, err := gemini.NewTokenCounter(gemini.DefaultModel)
		if err != nil {
			return deps.fail(fmt.Errorf("failed to create token counter: %w", err))
		}
		deps.Asker = wgslog.NewLoggingAsker(
			gemini.NewAsker(client, deps.Nodes, deps.Edges, counter), deps.Logger)
	}

	return kongCtx.Run(deps)
}

func (m *Main) httpClient() *http.Client {
	return &http.Client{Timeout: m.Config.Timeout}
}

func (m *Main) checkRate() error {
	if m.Config.Rate <= 0 {
		return webgraph.Errorf(webgraph.EINVALID, "WEBGRAPH_RATE must be positive, got %g", m.Config.Rate)
	}
	return nil
}

// newFetcher returns the fetcher used for scraping and discovery. Network
// fetchers honor robots.txt, including Crawl-delay through limiter.
func (m *Main) newFetcher(render bool, limiter *crawl.DomainLimiter, logger *slog.Logger) (webgraph.Fetcher, error) {
	var f webgraph.Fetcher
	switch {
	case m.Fetcher != nil:
		f = m.Fetcher
	case render:
		rf, err := rod.NewFetcher(
			rod.WithFetchTimeout(m.Config.Timeout),
			rod.WithUserAgent(m.Config.UserAgent),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		f = m.robots(rf, limiter)
	default:
		hf := lochttp.NewFetcher(
			lochttp.WithTimeout(m.Config.Timeout),
			lochttp.WithUserAgent(m.Config.UserAgent),
		)
		f = m.robots(hf, limiter)
	}
	return wgslog.NewLoggingFetcher(f, logger), nil
}

func (m *Main) robots(next webgraph.Fetcher, limiter *crawl.DomainLimiter) *lochttp.RobotsFetcher {
	rf := lochttp.NewRobotsFetcher(next, m.httpClient(), m.Config.UserAgent)
	rf.CrawlDelay = limiter.SetCrawlDelay
	return rf
}

// newEmbedder returns Gemini embeddings when an API key is configured and
// the offline hashing embedder otherwise. Runs and queries against one
// project must use the same embedder for scores to be meaningful.
func (m *Main) newEmbedder(ctx context.Context, logger *slog.Logger) (webgraph.Embedder, error) {
	var e webgraph.Embedder = xxhash.NewEmbedder(xxhash.DefaultDimensions)
	if m.Config.GeminiAPIKey != "" {
		client, err := m.genaiClient(ctx)
		if err != nil {
			return nil, err
		}
		e = gemini.NewEmbedder(client)
	}
	return wgslog.NewLoggingEmbedder(e, logger), nil
}

func (m *Main) genaiClient(ctx context.Context) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  m.Config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

func newExtractor(name string) webgraph.Extractor {
	switch name {
	case "trafilatura":
		return trafilatura.NewExtractor()
	case "readability":
		return readability.NewExtractor()
	default:
		return goquery.NewExtractor()
	}
}

func newConverter(markdown bool) webgraph.Converter {
	if markdown {
		return htmltomarkdown.NewConverter()
	}
	return goquery.NewTextConverter()
}
