// Package discovery finds every documentation URL reachable from a site's
// seed pages.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/docpull/internal/crawler"
	"github.com/jmylchreest/docpull/internal/logger"
	"github.com/jmylchreest/docpull/pkg/browser"
	"github.com/jmylchreest/docpull/pkg/fetcher"
	"github.com/jmylchreest/docpull/pkg/site"
	"github.com/jmylchreest/docpull/pkg/strategy"
)

// DefaultBatchSize is the number of pages fetched concurrently per round.
const DefaultBatchSize = 10

// Config holds engine configuration.
type Config struct {
	BatchSize    int
	FetchOptions fetcher.Options
	NavTimeout   time.Duration
	WaitTimeout  time.Duration
}

// DefaultConfig returns sensible engine defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:   DefaultBatchSize,
		NavTimeout:  browser.DefaultNavTimeout,
		WaitTimeout: browser.DefaultWaitTimeout,
	}
}

// Engine runs depth-bounded breadth-first link discovery. Each Discover
// call owns its frontier; an Engine may serve concurrent calls.
type Engine struct {
	fetcher  fetcher.Fetcher
	renderer browser.Renderer
	config   Config
}

// New creates an Engine. Either executor may be nil when no site uses the
// corresponding mode.
func New(f fetcher.Fetcher, r browser.Renderer, cfg Config) *Engine {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Engine{fetcher: f, renderer: r, config: cfg}
}

// visitFunc returns the links found on one page.
type visitFunc func(ctx context.Context, url string) ([]string, error)

// extractError marks a strategy failure, which aborts discovery. Any other
// visit error only drops the page.
type extractError struct {
	err error
}

func (e *extractError) Error() string { return e.err.Error() }
func (e *extractError) Unwrap() error { return e.err }

// Discover returns the sorted set of links reachable from cfg's seeds.
//
// In fetch mode, and in render mode with links.follow, it crawls
// breadth-first: pages at depth below maxDepth have their links enqueued,
// pages at exactly maxDepth are visited and their links reported but not
// followed. Render mode without follow harvests the first seed page only.
// A page that fails to load is logged and skipped; a strategy error aborts
// the call.
func (e *Engine) Discover(ctx context.Context, cfg site.Config, strat strategy.Strategy) ([]string, error) {
	if cfg.Links == nil {
		return nil, site.ErrMissingLinks
	}
	log := logger.With("site", cfg.ID, "mode", cfg.Mode, "extractor", strat.Name())
	params := strategy.LinkParamsFor(cfg)

	var (
		links []string
		err   error
	)
	switch {
	case cfg.Mode == site.ModeFetch:
		if e.fetcher == nil {
			return nil, errors.New("no fetcher configured")
		}
		log.Debug("crawling", "seeds", len(cfg.Links.StartURLs), "max_depth", cfg.Links.MaxDepth, "batch", e.config.BatchSize)
		links, err = e.crawl(ctx, cfg, e.fetchVisit(strat, params), e.config.BatchSize)
	case cfg.Links.Follow:
		if e.renderer == nil {
			return nil, errors.New("no renderer configured")
		}
		log.Debug("crawling rendered pages", "seeds", len(cfg.Links.StartURLs), "max_depth", cfg.Links.MaxDepth)
		links, err = e.crawl(ctx, cfg, e.renderVisit(strat, params), 1)
	default:
		if e.renderer == nil {
			return nil, errors.New("no renderer configured")
		}
		links, err = e.harvest(ctx, cfg, strat, params)
	}
	if err != nil {
		return nil, err
	}

	log.Info("links discovered", "count", len(links))
	return links, nil
}

// crawl drives the frontier. Each round pops up to batchSize entries,
// visits them concurrently and folds the results back in sequentially.
func (e *Engine) crawl(ctx context.Context, cfg site.Config, visit visitFunc, batchSize int) ([]string, error) {
	maxDepth := cfg.Links.MaxDepth
	frontier := crawler.NewFrontier(cfg.Seeds()...)
	found := make(map[string]bool)

	for frontier.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch := frontier.PopBatch(batchSize, maxDepth)
		if len(batch) == 0 {
			continue
		}

		results := make([][]string, len(batch))
		errs := make([]error, len(batch))
		// Siblings are independent: one failure never cancels the others.
		var g errgroup.Group
		g.SetLimit(batchSize)
		for i, entry := range batch {
			g.Go(func() error {
				results[i], errs[i] = visit(ctx, entry.URL)
				return nil
			})
		}
		_ = g.Wait()

		for i, entry := range batch {
			if err := errs[i]; err != nil {
				var xe *extractError
				if errors.As(err, &xe) {
					return nil, fmt.Errorf("extract links from %s: %w", entry.URL, xe.err)
				}
				logger.Info("fetch failed", "url", entry.URL, "depth", entry.Depth, "error", err)
				continue
			}
			for _, link := range results[i] {
				found[link] = true
				if entry.Depth < maxDepth && !frontier.Visited(link) {
					frontier.Push(link, entry.Depth+1)
				}
			}
		}
		logger.Debug("batch complete", "pages", len(batch), "found", len(found), "queued", frontier.Len())
	}

	return sortedKeys(found), nil
}

func (e *Engine) fetchVisit(strat strategy.Strategy, params strategy.LinkParams) visitFunc {
	return func(ctx context.Context, url string) ([]string, error) {
		content, err := e.fetcher.Fetch(ctx, url, e.config.FetchOptions)
		if err != nil {
			return nil, err
		}
		links, err := strat.ExtractLinks(ctx, strategy.Markup{URL: content.URL, HTML: content.HTML}, params)
		if err != nil {
			return nil, &extractError{err: err}
		}
		return links, nil
	}
}

func (e *Engine) openOptions(waitFor string) browser.OpenOptions {
	return browser.OpenOptions{
		WaitFor:     waitFor,
		NavTimeout:  e.config.NavTimeout,
		WaitTimeout: e.config.WaitTimeout,
	}
}

func (e *Engine) renderVisit(strat strategy.Strategy, params strategy.LinkParams) visitFunc {
	return func(ctx context.Context, url string) ([]string, error) {
		var links []string
		err := browser.Visit(ctx, e.renderer, url, e.openOptions(params.WaitFor), func(p browser.Page) error {
			if err := strat.Setup(ctx, p); err != nil {
				return &extractError{err: fmt.Errorf("setup: %w", err)}
			}
			var err error
			links, err = strat.ExtractLinks(ctx, strategy.Rendered{Page: p}, params)
			if err != nil {
				return &extractError{err: err}
			}
			return nil
		})
		return links, err
	}
}

// harvest visits the first seed in one browser session.
func (e *Engine) harvest(ctx context.Context, cfg site.Config, strat strategy.Strategy, params strategy.LinkParams) ([]string, error) {
	seed := cfg.BaseURL
	if seeds := cfg.Seeds(); len(seeds) > 0 {
		seed = seeds[0]
	}
	logger.Debug("harvesting", "site", cfg.ID, "url", seed)

	var links []string
	err := browser.Visit(ctx, e.renderer, seed, e.openOptions(params.WaitFor), func(p browser.Page) error {
		if err := strat.Setup(ctx, p); err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		var err error
		links, err = strat.ExtractLinks(ctx, strategy.Rendered{Page: p}, params)
		return err
	})
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(links))
	for _, l := range links {
		found[l] = true
	}
	return sortedKeys(found), nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
