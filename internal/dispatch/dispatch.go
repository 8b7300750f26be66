// Package dispatch extracts content from a single documentation page.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/docpull/internal/logger"
	"github.com/jmylchreest/docpull/pkg/browser"
	"github.com/jmylchreest/docpull/pkg/fetcher"
	"github.com/jmylchreest/docpull/pkg/site"
	"github.com/jmylchreest/docpull/pkg/strategy"
)

// Config holds dispatcher configuration.
type Config struct {
	FetchOptions fetcher.Options
	NavTimeout   time.Duration
	WaitTimeout  time.Duration
	// DebugDir, when set, receives markup and a screenshot of every
	// rendered page whose extraction failed.
	DebugDir string
}

// DefaultConfig returns sensible dispatcher defaults.
func DefaultConfig() Config {
	return Config{
		NavTimeout:  browser.DefaultNavTimeout,
		WaitTimeout: browser.DefaultWaitTimeout,
	}
}

// Dispatcher routes a content request to the fetch or render executor
// according to the site's effective content mode.
type Dispatcher struct {
	fetcher  fetcher.Fetcher
	renderer browser.Renderer
	config   Config
}

// New creates a Dispatcher. Either executor may be nil when no site uses
// the corresponding mode.
func New(f fetcher.Fetcher, r browser.Renderer, cfg Config) *Dispatcher {
	return &Dispatcher{fetcher: f, renderer: r, config: cfg}
}

// Extract returns the content strings of cfg.BaseURL+path. The path is
// appended to the base URL verbatim.
func (d *Dispatcher) Extract(ctx context.Context, cfg site.Config, strat strategy.Strategy, path string) ([]string, error) {
	if cfg.Content == nil {
		return nil, site.ErrMissingContent
	}
	url := cfg.URL(path)
	params := strategy.ContentParamsFor(cfg)
	mode := cfg.EffectiveContentMode()
	log := logger.With("site", cfg.ID, "url", url, "mode", mode, "method", params.Method)

	var (
		content []string
		err     error
	)
	switch mode {
	case site.ModeFetch:
		content, err = d.fetch(ctx, url, strat, params)
	case site.ModeRender:
		content, err = d.render(ctx, cfg, url, path, strat, params)
	default:
		err = fmt.Errorf("unsupported mode: %s", mode)
	}
	if err != nil {
		return nil, err
	}

	log.Debug("content extracted", "items", len(content))
	return content, nil
}

func (d *Dispatcher) fetch(ctx context.Context, url string, strat strategy.Strategy, params strategy.ContentParams) ([]string, error) {
	if d.fetcher == nil {
		return nil, errors.New("no fetcher configured")
	}
	page, err := d.fetcher.Fetch(ctx, url, d.config.FetchOptions)
	if err != nil {
		return nil, err
	}
	return strat.ExtractContent(ctx, strategy.Markup{URL: page.URL, HTML: page.HTML}, params)
}

func (d *Dispatcher) render(ctx context.Context, cfg site.Config, url, path string, strat strategy.Strategy, params strategy.ContentParams) ([]string, error) {
	if d.renderer == nil {
		return nil, errors.New("no renderer configured")
	}
	opts := browser.OpenOptions{
		WaitFor:     params.WaitFor,
		NavTimeout:  d.config.NavTimeout,
		WaitTimeout: d.config.WaitTimeout,
	}
	if params.Method == site.MethodCopyAction {
		opts.Permissions = browser.ClipboardPermissions()
	}

	var content []string
	err := browser.Visit(ctx, d.renderer, url, opts, func(p browser.Page) error {
		err := strat.Setup(ctx, p)
		if err != nil {
			err = fmt.Errorf("setup: %w", err)
		} else {
			content, err = strat.ExtractContent(ctx, strategy.Rendered{Page: p}, params)
		}
		if err != nil {
			browser.Capture(ctx, p, d.config.DebugDir, cfg.ID+path)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return content, nil
}
