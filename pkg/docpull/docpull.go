// Package docpull provides the public API for discovering and extracting
// documentation pages.
//
// Operational failures never surface as Go errors. DiscoverLinks and
// ExtractContent fold them into a Result with Success=false so callers can
// render every outcome the same way.
package docpull

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jmylchreest/docpull/internal/discovery"
	"github.com/jmylchreest/docpull/internal/dispatch"
	"github.com/jmylchreest/docpull/internal/logger"
	"github.com/jmylchreest/docpull/pkg/browser"
	"github.com/jmylchreest/docpull/pkg/fetcher"
	"github.com/jmylchreest/docpull/pkg/site"
	"github.com/jmylchreest/docpull/pkg/strategy"
)

// Operation tags a Result.
type Operation string

const (
	OperationLinks   Operation = "links"
	OperationContent Operation = "content"
)

// Result is the envelope returned by DiscoverLinks and ExtractContent.
// Either Success is true and Data is complete, or Success is false, Error
// explains why and Data is empty.
type Result struct {
	Site      string    `json:"site" yaml:"site"`
	Operation Operation `json:"operation" yaml:"operation"`
	Success   bool      `json:"success" yaml:"success"`
	Data      []string  `json:"data" yaml:"data"`
	Error     string    `json:"error" yaml:"error,omitempty"`
}

// MarshalJSON renders Data as [] rather than null and an empty Error as null.
// Markup in Data is left unescaped.
func (r Result) MarshalJSON() ([]byte, error) {
	data := r.Data
	if data == nil {
		data = []string{}
	}
	var errMsg *string
	if r.Error != "" {
		errMsg = &r.Error
	}
	v := struct {
		Site      string    `json:"site"`
		Operation Operation `json:"operation"`
		Success   bool      `json:"success"`
		Data      []string  `json:"data"`
		Error     *string   `json:"error"`
	}{r.Site, r.Operation, r.Success, data, errMsg}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func succeeded(id string, op Operation, data []string) Result {
	if data == nil {
		data = []string{}
	}
	return Result{Site: id, Operation: op, Success: true, Data: data}
}

func failed(id string, op Operation, err error) Result {
	return Result{Site: id, Operation: op, Success: false, Data: []string{}, Error: err.Error()}
}

// Service resolves sites and runs discovery and extraction against them.
// It is safe for concurrent use.
type Service struct {
	resolver   *site.Resolver
	registry   *strategy.Registry
	fetcher    fetcher.Fetcher
	engine     *discovery.Engine
	dispatcher *dispatch.Dispatcher
}

// New creates a Service.
func New(opts ...Option) *Service {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	registry := cfg.Registry
	if registry == nil {
		registry = strategy.BuiltinRegistry()
	}

	f := cfg.Fetcher
	if f == nil {
		f = fetcher.NewStatic(fetcher.StaticConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		})
	}

	r := cfg.Renderer
	if r == nil {
		r = browser.NewChrome(browser.ChromeConfig{
			ExecPath:    cfg.ChromePath,
			UserAgent:   cfg.UserAgent,
			Headful:     cfg.Headful,
			NavTimeout:  cfg.NavTimeout,
			WaitTimeout: cfg.WaitTimeout,
		})
	}

	fetchOpts := fetcher.Options{UserAgent: cfg.UserAgent, Timeout: cfg.Timeout}

	return &Service{
		resolver: site.NewResolver(cfg.Store),
		registry: registry,
		fetcher:  f,
		engine: discovery.New(f, r, discovery.Config{
			BatchSize:    cfg.BatchSize,
			FetchOptions: fetchOpts,
			NavTimeout:   cfg.NavTimeout,
			WaitTimeout:  cfg.WaitTimeout,
		}),
		dispatcher: dispatch.New(f, r, dispatch.Config{
			FetchOptions: fetchOpts,
			NavTimeout:   cfg.NavTimeout,
			WaitTimeout:  cfg.WaitTimeout,
			DebugDir:     cfg.DebugDir,
		}),
	}
}

// Close releases the fetch executor.
func (s *Service) Close() error {
	return s.fetcher.Close()
}

// ListSites returns the sorted identifiers of every configured site.
func (s *Service) ListSites() []string {
	return s.resolver.IDs()
}

// DescribeSite returns the descriptor registered as id. An unknown id fails
// with an error wrapping site.ErrConfigNotFound.
func (s *Service) DescribeSite(id string) (site.Config, error) {
	return s.resolver.Resolve(id)
}

// DiscoverLinks returns every documentation link reachable from the site's
// seed pages.
func (s *Service) DiscoverLinks(ctx context.Context, id string) Result {
	cfg, strat, err := s.lookup(id)
	if err != nil {
		return failed(id, OperationLinks, err)
	}
	if cfg.Links == nil {
		return failed(id, OperationLinks, fmt.Errorf("%s: %w", id, site.ErrMissingLinks))
	}

	links, err := s.engine.Discover(ctx, cfg, strat)
	if err != nil {
		logger.Error("link discovery failed", "site", id, "error", err)
		return failed(id, OperationLinks, err)
	}
	return succeeded(id, OperationLinks, links)
}

// ExtractContent returns the content of the page at the site's base URL
// followed by path.
func (s *Service) ExtractContent(ctx context.Context, id, path string) Result {
	cfg, strat, err := s.lookup(id)
	if err != nil {
		return failed(id, OperationContent, err)
	}
	if cfg.Content == nil {
		return failed(id, OperationContent, fmt.Errorf("%s: %w", id, site.ErrMissingContent))
	}

	content, err := s.dispatcher.Extract(ctx, cfg, strat, path)
	if err != nil {
		logger.Error("content extraction failed", "site", id, "path", path, "error", err)
		return failed(id, OperationContent, err)
	}
	return succeeded(id, OperationContent, content)
}

func (s *Service) lookup(id string) (site.Config, strategy.Strategy, error) {
	cfg, err := s.resolver.Resolve(id)
	if err != nil {
		var nf *site.NotFoundError
		if !errors.As(err, &nf) {
			logger.Warn("site descriptors unavailable", "error", err)
		}
		return site.Config{}, nil, err
	}
	strat, err := s.registry.Lookup(cfg.Extractor)
	if err != nil {
		return site.Config{}, nil, err
	}
	return cfg, strat, nil
}

// PathForLink converts a discovered link into the path ExtractContent
// expects for a site rooted at baseURL. Links outside baseURL fall back to
// their URL path.
func PathForLink(link, baseURL string) string {
	if suffix, ok := strings.CutPrefix(link, baseURL); ok {
		if suffix != "" && !strings.HasPrefix(suffix, "/") {
			suffix = "/" + suffix
		}
		return suffix
	}
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Path
}
