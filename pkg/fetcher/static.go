package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/jmylchreest/docpull/internal/logger"
)

// StaticConfig holds configuration for the static fetcher.
type StaticConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// DefaultStaticConfig returns sensible defaults.
func DefaultStaticConfig() StaticConfig {
	return StaticConfig{
		UserAgent: DefaultUserAgent,
		Timeout:   30 * time.Second,
	}
}

// DefaultUserAgent is a desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// StaticFetcher performs plain HTTP GETs with Colly. Redirects are followed
// and any non-2xx final status is returned as a *StatusError.
type StaticFetcher struct {
	config StaticConfig
}

// NewStatic creates a new static fetcher.
func NewStatic(cfg StaticConfig) *StaticFetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultStaticConfig().Timeout
	}
	return &StaticFetcher{config: cfg}
}

// Fetch retrieves the markup at targetURL.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	// A fresh collector per request keeps fetches independent.
	c := colly.NewCollector(
		colly.UserAgent(coalesce(opts.UserAgent, f.config.UserAgent)),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = f.config.Timeout
	}
	c.SetRequestTimeout(timeout)

	if len(opts.Headers) > 0 {
		c.OnRequest(func(r *colly.Request) {
			for k, v := range opts.Headers {
				r.Headers.Set(k, v)
			}
		})
	}

	c.OnResponse(func(r *colly.Response) {
		result.URL = r.Request.URL.String()
		result.StatusCode = r.StatusCode
		result.ContentType = r.Headers.Get("Content-Type")
		result.HTML = string(r.Body)
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 && (r.StatusCode < 200 || r.StatusCode > 299) {
			result.StatusCode = r.StatusCode
			fetchErr = &StatusError{URL: targetURL, StatusCode: r.StatusCode}
			return
		}
		fetchErr = fmt.Errorf("fetch %s: %w", targetURL, err)
	})

	logger.Debug("fetching", "url", targetURL, "timeout", timeout)
	visitErr := c.Visit(targetURL)
	if fetchErr != nil {
		return result, fetchErr
	}
	if visitErr != nil {
		return result, fmt.Errorf("fetch %s: %w", targetURL, visitErr)
	}

	logger.Debug("fetched", "url", result.URL, "status", result.StatusCode, "bytes", len(result.HTML))
	return result, nil
}

// Close releases resources.
func (f *StaticFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *StaticFetcher) Type() string {
	return "static"
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
