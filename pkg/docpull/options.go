package docpull

import (
	"time"

	"github.com/jmylchreest/docpull/internal/discovery"
	"github.com/jmylchreest/docpull/pkg/browser"
	"github.com/jmylchreest/docpull/pkg/fetcher"
	"github.com/jmylchreest/docpull/pkg/site"
	"github.com/jmylchreest/docpull/pkg/strategy"
)

// Config holds all Service configuration.
type Config struct {
	// Store supplies site descriptors. Nil uses the embedded defaults.
	Store site.Store
	// Registry supplies extraction strategies. Nil uses the builtins.
	Registry *strategy.Registry

	// Fetcher and Renderer override the default executors.
	Fetcher  fetcher.Fetcher
	Renderer browser.Renderer

	// Fetch settings for the default fetcher.
	UserAgent string
	Timeout   time.Duration

	// Browser settings for the default renderer.
	ChromePath  string
	Headful     bool
	NavTimeout  time.Duration
	WaitTimeout time.Duration

	// BatchSize is the number of pages fetched concurrently per crawl round.
	BatchSize int
	// DebugDir receives markup and screenshots of failed rendered pages.
	DebugDir string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:   fetcher.DefaultUserAgent,
		Timeout:     30 * time.Second,
		NavTimeout:  browser.DefaultNavTimeout,
		WaitTimeout: browser.DefaultWaitTimeout,
		BatchSize:   discovery.DefaultBatchSize,
	}
}

// Option configures a Service.
type Option func(*Config)

// WithStore sets the site descriptor store.
func WithStore(s site.Store) Option {
	return func(c *Config) {
		c.Store = s
	}
}

// WithSitesFile loads site descriptors from a JSON or YAML file.
func WithSitesFile(path string) Option {
	return func(c *Config) {
		c.Store = site.FileStore{Path: path}
	}
}

// WithRegistry sets the strategy registry.
func WithRegistry(r *strategy.Registry) Option {
	return func(c *Config) {
		c.Registry = r
	}
}

// WithFetcher sets a custom fetch executor.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithRenderer sets a custom render executor.
func WithRenderer(r browser.Renderer) Option {
	return func(c *Config) {
		c.Renderer = r
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithChromePath sets the browser executable.
func WithChromePath(path string) Option {
	return func(c *Config) {
		c.ChromePath = path
	}
}

// WithHeadful shows the browser window.
func WithHeadful(enabled bool) Option {
	return func(c *Config) {
		c.Headful = enabled
	}
}

// WithNavTimeout sets the navigation timeout.
func WithNavTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.NavTimeout = d
	}
}

// WithWaitTimeout sets the selector wait timeout.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.WaitTimeout = d
	}
}

// WithBatchSize sets the number of pages fetched concurrently per crawl round.
func WithBatchSize(n int) Option {
	return func(c *Config) {
		c.BatchSize = n
	}
}

// WithDebugDir enables debug captures of failed rendered pages.
func WithDebugDir(dir string) Option {
	return func(c *Config) {
		c.DebugDir = dir
	}
}
