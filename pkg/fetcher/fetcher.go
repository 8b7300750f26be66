// Package fetcher retrieves raw page markup over stateless HTTP.
// Implement the Fetcher interface to plug in custom transports, for example
// to add authentication or serve canned pages in tests.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Fetcher abstracts page retrieval.
type Fetcher interface {
	// Fetch performs a single GET and returns the page markup.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any held resources.
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static").
	Type() string
}

// Options controls a single fetch.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
}

// Content holds a fetched page.
type Content struct {
	// URL is the final URL after redirects.
	URL         string
	HTML        string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// ErrHTTPStatus is matched by every *StatusError.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrHTTPStatus }
