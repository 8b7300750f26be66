// Package browser drives live, script-enabled page visits.
//
// A Renderer opens exactly one Page per call. Each Page owns its own browser
// process, isolated context and tab, and releases all three on Close. Pages
// are never pooled; use Visit to guarantee Close on every exit path.
package browser

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmylchreest/docpull/internal/logger"
)

// Default wait bounds applied when OpenOptions leaves them zero.
const (
	DefaultNavTimeout  = 30 * time.Second
	DefaultWaitTimeout = 30 * time.Second
)

var (
	// ErrClipboardRead is returned when the clipboard cannot be read back
	// after a copy action.
	ErrClipboardRead = errors.New("error reading clipboard")

	// ErrNoChrome is returned when no Chrome or Chromium binary is available.
	ErrNoChrome = errors.New("no Chrome or Chromium binary found")
)

// Permission is a browser permission granted to the visited origin.
type Permission string

const (
	PermissionClipboardRead  Permission = "clipboard-read"
	PermissionClipboardWrite Permission = "clipboard-write"
)

// ClipboardPermissions returns the permissions a copy action needs.
func ClipboardPermissions() []Permission {
	return []Permission{PermissionClipboardRead, PermissionClipboardWrite}
}

// OpenOptions controls how a page is opened.
type OpenOptions struct {
	// WaitFor is a selector that must become visible after navigation.
	WaitFor string
	// Permissions are granted to the target origin before navigation.
	Permissions []Permission
	// NavTimeout bounds navigation including the network-idle wait.
	NavTimeout time.Duration
	// WaitTimeout bounds the WaitFor visibility wait.
	WaitTimeout time.Duration
}

// Page is a live rendered page. Selectors starting with "/" or "(" are
// XPath expressions; anything else is CSS.
type Page interface {
	// URL returns the URL the page was opened at.
	URL() string
	// WaitVisible blocks until selector matches a visible element.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// Click clicks the first visible element matching selector.
	Click(ctx context.Context, selector string) error
	// Sleep pauses for d to let client-side scripts settle.
	Sleep(ctx context.Context, d time.Duration) error
	// Hrefs returns the resolved href of every anchor in document order.
	Hrefs(ctx context.Context) ([]string, error)
	// Texts returns the trimmed text content of every element matching selector.
	Texts(ctx context.Context, selector string) ([]string, error)
	// InnerHTML returns the trimmed inner markup of every element matching selector.
	InnerHTML(ctx context.Context, selector string) ([]string, error)
	// ReadClipboard returns the text most recently copied by the page.
	// Failures wrap ErrClipboardRead.
	ReadClipboard(ctx context.Context) (string, error)
	// HTML returns the serialized document.
	HTML(ctx context.Context) (string, error)
	// Screenshot captures the full page as PNG.
	Screenshot(ctx context.Context) ([]byte, error)
	// Close releases the page, its context and its browser. It is safe to
	// call more than once.
	Close() error
}

// Renderer opens pages.
type Renderer interface {
	// Open navigates a fresh session to url and applies the waits in opts.
	// On error no resources remain held.
	Open(ctx context.Context, url string, opts OpenOptions) (Page, error)
}

// Visit opens url, runs fn against the page and closes the page on every
// exit path. The error from fn takes precedence over a close error.
func Visit(ctx context.Context, r Renderer, url string, opts OpenOptions, fn func(Page) error) (err error) {
	p, err := r.Open(ctx, url, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			logger.Debug("page close failed", "url", url, "error", cerr)
			if err == nil {
				err = cerr
			}
		}
	}()
	return fn(p)
}

// IsXPath reports whether selector is an XPath expression.
func IsXPath(selector string) bool {
	s := strings.TrimSpace(selector)
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "(")
}
