// Package browsertest provides in-memory browser.Renderer and browser.Page
// implementations for tests.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmylchreest/docpull/pkg/browser"
)

// ErrNotVisible is returned by WaitVisible and Click for selectors listed
// in Page.Missing.
var ErrNotVisible = errors.New("element not visible")

// Page is a scripted browser.Page. Every call is recorded in Calls.
type Page struct {
	PageURL string
	// Links is returned by Hrefs.
	Links []string
	// Text and Markup map a selector to the values Texts and InnerHTML return.
	Text   map[string][]string
	Markup map[string][]string
	// Missing selectors fail WaitVisible and Click.
	Missing map[string]bool
	// Clipboard is returned by ReadClipboard once something was clicked.
	Clipboard string
	// ClipboardErr, when set, fails ReadClipboard.
	ClipboardErr error
	Document     string
	PNG          []byte

	mu      sync.Mutex
	calls   []string
	clicked bool
	closed  bool
}

func (p *Page) record(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

// Calls returns the recorded operations, e.g. "click://button".
func (p *Page) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

// Closed reports whether Close was called.
func (p *Page) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Page) URL() string { return p.PageURL }

func (p *Page) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	p.record("wait:%s", selector)
	if p.Missing[selector] {
		return fmt.Errorf("wait for %q: %w", selector, ErrNotVisible)
	}
	return nil
}

func (p *Page) Click(_ context.Context, selector string) error {
	p.record("click:%s", selector)
	if p.Missing[selector] {
		return fmt.Errorf("click %q: %w", selector, ErrNotVisible)
	}
	p.mu.Lock()
	p.clicked = true
	p.mu.Unlock()
	return nil
}

func (p *Page) Sleep(_ context.Context, d time.Duration) error {
	p.record("sleep:%s", d)
	return nil
}

func (p *Page) Hrefs(context.Context) ([]string, error) {
	p.record("hrefs")
	return append([]string(nil), p.Links...), nil
}

func (p *Page) Texts(_ context.Context, selector string) ([]string, error) {
	p.record("text:%s", selector)
	return append([]string{}, p.Text[selector]...), nil
}

func (p *Page) InnerHTML(_ context.Context, selector string) ([]string, error) {
	p.record("markup:%s", selector)
	return append([]string{}, p.Markup[selector]...), nil
}

func (p *Page) ReadClipboard(context.Context) (string, error) {
	p.record("clipboard")
	if p.ClipboardErr != nil {
		return "", fmt.Errorf("%w: %v", browser.ErrClipboardRead, p.ClipboardErr)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.clicked {
		return "", fmt.Errorf("%w: nothing copied", browser.ErrClipboardRead)
	}
	return p.Clipboard, nil
}

func (p *Page) HTML(context.Context) (string, error) {
	p.record("html")
	return p.Document, nil
}

func (p *Page) Screenshot(context.Context) ([]byte, error) {
	p.record("screenshot")
	return p.PNG, nil
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Open records a single Renderer.Open call.
type Open struct {
	URL     string
	Options browser.OpenOptions
}

// Renderer serves Pages by URL. Opening a URL with no Page fails.
type Renderer struct {
	Pages map[string]*Page
	// Errs fails Open for the given URLs.
	Errs map[string]error

	mu     sync.Mutex
	opened []Open
}

// NewRenderer returns a Renderer serving pages keyed by their PageURL.
func NewRenderer(pages ...*Page) *Renderer {
	r := &Renderer{Pages: make(map[string]*Page, len(pages)), Errs: map[string]error{}}
	for _, p := range pages {
		r.Pages[p.PageURL] = p
	}
	return r
}

// Open implements browser.Renderer. A WaitFor selector listed as missing on
// the page fails the open and closes the page.
func (r *Renderer) Open(ctx context.Context, url string, opts browser.OpenOptions) (browser.Page, error) {
	r.mu.Lock()
	r.opened = append(r.opened, Open{URL: url, Options: opts})
	r.mu.Unlock()

	if err := r.Errs[url]; err != nil {
		return nil, err
	}
	p, ok := r.Pages[url]
	if !ok {
		return nil, fmt.Errorf("navigate %s: no such page", url)
	}
	if opts.WaitFor != "" {
		if err := p.WaitVisible(ctx, opts.WaitFor, opts.WaitTimeout); err != nil {
			_ = p.Close()
			return nil, err
		}
	}
	return p, nil
}

// Opened returns every Open call in order.
func (r *Renderer) Opened() []Open {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Open(nil), r.opened...)
}
