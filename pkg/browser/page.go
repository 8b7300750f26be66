package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

// chromePage is a tab in a dedicated browser process.
type chromePage struct {
	url         string
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	closeOnce   sync.Once
	closeErr    error
}

func (p *chromePage) URL() string { return p.url }

// run executes actions on the tab, bounded by timeout when positive and by
// the caller's ctx.
func (p *chromePage) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx := p.ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(runCtx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func queryOptions(selector string) []chromedp.QueryOption {
	if IsXPath(selector) {
		return []chromedp.QueryOption{chromedp.BySearch}
	}
	return []chromedp.QueryOption{chromedp.ByQuery}
}

func (p *chromePage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	if err := p.run(ctx, timeout, chromedp.WaitVisible(selector, queryOptions(selector)...)); err != nil {
		return fmt.Errorf("wait for %q: %w", selector, err)
	}
	return nil
}

func (p *chromePage) Click(ctx context.Context, selector string) error {
	opts := append(queryOptions(selector), chromedp.NodeVisible)
	if err := p.run(ctx, DefaultWaitTimeout, chromedp.Click(selector, opts...)); err != nil {
		return fmt.Errorf("click %q: %w", selector, err)
	}
	return nil
}

func (p *chromePage) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

func (p *chromePage) Hrefs(ctx context.Context) ([]string, error) {
	var hrefs []string
	if err := p.run(ctx, DefaultWaitTimeout, chromedp.Evaluate(hrefsScript, &hrefs)); err != nil {
		return nil, fmt.Errorf("collect links: %w", err)
	}
	return hrefs, nil
}

func (p *chromePage) collect(ctx context.Context, selector, property string) ([]string, error) {
	args, err := json.Marshal([]any{selector, IsXPath(selector), property})
	if err != nil {
		return nil, err
	}
	script := fmt.Sprintf("(%s)(...%s)", collectScript, args)
	var out []string
	if err := p.run(ctx, DefaultWaitTimeout, chromedp.Evaluate(script, &out)); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (p *chromePage) Texts(ctx context.Context, selector string) ([]string, error) {
	return p.collect(ctx, selector, "textContent")
}

func (p *chromePage) InnerHTML(ctx context.Context, selector string) ([]string, error) {
	return p.collect(ctx, selector, "innerHTML")
}

func (p *chromePage) ReadClipboard(ctx context.Context) (string, error) {
	var text string
	err := p.run(ctx, DefaultWaitTimeout, chromedp.Evaluate(readClipboardScript, &text,
		func(ep *runtime.EvaluateParams) *runtime.EvaluateParams {
			return ep.WithAwaitPromise(true)
		}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClipboardRead, err)
	}
	return text, nil
}

func (p *chromePage) HTML(ctx context.Context) (string, error) {
	var html string
	if err := p.run(ctx, DefaultWaitTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return html, nil
}

func (p *chromePage) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := p.run(ctx, DefaultWaitTimeout, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return buf, nil
}

// Close shuts down the tab and then the browser process.
func (p *chromePage) Close() error {
	p.closeOnce.Do(func() {
		err := chromedp.Cancel(p.ctx)
		p.cancelTab()
		p.cancelAlloc()
		if err != nil && !errors.Is(err, context.Canceled) {
			p.closeErr = fmt.Errorf("close browser: %w", err)
		}
	})
	return p.closeErr
}
