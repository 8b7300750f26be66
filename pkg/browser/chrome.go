package browser

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"sync/atomic"
	"time"

	cdpbrowser "github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jmylchreest/docpull/internal/logger"
)

// ChromeConfig configures the chromedp renderer.
type ChromeConfig struct {
	// ExecPath is the browser binary. Empty means FindChromePath.
	ExecPath  string
	UserAgent string
	// Headful shows the browser window.
	Headful bool
	// NavTimeout and WaitTimeout are defaults for OpenOptions.
	NavTimeout  time.Duration
	WaitTimeout time.Duration
}

// DefaultUserAgent is a desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Chrome is a Renderer backed by chromedp. Every Open launches a dedicated
// browser process.
type Chrome struct {
	config ChromeConfig
}

// NewChrome creates a chromedp renderer.
func NewChrome(cfg ChromeConfig) *Chrome {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = DefaultNavTimeout
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = DefaultWaitTimeout
	}
	return &Chrome{config: cfg}
}

func (c *Chrome) allocatorOptions(execPath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !c.config.Headful),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(c.config.UserAgent),
		chromedp.ExecPath(execPath),
	)
	return opts
}

// Open launches a browser, grants opts.Permissions to the target origin,
// navigates to targetURL, waits for network idle and then for opts.WaitFor.
func (c *Chrome) Open(ctx context.Context, targetURL string, opts OpenOptions) (Page, error) {
	execPath := c.config.ExecPath
	if execPath == "" {
		execPath = FindChromePath()
	}
	if execPath == "" {
		return nil, ErrNoChrome
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = c.config.NavTimeout
	}
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = c.config.WaitTimeout
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions(execPath)...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug("chromedp", "msg", fmt.Sprintf(format, args...))
		}),
	)
	p := &chromePage{url: targetURL, ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}

	logger.Debug("opening page", "url", targetURL, "permissions", opts.Permissions, "wait_for", opts.WaitFor)
	if err := chromedp.Run(tabCtx); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	setup := []chromedp.Action{injectClipboardCapture()}
	if len(opts.Permissions) > 0 {
		setup = append(setup, grantPermissions(targetURL, opts.Permissions))
	}
	if err := chromedp.Run(tabCtx, setup...); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("prepare page: %w", err)
	}

	if err := p.navigate(opts.NavTimeout); err != nil {
		_ = p.Close()
		return nil, err
	}

	if opts.WaitFor != "" {
		if err := p.WaitVisible(ctx, opts.WaitFor, opts.WaitTimeout); err != nil {
			_ = p.Close()
			return nil, err
		}
	}
	return p, nil
}

// navigate loads the page and then waits for the networkIdle lifecycle
// event. Not reaching network idle within the timeout is tolerated; a
// failed or timed out load is not.
func (p *chromePage) navigate(timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	idle := make(chan struct{}, 1)
	var started atomic.Bool
	chromedp.ListenTarget(navCtx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		switch e.Name {
		case "init":
			started.Store(true)
		case "networkIdle":
			if started.Load() {
				select {
				case idle <- struct{}{}:
				default:
				}
			}
		}
	})

	if err := chromedp.Run(navCtx,
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(p.url),
	); err != nil {
		return fmt.Errorf("navigate %s: %w", p.url, err)
	}

	select {
	case <-idle:
		logger.Debug("network idle", "url", p.url)
	case <-navCtx.Done():
		logger.Debug("network idle not reached", "url", p.url, "timeout", timeout)
	}
	return nil
}

func grantPermissions(targetURL string, perms []Permission) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		u, err := url.Parse(targetURL)
		if err != nil {
			return fmt.Errorf("invalid URL: %w", err)
		}
		origin := u.Scheme + "://" + u.Host
		return cdpbrowser.GrantPermissions(cdpPermissions(perms)).WithOrigin(origin).Do(ctx)
	})
}

func cdpPermissions(perms []Permission) []cdpbrowser.PermissionType {
	out := make([]cdpbrowser.PermissionType, 0, len(perms))
	for _, p := range perms {
		switch p {
		case PermissionClipboardRead:
			out = append(out, cdpbrowser.PermissionTypeClipboardReadWrite)
		case PermissionClipboardWrite:
			out = append(out, cdpbrowser.PermissionTypeClipboardSanitizedWrite)
		default:
			out = append(out, cdpbrowser.PermissionType(p))
		}
	}
	return out
}

func injectClipboardCapture() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(clipboardCaptureScript).Do(ctx)
		return err
	})
}

// Common Chrome/Chromium binary names across different systems
var chromeBinaryNames = []string{
	"google-chrome-stable",
	"google-chrome",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
	"/usr/bin/google-chrome-stable",
	"/usr/bin/chromium",
	"/snap/bin/chromium",
	`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
}

// FindChromePath searches PATH and common install locations for a Chrome
// or Chromium binary. It returns "" when none is found.
func FindChromePath() string {
	for _, name := range chromeBinaryNames {
		if path, err := exec.LookPath(name); err == nil {
			logger.Debug("found Chrome binary", "path", path)
			return path
		}
	}
	logger.Warn("no Chrome binary found - render mode will not work")
	return ""
}
