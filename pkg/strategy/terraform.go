package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/jmylchreest/docpull/internal/crawler"
	"github.com/jmylchreest/docpull/internal/logger"
	"github.com/jmylchreest/docpull/pkg/browser"
	"github.com/jmylchreest/docpull/pkg/site"
)

// Terraform registry timings.
const (
	ConsentWait     = 5 * time.Second
	ConsentSettle   = time.Second
	LinksSettle     = 2 * time.Second
	ContentSettle   = time.Second
	TerraformWaitOn = "#provider-docs-content"
)

// ConsentButton matches the registry's cookie banner accept button.
const ConsentButton = `//button[contains(normalize-space(.), "Accept All")]`

// Terraform handles the Terraform registry, a client-rendered single-page
// application. It only works on rendered pages.
type Terraform struct{}

func NewTerraform() *Terraform { return &Terraform{} }

func (*Terraform) Name() string { return "terraform" }

// Setup dismisses the cookie consent banner when one appears. A missing
// banner is not an error.
func (*Terraform) Setup(ctx context.Context, page browser.Page) error {
	if err := page.WaitVisible(ctx, ConsentButton, ConsentWait); err != nil {
		logger.Debug("no consent banner", "url", page.URL())
		return nil
	}
	if err := page.Click(ctx, ConsentButton); err != nil {
		logger.Debug("consent banner click failed", "url", page.URL(), "error", err)
		return nil
	}
	return page.Sleep(ctx, ConsentSettle)
}

// ExtractLinks expects Setup to have run. It waits for the docs container,
// lets the sidebar settle and keeps every link under the base URL.
func (*Terraform) ExtractLinks(ctx context.Context, in Input, p LinkParams) ([]string, error) {
	r, ok := in.(Rendered)
	if !ok {
		return nil, fmt.Errorf("%w: terraform link extraction", ErrRenderRequired)
	}
	page := r.Page

	waitFor := p.WaitFor
	if waitFor == "" {
		waitFor = TerraformWaitOn
	}
	if err := page.WaitVisible(ctx, waitFor, browser.DefaultWaitTimeout); err != nil {
		return nil, err
	}
	if err := page.Sleep(ctx, LinksSettle); err != nil {
		return nil, err
	}

	hrefs, err := page.Hrefs(ctx)
	if err != nil {
		return nil, err
	}
	return crawler.LinkFilter{BaseURL: p.BaseURL, PrefixOnly: true}.Apply(hrefs), nil
}

// ExtractContent waits for the content region and returns its inner markup.
func (*Terraform) ExtractContent(ctx context.Context, in Input, p ContentParams) ([]string, error) {
	r, ok := in.(Rendered)
	if !ok {
		return nil, fmt.Errorf("%w: terraform content extraction", ErrRenderRequired)
	}
	page := r.Page

	selector := p.Selector
	if selector == "" || selector == site.DefaultSelector {
		selector = TerraformWaitOn
	}
	if err := page.WaitVisible(ctx, selector, browser.DefaultWaitTimeout); err != nil {
		return nil, err
	}
	if err := page.Sleep(ctx, ContentSettle); err != nil {
		return nil, err
	}
	return page.InnerHTML(ctx, selector)
}
