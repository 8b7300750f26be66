package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/jmylchreest/docpull/internal/crawler"
	"github.com/jmylchreest/docpull/pkg/browser"
	"github.com/jmylchreest/docpull/pkg/site"
)

// CopySettle is how long a copy action waits between the click and the
// clipboard read.
const CopySettle = time.Second

// Generic handles standard documentation sites.
type Generic struct{}

// Default returns the generic strategy, registered as "default".
func Default() *Generic { return &Generic{} }

func (*Generic) Name() string { return "default" }

func (*Generic) Setup(context.Context, browser.Page) error { return nil }

// ExtractLinks collects anchor hrefs, resolves them against the base URL,
// applies the pattern and same-domain filters and normalizes the result.
func (*Generic) ExtractLinks(ctx context.Context, in Input, p LinkParams) ([]string, error) {
	switch in := in.(type) {
	case Markup:
		hrefs, err := crawler.ExtractHrefs(in.HTML)
		if err != nil {
			return nil, fmt.Errorf("parse markup: %w", err)
		}
		return crawler.LinkFilter{BaseURL: p.BaseURL, Pattern: p.Pattern}.Apply(hrefs), nil
	case Rendered:
		hrefs, err := in.Page.Hrefs(ctx)
		if err != nil {
			return nil, err
		}
		return crawler.LinkFilter{BaseURL: p.BaseURL, Pattern: p.Pattern, AllowPrefix: true}.Apply(hrefs), nil
	default:
		return nil, fmt.Errorf("unsupported input %T", in)
	}
}

// ExtractContent applies the configured method to the selector.
func (*Generic) ExtractContent(ctx context.Context, in Input, p ContentParams) ([]string, error) {
	switch in := in.(type) {
	case Markup:
		return markupContent(in.HTML, p.Selector, p.Method)
	case Rendered:
		return pageContent(ctx, in.Page, p.Selector, p.Method)
	default:
		return nil, fmt.Errorf("unsupported input %T", in)
	}
}

func markupContent(src, selector string, method site.Method) ([]string, error) {
	switch method {
	case site.MethodText:
		return SelectText(src, selector)
	case site.MethodMarkup:
		return SelectMarkup(src, selector)
	case site.MethodCopyAction:
		return nil, fmt.Errorf("%w: %s needs a rendered page", ErrRenderRequired, method)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
}

func pageContent(ctx context.Context, page browser.Page, selector string, method site.Method) ([]string, error) {
	switch method {
	case site.MethodText:
		return page.Texts(ctx, selector)
	case site.MethodMarkup:
		return page.InnerHTML(ctx, selector)
	case site.MethodCopyAction:
		return copyAction(ctx, page, selector)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
}

// copyAction clicks selector and reads back what the page copied. An empty
// clipboard yields no content.
func copyAction(ctx context.Context, page browser.Page, selector string) ([]string, error) {
	if err := page.Click(ctx, selector); err != nil {
		return nil, err
	}
	if err := page.Sleep(ctx, CopySettle); err != nil {
		return nil, err
	}
	text, err := page.ReadClipboard(ctx)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []string{}, nil
	}
	return []string{text}, nil
}
