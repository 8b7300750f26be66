package strategy

import (
	"context"

	"github.com/jmylchreest/docpull/pkg/browser"
	"github.com/jmylchreest/docpull/pkg/site"
)

// CopyPage handles sites with a "copy page" button that puts the page's
// Markdown source on the clipboard. Link extraction is the generic one.
type CopyPage struct {
	Generic
	name   string
	button string
}

// NewCopyPage returns a copy-page strategy registered as name. button is the
// copy control used when the descriptor does not name one.
func NewCopyPage(name, button string) *CopyPage {
	return &CopyPage{name: name, button: button}
}

// Built-in copy-page strategies.
func Modal() *CopyPage { return NewCopyPage("modal", `//button[@title="Copy page"]`) }

func Convex() *CopyPage {
	return NewCopyPage("convex",
		`//*[@id="__docusaurus_skipToContent_fallback"]/div/div/main/div/div/div[1]/div/article/div[1]/button`)
}

func Cursor() *CopyPage {
	return NewCopyPage("cursor", `//button[@type="button"][.//span[text()="Copy page"]]`)
}

func ClaudeCode() *CopyPage { return NewCopyPage("claude_code", "#page-context-menu-button") }

func Unsloth() *CopyPage { return NewCopyPage("unsloth", `//button[@aria-label="Copy page"]`) }

func (c *CopyPage) Name() string { return c.name }

// Button returns the selector of the copy control for p.
func (c *CopyPage) Button(p ContentParams) string {
	if p.Selector == "" || p.Selector == site.DefaultSelector {
		return c.button
	}
	return p.Selector
}

// ExtractContent returns fetched markup unchanged. On a rendered page it
// waits for the copy button, clicks it and returns the clipboard text.
func (c *CopyPage) ExtractContent(ctx context.Context, in Input, p ContentParams) ([]string, error) {
	switch in := in.(type) {
	case Markup:
		return []string{in.HTML}, nil
	case Rendered:
		button := c.Button(p)
		if err := in.Page.WaitVisible(ctx, button, browser.DefaultWaitTimeout); err != nil {
			return nil, err
		}
		return copyAction(ctx, in.Page, button)
	default:
		return c.Generic.ExtractContent(ctx, in, p)
	}
}
