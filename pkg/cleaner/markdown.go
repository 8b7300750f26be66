package cleaner

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// DefaultStrip lists elements removed before conversion.
var DefaultStrip = []string{"script", "style", "noscript", "svg", "button"}

// MarkdownCleaner converts HTML content to Markdown. Content that is not
// markup, such as text copied from a copy-page button, is already Markdown
// and passes through with only whitespace normalized.
type MarkdownCleaner struct {
	strip []string
}

// MarkdownOption configures the markdown cleaner.
type MarkdownOption func(*MarkdownCleaner)

// WithStrip replaces the selectors of elements removed before conversion.
func WithStrip(selectors ...string) MarkdownOption {
	return func(c *MarkdownCleaner) {
		c.strip = selectors
	}
}

// NewMarkdown creates a new Markdown cleaner.
func NewMarkdown(opts ...MarkdownOption) *MarkdownCleaner {
	c := &MarkdownCleaner{strip: DefaultStrip}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsMarkup reports whether content looks like HTML.
func IsMarkup(content string) bool {
	return strings.HasPrefix(strings.TrimSpace(content), "<")
}

// Clean converts HTML to Markdown.
func (c *MarkdownCleaner) Clean(content string) (string, error) {
	if !IsMarkup(content) {
		return cleanWhitespace(content), nil
	}

	html, err := c.prune(content)
	if err != nil {
		return "", err
	}
	markdown, err := md.ConvertString(html)
	if err != nil {
		return "", err
	}
	return cleanWhitespace(markdown), nil
}

// prune removes the strip elements.
func (c *MarkdownCleaner) prune(html string) (string, error) {
	if len(c.strip) == 0 {
		return html, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find(strings.Join(c.strip, ", ")).Remove()
	return doc.Find("body").Html()
}

// Name returns the cleaner type.
func (c *MarkdownCleaner) Name() string {
	return "markdown"
}

// cleanWhitespace collapses runs of blank lines into one and trims the
// result.
func cleanWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	var result []string
	blankCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blankCount++
			if blankCount <= 1 {
				result = append(result, "")
			}
		} else {
			blankCount = 0
			result = append(result, strings.TrimRight(line, " \t"))
		}
	}

	return strings.TrimSpace(strings.Join(result, "\n"))
}
