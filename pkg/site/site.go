// Package site defines per-site descriptors and resolves them by identifier.
//
// A descriptor tells the engine where a documentation site lives, whether its
// pages are fetched as static markup or rendered in a browser, which
// extraction strategy applies, and how link discovery and content extraction
// are configured. Descriptors are validated once when loaded; everything
// downstream works with the typed Config.
package site

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode selects the execution path for a page visit.
type Mode string

const (
	// ModeFetch retrieves raw markup with a stateless HTTP GET.
	ModeFetch Mode = "fetch"
	// ModeRender visits the page in a live browser session.
	ModeRender Mode = "render"
)

// ParseMode canonicalizes a mode string. The legacy value "browser" maps to
// ModeRender. Unknown values are returned unchanged so validation can
// report them.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fetch", "http", "static":
		return ModeFetch
	case "render", "browser", "dynamic":
		return ModeRender
	default:
		return Mode(s)
	}
}

// Method is the content extraction technique.
type Method string

const (
	// MethodCopyAction clicks a "copy" control and reads the clipboard back.
	MethodCopyAction Method = "copy-action"
	// MethodText collects the trimmed text of every matching element.
	MethodText Method = "text"
	// MethodMarkup collects the inner markup of every matching element.
	MethodMarkup Method = "markup"
)

// ParseMethod canonicalizes a method string, accepting the legacy names
// click_copy, text_content and inner_html.
func ParseMethod(s string) Method {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy-action", "click_copy", "click-copy", "copy":
		return MethodCopyAction
	case "text", "text_content":
		return MethodText
	case "markup", "inner_html", "html":
		return MethodMarkup
	default:
		return Method(s)
	}
}

// Default values applied to omitted descriptor fields.
const (
	DefaultMaxDepth = 2
	DefaultSelector = "body"
	DefaultMethod   = MethodMarkup
)

// Config is a validated site descriptor.
type Config struct {
	// ID is the identifier the descriptor was registered under.
	ID        string         `json:"-" yaml:"-"`
	Name      string         `json:"name" yaml:"name" validate:"required"`
	BaseURL   string         `json:"baseUrl" yaml:"baseUrl" validate:"required,url"`
	Mode      Mode           `json:"mode" yaml:"mode" validate:"required,oneof=fetch render"`
	Extractor string         `json:"extractor" yaml:"extractor" validate:"required"`
	Links     *LinksConfig   `json:"links,omitempty" yaml:"links,omitempty"`
	Content   *ContentConfig `json:"content,omitempty" yaml:"content,omitempty"`
}

// LinksConfig configures link discovery.
type LinksConfig struct {
	// StartURLs are seed path suffixes appended to the base URL.
	StartURLs []string `json:"startUrls" yaml:"startUrls"`
	// Pattern is a substring every discovered link must contain.
	Pattern string `json:"pattern" yaml:"pattern"`
	// WaitFor is a selector to wait for after navigation (render mode).
	WaitFor  string `json:"waitFor,omitempty" yaml:"waitFor,omitempty"`
	MaxDepth int    `json:"maxDepth" yaml:"maxDepth" validate:"min=0"`
	// Follow enables breadth-first crawling in render mode. Without it a
	// render-mode site harvests links from its first seed page only.
	Follow bool `json:"follow,omitempty" yaml:"follow,omitempty"`
}

// ContentConfig configures content extraction.
type ContentConfig struct {
	// Mode overrides the site mode for content requests when set.
	Mode     Mode   `json:"mode,omitempty" yaml:"mode,omitempty" validate:"omitempty,oneof=fetch render"`
	WaitFor  string `json:"waitFor,omitempty" yaml:"waitFor,omitempty"`
	Selector string `json:"selector" yaml:"selector" validate:"required"`
	Method   Method `json:"method" yaml:"method" validate:"required,oneof=copy-action text markup"`
}

type linksAlias LinksConfig

func defaultLinks() linksAlias {
	return linksAlias{StartURLs: []string{""}, MaxDepth: DefaultMaxDepth}
}

// UnmarshalJSON applies defaults for omitted fields.
func (l *LinksConfig) UnmarshalJSON(data []byte) error {
	a := defaultLinks()
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = LinksConfig(a)
	return nil
}

// UnmarshalYAML applies defaults for omitted fields.
func (l *LinksConfig) UnmarshalYAML(value *yaml.Node) error {
	a := defaultLinks()
	if err := value.Decode(&a); err != nil {
		return err
	}
	*l = LinksConfig(a)
	return nil
}

type contentAlias ContentConfig

func defaultContent() contentAlias {
	return contentAlias{Selector: DefaultSelector, Method: DefaultMethod}
}

// UnmarshalJSON applies defaults for omitted fields.
func (c *ContentConfig) UnmarshalJSON(data []byte) error {
	a := defaultContent()
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = ContentConfig(a)
	return nil
}

// UnmarshalYAML applies defaults for omitted fields.
func (c *ContentConfig) UnmarshalYAML(value *yaml.Node) error {
	a := defaultContent()
	if err := value.Decode(&a); err != nil {
		return err
	}
	*c = ContentConfig(a)
	return nil
}

// canonicalize rewrites legacy enum spellings and fills empty content fields.
func (c *Config) canonicalize() {
	c.Mode = ParseMode(string(c.Mode))
	if c.Content != nil {
		if c.Content.Mode != "" {
			c.Content.Mode = ParseMode(string(c.Content.Mode))
		}
		if c.Content.Method == "" {
			c.Content.Method = DefaultMethod
		}
		c.Content.Method = ParseMethod(string(c.Content.Method))
		if c.Content.Selector == "" {
			c.Content.Selector = DefaultSelector
		}
	}
}

// URL joins the base URL and a path suffix verbatim.
func (c Config) URL(path string) string {
	return c.BaseURL + path
}

// Seeds returns the absolute seed URLs for link discovery.
func (c Config) Seeds() []string {
	if c.Links == nil {
		return nil
	}
	seeds := make([]string, 0, len(c.Links.StartURLs))
	for _, p := range c.Links.StartURLs {
		seeds = append(seeds, c.URL(p))
	}
	return seeds
}

// EffectiveContentMode returns the effective mode for content extraction: the
// content override when set, otherwise the site mode.
func (c Config) EffectiveContentMode() Mode {
	if c.Content != nil && c.Content.Mode != "" {
		return c.Content.Mode
	}
	return c.Mode
}
