// Package strategy turns pages into link lists and content strings.
//
// A Strategy handles one family of documentation sites. Every operation
// receives an Input that is either raw Markup from a fetch or a live
// Rendered page, and implementations switch on the two cases explicitly.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/docpull/pkg/browser"
	"github.com/jmylchreest/docpull/pkg/site"
)

var (
	// ErrRenderRequired is returned when an operation that needs a live
	// page is given markup.
	ErrRenderRequired = errors.New("render mode required")

	// ErrUnsupportedMethod is returned for content methods a strategy does
	// not implement.
	ErrUnsupportedMethod = errors.New("unsupported content method")
)

// Input is the page an operation works on: Markup or Rendered.
type Input interface {
	isInput()
}

// Markup is raw page markup obtained by a fetch.
type Markup struct {
	URL  string
	HTML string
}

// Rendered is a live page in a browser session.
type Rendered struct {
	Page browser.Page
}

func (Markup) isInput()   {}
func (Rendered) isInput() {}

// LinkParams configures link extraction.
type LinkParams struct {
	BaseURL string
	Pattern string
	WaitFor string
}

// ContentParams configures content extraction.
type ContentParams struct {
	BaseURL  string
	Selector string
	Method   site.Method
	WaitFor  string
}

// LinkParamsFor builds LinkParams from a site descriptor.
func LinkParamsFor(cfg site.Config) LinkParams {
	p := LinkParams{BaseURL: cfg.BaseURL}
	if cfg.Links != nil {
		p.Pattern = cfg.Links.Pattern
		p.WaitFor = cfg.Links.WaitFor
	}
	return p
}

// ContentParamsFor builds ContentParams from a site descriptor.
func ContentParamsFor(cfg site.Config) ContentParams {
	p := ContentParams{BaseURL: cfg.BaseURL, Selector: site.DefaultSelector, Method: site.DefaultMethod}
	if cfg.Content != nil {
		p.Selector = cfg.Content.Selector
		p.Method = cfg.Content.Method
		p.WaitFor = cfg.Content.WaitFor
	}
	return p
}

// Strategy extracts links and content for one site family.
type Strategy interface {
	// Name is the registry key.
	Name() string
	// Setup prepares a rendered page before extraction, for example by
	// dismissing a consent banner. Strategies without setup return nil.
	Setup(ctx context.Context, page browser.Page) error
	// ExtractLinks returns the sorted, deduplicated documentation links
	// found on the page.
	ExtractLinks(ctx context.Context, in Input, p LinkParams) ([]string, error)
	// ExtractContent returns the content strings of the page.
	ExtractContent(ctx context.Context, in Input, p ContentParams) ([]string, error)
}

// UnknownError reports an unregistered strategy name.
type UnknownError struct {
	Name  string
	Known []string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("unknown extractor: %s (available: %s)", e.Name, strings.Join(e.Known, ", "))
}
