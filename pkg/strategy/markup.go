package strategy

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/jmylchreest/docpull/pkg/browser"
)

// SelectText returns the trimmed text of every element in src matching
// selector. XPath selectors are evaluated with htmlquery, CSS with goquery.
func SelectText(src, selector string) ([]string, error) {
	if browser.IsXPath(selector) {
		nodes, err := queryXPath(src, selector)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, strings.TrimSpace(htmlquery.InnerText(n)))
		}
		return out, nil
	}

	sel, err := queryCSS(src, selector)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out, nil
}

// SelectMarkup returns the trimmed inner markup of every element in src
// matching selector.
func SelectMarkup(src, selector string) ([]string, error) {
	if browser.IsXPath(selector) {
		nodes, err := queryXPath(src, selector)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, strings.TrimSpace(htmlquery.OutputHTML(n, false)))
		}
		return out, nil
	}

	sel, err := queryCSS(src, selector)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, sel.Length())
	var renderErr error
	sel.Each(func(_ int, s *goquery.Selection) {
		inner, err := s.Html()
		if err != nil && renderErr == nil {
			renderErr = err
		}
		out = append(out, strings.TrimSpace(inner))
	})
	if renderErr != nil {
		return nil, fmt.Errorf("render markup: %w", renderErr)
	}
	return out, nil
}

func queryCSS(src, selector string) (*goquery.Selection, error) {
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return doc.FindMatcher(matcher), nil
}

func queryXPath(src, expr string) ([]*html.Node, error) {
	doc, err := htmlquery.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	nodes, err := htmlquery.QueryAll(doc, expr)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", expr, err)
	}
	return nodes, nil
}
