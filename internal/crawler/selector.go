package crawler

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractHrefs returns the raw href of every anchor in html, in document
// order.
func ExtractHrefs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs, nil
}

// LinkFilter turns raw hrefs into a sorted, deduplicated set of normalized
// same-site documentation URLs.
type LinkFilter struct {
	// BaseURL resolves relative hrefs and defines the site.
	BaseURL string
	// Pattern, when non-empty, must occur in every kept link.
	Pattern string
	// AllowPrefix also keeps links starting with BaseURL on another host.
	AllowPrefix bool
	// PrefixOnly keeps only links starting with BaseURL and ignores
	// the host check.
	PrefixOnly bool
}

// Apply resolves, normalizes and filters hrefs.
func (f LinkFilter) Apply(hrefs []string) []string {
	base, err := url.Parse(f.BaseURL)
	if err != nil {
		base = nil
	}

	seen := make(map[string]bool, len(hrefs))
	links := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		abs, ok := ResolveLink(base, href)
		if !ok {
			continue
		}
		link := NormalizeURL(abs)
		if !f.keep(link) || seen[link] {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}

func (f LinkFilter) keep(link string) bool {
	if f.PrefixOnly {
		return strings.HasPrefix(link, f.BaseURL) || link == NormalizeURL(f.BaseURL)
	}
	if f.Pattern != "" && !strings.Contains(link, f.Pattern) {
		return false
	}
	if f.AllowPrefix && strings.HasPrefix(link, f.BaseURL) {
		return true
	}
	return IsSameDomain(link, f.BaseURL)
}
