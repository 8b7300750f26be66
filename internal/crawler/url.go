// Package crawler holds the URL handling shared by link discovery: the
// canonical form used for deduplication, link resolution and filtering, and
// the breadth-first frontier.
package crawler

import (
	"net/url"
	"strings"
)

// NormalizeURL returns the canonical form of rawURL used for comparison:
// query string and fragment are dropped and trailing slashes trimmed.
// NormalizeURL is idempotent.
func NormalizeURL(rawURL string) string {
	s := rawURL
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "/")
}

// IsSameDomain checks if two URLs are on the same host.
func IsSameDomain(url1, url2 string) bool {
	parsed1, err := url.Parse(url1)
	if err != nil {
		return false
	}
	parsed2, err := url.Parse(url2)
	if err != nil {
		return false
	}
	return parsed1.Host != "" && strings.EqualFold(parsed1.Host, parsed2.Host)
}

// ResolveLink resolves href against base. It reports false for hrefs that
// cannot name a page: empty, fragment-only, javascript:, mailto: and tel:.
func ResolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}

	linkURL, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if !linkURL.IsAbs() {
		if base == nil {
			return "", false
		}
		linkURL = base.ResolveReference(linkURL)
	}
	if linkURL.Scheme != "http" && linkURL.Scheme != "https" {
		return "", false
	}
	return linkURL.String(), true
}
