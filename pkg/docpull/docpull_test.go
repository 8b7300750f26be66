package docpull

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/docpull/pkg/browser/browsertest"
	"github.com/jmylchreest/docpull/pkg/site"
	"github.com/jmylchreest/docpull/pkg/strategy"
)

func docsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			fmt.Fprint(w, `<html><body>
				<a href="/guide/intro">Intro</a>
				<a href="/blog">Blog</a>
				<a href="https://other.test/guide/x">Other</a>
			</body></html>`)
		case "/guide/intro":
			fmt.Fprint(w, `<html><body><main><p>Hello</p></main></body></html>`)
		default:
			http.NotFound(w, r)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newService(t *testing.T, base string, opts ...Option) *Service {
	t.Helper()
	doc := fmt.Sprintf(`{"sites": {
		"docs-a": {
			"name": "Docs A",
			"baseUrl": %q,
			"mode": "fetch",
			"extractor": "default",
			"links": {"startUrls": [""], "pattern": "/guide", "maxDepth": 1},
			"content": {"selector": "main", "method": "markup"}
		},
		"links-only": {
			"name": "Links Only",
			"baseUrl": %q,
			"mode": "fetch",
			"extractor": "default",
			"links": {"pattern": "/guide"}
		},
		"content-only": {
			"name": "Content Only",
			"baseUrl": %q,
			"mode": "fetch",
			"extractor": "default",
			"content": {"selector": "main"}
		},
		"mystery": {
			"name": "Mystery",
			"baseUrl": %q,
			"mode": "fetch",
			"extractor": "nonexistent",
			"links": {}
		},
		"spa": {
			"name": "SPA",
			"baseUrl": "https://spa.test",
			"mode": "render",
			"extractor": "modal",
			"links": {"waitFor": "#nav"},
			"content": {"method": "copy-action"}
		}
	}}`, base, base, base, base)

	store := site.BytesStore([]byte(doc), site.FormatJSON)
	return New(append([]Option{WithStore(store), WithRenderer(browsertest.NewRenderer())}, opts...)...)
}

// --- Operation Tests ---

func TestListSites(t *testing.T) {
	s := newService(t, "https://docs-a.test")
	assert.Equal(t, []string{"content-only", "docs-a", "links-only", "mystery", "spa"}, s.ListSites())
}

func TestListSites_Embedded(t *testing.T) {
	s := New()
	defer s.Close()
	assert.Contains(t, s.ListSites(), "terraform-aws")
}

func TestDescribeSite(t *testing.T) {
	s := newService(t, "https://docs-a.test")

	cfg, err := s.DescribeSite("docs-a")
	require.NoError(t, err)
	assert.Equal(t, "Docs A", cfg.Name)
	assert.Equal(t, site.ModeFetch, cfg.Mode)
	require.NotNil(t, cfg.Links)
	assert.Equal(t, 1, cfg.Links.MaxDepth)

	_, err = s.DescribeSite("nope")
	assert.ErrorIs(t, err, site.ErrConfigNotFound)
}

func TestDiscoverLinks(t *testing.T) {
	srv := docsServer(t)
	s := newService(t, srv.URL)

	res := s.DiscoverLinks(context.Background(), "docs-a")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "docs-a", res.Site)
	assert.Equal(t, OperationLinks, res.Operation)
	assert.Equal(t, []string{srv.URL + "/guide/intro"}, res.Data)
	assert.Empty(t, res.Error)
}

func TestExtractContent(t *testing.T) {
	srv := docsServer(t)
	s := newService(t, srv.URL)

	res := s.ExtractContent(context.Background(), "docs-a", "/guide/intro")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, OperationContent, res.Operation)
	assert.Equal(t, []string{"<p>Hello</p>"}, res.Data)
}

func TestExtractContent_NoMatch(t *testing.T) {
	srv := docsServer(t)
	s := newService(t, srv.URL)

	res := s.ExtractContent(context.Background(), "docs-a", "")
	require.True(t, res.Success, res.Error)
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
}

// --- Failure Tests ---

func TestFailures(t *testing.T) {
	srv := docsServer(t)
	s := newService(t, srv.URL)
	ctx := context.Background()

	tests := []struct {
		name    string
		run     func() Result
		wantErr string
	}{
		{"unknown site links", func() Result { return s.DiscoverLinks(ctx, "nope") }, "available: content-only, docs-a"},
		{"unknown site content", func() Result { return s.ExtractContent(ctx, "nope", "") }, "unknown site: nope"},
		{"no links section", func() Result { return s.DiscoverLinks(ctx, "content-only") }, site.ErrMissingLinks.Error()},
		{"no content section", func() Result { return s.ExtractContent(ctx, "links-only", "") }, site.ErrMissingContent.Error()},
		{"unknown extractor", func() Result { return s.DiscoverLinks(ctx, "mystery") }, "unknown extractor: nonexistent"},
		{"page not found", func() Result { return s.ExtractContent(ctx, "docs-a", "/missing") }, "404"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := tt.run()
			assert.False(t, res.Success)
			assert.Contains(t, res.Error, tt.wantErr)
			assert.NotNil(t, res.Data)
			assert.Empty(t, res.Data)
		})
	}
}

func TestFailures_RenderOpen(t *testing.T) {
	s := newService(t, "https://docs-a.test")
	res := s.ExtractContent(context.Background(), "spa", "/intro")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "https://spa.test/intro")
}

// --- Render Mode Tests ---

func TestRenderSite(t *testing.T) {
	page := &browsertest.Page{
		PageURL:   "https://spa.test",
		Links:     []string{"https://spa.test/guide", "https://spa.test/"},
		Clipboard: "# Modal docs",
	}
	s := newService(t, "https://docs-a.test", WithRenderer(browsertest.NewRenderer(page)))

	links := s.DiscoverLinks(context.Background(), "spa")
	require.True(t, links.Success, links.Error)
	assert.Equal(t, []string{"https://spa.test", "https://spa.test/guide"}, links.Data)

	content := s.ExtractContent(context.Background(), "spa", "")
	require.True(t, content.Success, content.Error)
	assert.Equal(t, []string{"# Modal docs"}, content.Data)
}

func TestWithRegistry(t *testing.T) {
	reg, err := strategy.NewRegistry(strategy.Default())
	require.NoError(t, err)
	s := newService(t, "https://docs-a.test", WithRegistry(reg))

	res := s.ExtractContent(context.Background(), "spa", "")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown extractor: modal (available: default)")
}

// --- Result Tests ---

func TestResult_MarshalJSON(t *testing.T) {
	ok, err := json.Marshal(Result{Site: "docs-a", Operation: OperationLinks, Success: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"site":"docs-a","operation":"links","success":true,"data":[],"error":null}`, string(ok))

	bad, err := json.Marshal(Result{Site: "x", Operation: OperationContent, Error: "boom"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"site":"x","operation":"content","success":false,"data":[],"error":"boom"}`, string(bad))

	res := Result{Site: "docs-a", Operation: OperationContent, Success: true, Data: []string{"<p>Hi & bye</p>"}}
	markup, err := res.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(markup), `"data":["<p>Hi & bye</p>"]`)
	assert.False(t, bytes.HasSuffix(markup, []byte("\n")))

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(res))
	assert.NotContains(t, buf.String(), `\u003c`)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10, cfg.BatchSize)
	assert.NotEmpty(t, cfg.UserAgent)
	assert.Positive(t, cfg.Timeout)
}

func TestPathForLink(t *testing.T) {
	tests := []struct {
		link, base, want string
	}{
		{"https://docs-a.test/guide/intro", "https://docs-a.test", "/guide/intro"},
		{"https://docs-a.test", "https://docs-a.test", ""},
		{"https://docs-a.test/guide/x", "https://docs-a.test/guide", "/x"},
		{"https://docs-a.test/guidex", "https://docs-a.test/guide", "/x"},
		{"https://other.test/a/b", "https://docs-a.test", "/a/b"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PathForLink(tt.link, tt.base), tt.link)
	}
}
