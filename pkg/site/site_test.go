package site

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// --- Enum Tests ---

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"fetch", ModeFetch},
		{"render", ModeRender},
		{"browser", ModeRender},
		{" Browser ", ModeRender},
		{"static", ModeFetch},
		{"crawl", Mode("crawl")},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"copy-action", MethodCopyAction},
		{"click_copy", MethodCopyAction},
		{"text", MethodText},
		{"text_content", MethodText},
		{"markup", MethodMarkup},
		{"inner_html", MethodMarkup},
		{"scrape", Method("scrape")},
	}
	for _, tt := range tests {
		if got := ParseMethod(tt.in); got != tt.want {
			t.Errorf("ParseMethod(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- Parse Tests ---

const docsA = `{
  "sites": {
    "docs-a": {
      "name": "Docs A",
      "baseUrl": "https://docs-a.test",
      "mode": "fetch",
      "extractor": "default",
      "links": {"startUrls": [""], "pattern": "/guide", "maxDepth": 1},
      "content": {"mode": "browser", "selector": "main", "method": "inner_html"}
    },
    "bare": {
      "name": "Bare",
      "baseUrl": "https://bare.test",
      "mode": "browser",
      "extractor": "default"
    }
  }
}`

func TestParse_JSON(t *testing.T) {
	sites, err := Parse([]byte(docsA), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(sites) != 2 {
		t.Fatalf("got %d sites, want 2", len(sites))
	}

	a := sites["docs-a"]
	if a.ID != "docs-a" {
		t.Errorf("ID = %q, want docs-a", a.ID)
	}
	if a.Links == nil || a.Links.MaxDepth != 1 || a.Links.Pattern != "/guide" {
		t.Errorf("Links = %+v", a.Links)
	}
	if a.Content.Method != MethodMarkup {
		t.Errorf("Content.Method = %q, want %q", a.Content.Method, MethodMarkup)
	}
	if a.EffectiveContentMode() != ModeRender {
		t.Errorf("EffectiveContentMode() = %q, want render", a.EffectiveContentMode())
	}

	bare := sites["bare"]
	if bare.Mode != ModeRender {
		t.Errorf("bare.Mode = %q, want render", bare.Mode)
	}
	if bare.Links != nil || bare.Content != nil {
		t.Error("bare site should have no links or content config")
	}
	if bare.EffectiveContentMode() != ModeRender {
		t.Errorf("bare.EffectiveContentMode() = %q", bare.EffectiveContentMode())
	}
}

func TestParse_Defaults(t *testing.T) {
	doc := `{"sites": {"x": {"name": "X", "baseUrl": "https://x.test", "mode": "fetch",
	  "extractor": "default", "links": {}, "content": {}}}}`
	sites, err := Parse([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	x := sites["x"]
	if len(x.Links.StartURLs) != 1 || x.Links.StartURLs[0] != "" {
		t.Errorf("StartURLs = %q, want [\"\"]", x.Links.StartURLs)
	}
	if x.Links.MaxDepth != DefaultMaxDepth {
		t.Errorf("MaxDepth = %d, want %d", x.Links.MaxDepth, DefaultMaxDepth)
	}
	if x.Content.Selector != DefaultSelector || x.Content.Method != DefaultMethod {
		t.Errorf("Content = %+v", x.Content)
	}
	if got := x.Seeds(); len(got) != 1 || got[0] != "https://x.test" {
		t.Errorf("Seeds() = %q", got)
	}
}

func TestParse_YAML(t *testing.T) {
	doc := `
sites:
  y:
    name: Y
    baseUrl: https://y.test
    mode: render
    extractor: terraform
    links:
      waitFor: "#nav"
    content:
      selector: "#main"
      method: text
`
	sites, err := Parse([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	y := sites["y"]
	if y.Links.WaitFor != "#nav" || y.Links.MaxDepth != DefaultMaxDepth {
		t.Errorf("Links = %+v", y.Links)
	}
	if y.Content.Method != MethodText {
		t.Errorf("Content.Method = %q", y.Content.Method)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing name", `{"sites": {"x": {"baseUrl": "https://x.test", "mode": "fetch", "extractor": "default"}}}`},
		{"bad url", `{"sites": {"x": {"name": "X", "baseUrl": "not a url", "mode": "fetch", "extractor": "default"}}}`},
		{"bad mode", `{"sites": {"x": {"name": "X", "baseUrl": "https://x.test", "mode": "crawl", "extractor": "default"}}}`},
		{"negative depth", `{"sites": {"x": {"name": "X", "baseUrl": "https://x.test", "mode": "fetch", "extractor": "default", "links": {"maxDepth": -1}}}}`},
		{"bad method", `{"sites": {"x": {"name": "X", "baseUrl": "https://x.test", "mode": "fetch", "extractor": "default", "content": {"method": "scrape"}}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), FormatJSON)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Parse() error = %v, want *ValidationError", err)
			}
			if verr.ID != "x" {
				t.Errorf("ValidationError.ID = %q, want x", verr.ID)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("{"), FormatJSON); err == nil {
		t.Error("expected error for malformed JSON")
	}
	if _, err := Parse([]byte("x"), Format("toml")); err == nil {
		t.Error("expected error for unsupported format")
	}
}

// --- Store Tests ---

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.json")
	if err := os.WriteFile(path, []byte(docsA), 0o644); err != nil {
		t.Fatal(err)
	}

	sites, err := FileStore{Path: path}.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := sites["docs-a"]; !ok {
		t.Error("docs-a missing from loaded sites")
	}

	if _, err := (FileStore{Path: filepath.Join(dir, "sites.toml")}).Load(); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := (FileStore{Path: filepath.Join(dir, "missing.yaml")}).Load(); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEmbeddedStore(t *testing.T) {
	sites, err := EmbeddedStore().Load()
	if err != nil {
		t.Fatalf("embedded descriptors invalid: %v", err)
	}
	for _, id := range []string{"modal", "convex", "cursor", "claude-code", "unsloth", "terraform-aws"} {
		if _, ok := sites[id]; !ok {
			t.Errorf("embedded site %q missing", id)
		}
	}
	if got := sites["modal"].EffectiveContentMode(); got != ModeRender {
		t.Errorf("modal content mode = %q, want render", got)
	}
}

// --- Resolver Tests ---

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(BytesStore([]byte(docsA), FormatJSON))

	cfg, err := r.Resolve("docs-a")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.BaseURL != "https://docs-a.test" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}

	_, err = r.Resolve("nope")
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("Resolve(nope) error = %v, want ErrConfigNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error is not *NotFoundError: %T", err)
	}
	if strings.Join(nf.Known, ",") != "bare,docs-a" {
		t.Errorf("Known = %v", nf.Known)
	}
	if !strings.Contains(err.Error(), "available: bare, docs-a") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestResolver_RereadsStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.yaml")
	write := func(id string) {
		doc := "sites:\n  " + id + ":\n    name: N\n    baseUrl: https://n.test\n    mode: fetch\n    extractor: default\n"
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	r := NewResolver(FileStore{Path: path})
	write("first")
	if ids := r.IDs(); len(ids) != 1 || ids[0] != "first" {
		t.Fatalf("IDs() = %v", ids)
	}
	write("second")
	if ids := r.IDs(); len(ids) != 1 || ids[0] != "second" {
		t.Fatalf("IDs() after rewrite = %v", ids)
	}
}

func TestResolver_IDsOnFailure(t *testing.T) {
	r := NewResolver(FileStore{Path: filepath.Join(t.TempDir(), "missing.json")})
	ids := r.IDs()
	if ids == nil || len(ids) != 0 {
		t.Errorf("IDs() = %#v, want empty non-nil slice", ids)
	}
}

func TestNewResolver_DefaultsToEmbedded(t *testing.T) {
	ids := NewResolver(nil).IDs()
	if len(ids) == 0 {
		t.Fatal("expected embedded site identifiers")
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("IDs() not sorted: %v", ids)
		}
	}
}
