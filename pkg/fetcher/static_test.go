package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// --- StaticFetcher Tests ---

func TestNewStatic_Defaults(t *testing.T) {
	f := NewStatic(StaticConfig{})
	if f.config.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", f.config.UserAgent)
	}
	if f.config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", f.config.Timeout)
	}
	if f.Type() != "static" {
		t.Errorf("Type() = %q", f.Type())
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestStaticFetcher_Fetch(t *testing.T) {
	var gotUA, gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		gotHeader = r.Header.Get("X-Test")
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><a href=\"/guide\">guide</a></body></html>")
	}))
	defer srv.Close()

	f := NewStatic(StaticConfig{UserAgent: "docpull-test"})
	content, err := f.Fetch(context.Background(), srv.URL, Options{Headers: map[string]string{"X-Test": "1"}})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if content.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d", content.StatusCode)
	}
	if content.HTML != "<html><body><a href=\"/guide\">guide</a></body></html>" {
		t.Errorf("HTML = %q", content.HTML)
	}
	if gotUA != "docpull-test" {
		t.Errorf("server saw UA %q", gotUA)
	}
	if gotHeader != "1" {
		t.Errorf("server saw X-Test %q", gotHeader)
	}
}

func TestStaticFetcher_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "moved")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	content, err := NewStatic(StaticConfig{}).Fetch(context.Background(), srv.URL+"/old", Options{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if content.HTML != "moved" {
		t.Errorf("HTML = %q, want moved", content.HTML)
	}
}

func TestStaticFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewStatic(StaticConfig{}).Fetch(context.Background(), srv.URL, Options{})
	if !errors.Is(err, ErrHTTPStatus) {
		t.Fatalf("Fetch() error = %v, want ErrHTTPStatus", err)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestStaticFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewStatic(StaticConfig{}).Fetch(context.Background(), srv.URL, Options{Timeout: 50 * time.Millisecond})
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

// --- FetchAll Tests ---

type stubFetcher struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	fail     map[string]bool
}

func (s *stubFetcher) Fetch(_ context.Context, url string, _ Options) (Content, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	if s.fail[url] {
		return Content{}, errors.New("boom")
	}
	return Content{URL: url, HTML: "html:" + url}, nil
}

func (s *stubFetcher) Close() error { return nil }
func (s *stubFetcher) Type() string { return "stub" }

func TestFetchAll(t *testing.T) {
	urls := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		urls = append(urls, fmt.Sprintf("https://x.test/%d", i))
	}
	stub := &stubFetcher{fail: map[string]bool{"https://x.test/3": true}}

	got := FetchAll(context.Background(), stub, urls, Options{}, 3)

	if len(got) != len(urls) {
		t.Fatalf("got %d results, want %d", len(got), len(urls))
	}
	if got["https://x.test/3"] != "" {
		t.Errorf("failed URL should map to empty string, got %q", got["https://x.test/3"])
	}
	if got["https://x.test/0"] != "html:https://x.test/0" {
		t.Errorf("unexpected html %q", got["https://x.test/0"])
	}
	if peak := stub.peak.Load(); peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
}

func TestFetchAll_DefaultConcurrency(t *testing.T) {
	stub := &stubFetcher{}
	got := FetchAll(context.Background(), stub, []string{"https://x.test/a"}, Options{}, 0)
	if got["https://x.test/a"] == "" {
		t.Error("expected content for single URL")
	}
}
