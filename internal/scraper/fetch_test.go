package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deusflow/ainews/internal/cache"
)

func TestFetcher_Fetch(t *testing.T) {
	var gotUA atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/latin1":
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			w.Write([]byte("<p>caf\xe9</p>"))
		case "/missing":
			http.NotFound(w, r)
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<p>hello</p>"))
		}
	}))
	defer srv.Close()

	f := NewFetcher(2*time.Second, "")

	body, err := f.Fetch(context.Background(), srv.URL+"/ok")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "<p>hello</p>" {
		t.Errorf("body = %q", body)
	}
	if ua, _ := gotUA.Load().(string); ua != DefaultUserAgent {
		t.Errorf("User-Agent = %q", ua)
	}

	body, err = f.Fetch(context.Background(), srv.URL+"/latin1")
	if err != nil {
		t.Fatalf("Fetch latin1: %v", err)
	}
	if !strings.Contains(body, "café") {
		t.Errorf("expected decoded text, got %q", body)
	}

	if _, err := f.Fetch(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("expected error for 404")
	}
}

func TestFetcher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	f := NewFetcher(50*time.Millisecond, "")
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Error("expected timeout error")
	}
}

func TestFetcher_PageCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("<h1>edition</h1>"))
	}))
	defer srv.Close()

	c := cache.New(time.Minute)
	defer c.Close()
	f := NewFetcher(time.Second, "test-agent").WithPageCache(c, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := f.FetchCached(context.Background(), srv.URL+"/p/a"); err != nil {
			t.Fatalf("FetchCached: %v", err)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("expected 1 request, got %d", n)
	}
}

func TestFetcher_Probe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, "")
	if code, err := f.Probe(context.Background(), srv.URL+"/up"); err != nil || code != http.StatusOK {
		t.Errorf("up: code=%d err=%v", code, err)
	}
	if code, err := f.Probe(context.Background(), srv.URL+"/down"); err == nil || code != http.StatusServiceUnavailable {
		t.Errorf("down: code=%d err=%v", code, err)
	}
}

func TestExtractFullArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><h1>Agents ship</h1><article>
<p>OpenAI released an agent platform for developers on Tuesday.</p>
<p>Subscribe to get this in your inbox every morning for free.</p>
<p>The platform bundles tool use, memory and tracing in one SDK.</p>
</article></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(time.Second, "")
	content, err := f.ExtractFullArticle(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("ExtractFullArticle: %v", err)
	}
	if content.Title != "Agents ship" {
		t.Errorf("title = %q", content.Title)
	}
	if strings.Contains(strings.ToLower(content.Content), "subscribe") {
		t.Errorf("footer not removed: %q", content.Content)
	}
	if !strings.Contains(content.Content, "tracing in one SDK") {
		t.Errorf("content missing paragraph: %q", content.Content)
	}
}
