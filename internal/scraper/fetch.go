package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/deusflow/ainews/internal/cache"
	"github.com/deusflow/ainews/internal/logger"
)

const (
	DefaultTimeout   = 8 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// maxPageBytes bounds a single page read.
	maxPageBytes = 8 << 20
)

// Fetcher downloads pages as UTF-8 text. Every request carries the
// browser User-Agent and is bounded by the client timeout.
type Fetcher struct {
	client    *http.Client
	userAgent string

	pages    *cache.Cache
	pagesTTL time.Duration
}

// NewFetcher builds a Fetcher. A zero timeout means DefaultTimeout and an
// empty userAgent means DefaultUserAgent.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// WithPageCache makes FetchCached reuse bodies for ttl. Archive pages are
// never cached; edition pages do not change once published.
func (f *Fetcher) WithPageCache(c *cache.Cache, ttl time.Duration) *Fetcher {
	f.pages = c
	f.pagesTTL = ttl
	return f
}

// Fetch GETs url and returns the decoded body. Non-200 answers are errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type")); err == nil {
		body = utf8Reader
	}

	data, err := io.ReadAll(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("error reading page: %w", err)
	}
	return string(data), nil
}

// FetchCached is Fetch behind the optional page cache.
func (f *Fetcher) FetchCached(ctx context.Context, url string) (string, error) {
	if f.pages == nil || f.pagesTTL <= 0 {
		return f.Fetch(ctx, url)
	}

	key := f.pages.GenerateKey("page", url)
	if v, ok := f.pages.Get(key); ok {
		logger.Debug("page cache hit", "url", url)
		return v, nil
	}

	html, err := f.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	f.pages.Set(key, html, f.pagesTTL)
	return html, nil
}

// Probe checks that url answers 200. Used by the connectivity check.
func (f *Fetcher) Probe(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageBytes))

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
