package scraper

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/news"
)

const (
	minDescriptionRunes = 30
	maxDescriptionRunes = 200
	boilerplateMarker   = "Subscribe to"
)

var rawDatePublished = regexp.MustCompile(`"datePublished"\s*:\s*"([^"]+)"`)

// Metadata is the best-effort page information used to enrich stories.
type Metadata struct {
	PublishedAt news.Timestamp
	Image       string
	Description string
}

// Fallback is returned when a page cannot be fetched or parsed.
func Fallback() Metadata {
	return Metadata{
		PublishedAt: news.At(news.FarPast),
		Image:       news.PlaceholderImage,
	}
}

// Resolver extracts publish date, hero image and description from pages.
type Resolver struct {
	fetcher *Fetcher
}

func NewResolver(f *Fetcher) *Resolver {
	return &Resolver{fetcher: f}
}

// Resolve fetches pageURL and runs the cascades. It never fails: any
// error yields Fallback.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) Metadata {
	html, err := r.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		logger.Warn("metadata fetch failed", "url", pageURL, "error", err)
		return Fallback()
	}
	return r.FromHTML(pageURL, html)
}

// FromHTML runs the cascades on an already fetched page.
func (r *Resolver) FromHTML(pageURL, html string) Metadata {
	doc, err := ParseDocument(html)
	if err != nil {
		logger.Warn("metadata parse failed", "url", pageURL, "error", err)
		return Fallback()
	}

	return Metadata{
		PublishedAt: news.ParseTimestamp(publishedDate(doc, html)),
		Image:       heroImage(doc, pageURL, html),
		Description: description(doc),
	}
}

// publishedDate returns the raw date string of the first cascade stage
// that yields one, or "" when none does.
func publishedDate(doc Node, html string) string {
	for _, script := range doc.FindAll(`script[type="application/ld+json"]`) {
		if d, ok := DecodeLinkedData(script.Text()).DatePublished(); ok {
			return d
		}
	}

	metaSelectors := [][2]string{
		{`meta[property="article:published_time"]`, "content"},
		{`meta[name="publish-date"]`, "content"},
		{`time[datetime]`, "datetime"},
	}
	for _, sel := range metaSelectors {
		if v := attrOf(doc, sel[0], sel[1]); v != "" {
			return v
		}
	}

	if m := rawDatePublished.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return ""
}

func heroImage(doc Node, pageURL, html string) string {
	candidates := []string{
		attrOf(doc, `meta[property="og:image"]`, "content"),
		attrOf(doc, `meta[name="twitter:image"]`, "content"),
		mainContentImage(doc, pageURL, html),
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if isAbsoluteHTTP(c) {
			return c
		}
		// the first value found decides, as with the meta tags
		break
	}
	return news.PlaceholderImage
}

// mainContentImage is the first img of the article element, or of the
// region readability picks when the page has no article element.
func mainContentImage(doc Node, pageURL, html string) string {
	if _, ok := first(doc, "article"); ok {
		return attrOf(doc, "article img", "src")
	}

	base, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(html), base)
	if err != nil || article.Content == "" {
		return ""
	}
	region, err := ParseDocument(article.Content)
	if err != nil {
		return ""
	}
	return attrOf(region, "img", "src")
}

func description(doc Node) string {
	desc := attrOf(doc, `meta[property="og:description"]`, "content")
	if desc == "" {
		desc = attrOf(doc, `meta[name="description"]`, "content")
	}

	if desc == "" || runeLen(desc) < minDescriptionRunes {
		if p, ok := first(doc, "p"); ok && p.Text() != "" {
			desc = p.Text()
		}
	}

	if strings.Contains(desc, boilerplateMarker) {
		return ""
	}
	return strings.TrimSpace(truncateRunes(desc, maxDescriptionRunes))
}

func isAbsoluteHTTP(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
