package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/deusflow/ainews/internal/news"
)

// Story is one raw item found on an edition page.
type Story struct {
	Title    string
	URL      string
	Summary  string
	Category string
}

// Extractor turns one edition page into stories. It never fetches.
type Extractor interface {
	Extract(editionURL, html string) []Story
}

const (
	shortAnchorRunes = 10
	maxTitleRunes    = 150
	minTitleRunes    = 15
)

// junkURLParts marks links that are never stories.
var junkURLParts = []string{
	"twitter.com", "linkedin.com", "subscribe", "archive", "buy", "merch",
	"discord", "substack.com", "facebook.com", "instagram.com",
}

// callToAction marks titles that are navigation, not news.
var callToAction = []string{
	"read on", "click here", "check out", "follow us", "last issue", "download",
}

var sentenceBreak = regexp.MustCompile(`[.!?\n\[()]`)

func isJunkURL(link string) bool {
	lower := strings.ToLower(link)
	for _, j := range junkURLParts {
		if strings.Contains(lower, j) {
			return true
		}
	}
	return false
}

func isCallToAction(title string) bool {
	lower := strings.ToLower(title)
	for _, c := range callToAction {
		if strings.Contains(lower, c) {
			return true
		}
	}
	return false
}

// deriveTitle prefers the anchor text and falls back to the first
// sentence-like fragment of the surrounding text. ok is false when the
// result is too short or reads like a call to action.
func deriveTitle(anchorText, context string) (string, bool) {
	title := strings.TrimSpace(anchorText)
	if runeLen(title) < shortAnchorRunes {
		title = strings.TrimSpace(sentenceBreak.Split(context, 2)[0])
	}
	if runeLen(title) > maxTitleRunes {
		title = truncateRunes(title, maxTitleRunes-3) + "..."
	}
	if runeLen(title) < minTitleRunes {
		return "", false
	}
	if isCallToAction(title) {
		return "", false
	}
	return news.CleanHeadline(title), true
}

// leadStory is the edition's own headline. It skips every filter.
func leadStory(doc Node, editionURL, fallbackSummary string) (Story, bool) {
	h1, ok := first(doc, "h1")
	if !ok || h1.Text() == "" {
		return Story{}, false
	}
	summary := attrOf(doc, `meta[property="og:description"]`, "content")
	if summary == "" {
		summary = fallbackSummary
	}
	return Story{
		Title:    news.CleanHeadline(h1.Text()),
		URL:      news.CanonicalURL(editionURL),
		Summary:  summary,
		Category: news.CategoryNews,
	}, true
}

// IsPlaceholderSummary reports whether summary is empty or one of the
// stock lines used when a page offers no description of its own.
func IsPlaceholderSummary(summary string) bool {
	switch strings.TrimSpace(summary) {
	case "", rundownLeadSummary, bitesLeadSummary:
		return true
	}
	return false
}

// firstLink is the first descendant anchor with an absolute http(s) href.
func firstLink(n Node) (Node, string, bool) {
	anchors := n.FindAll("a")
	if len(anchors) == 0 {
		return nil, "", false
	}
	a := anchors[0]
	href, _ := a.Attr("href")
	if !strings.HasPrefix(href, "http") {
		return nil, "", false
	}
	return a, href, true
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
