package scraper

import (
	"net/url"
	"strings"

	"github.com/deusflow/ainews/internal/news"
)

// Edition is one issue link found on an archive page.
type Edition struct {
	Title string
	URL   string
}

// EditionLinks lists edition links in archive order. Relative hrefs are
// resolved against baseURL; hrefs containing any exclude substring and
// repeated links are dropped.
func EditionLinks(baseURL, html string, exclude []string) []Edition {
	doc, err := ParseDocument(html)
	if err != nil {
		return nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var editions []Edition
	for _, a := range doc.FindAll(`a[href*="/p/"]`) {
		title := a.Text()
		href, _ := a.Attr("href")
		if title == "" || href == "" || containsAnyOf(href, exclude) {
			continue
		}

		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		link := news.CanonicalURL(base.ResolveReference(ref).String())
		if seen[link] {
			continue
		}
		seen[link] = true
		editions = append(editions, Edition{Title: title, URL: link})
	}
	return editions
}

func containsAnyOf(s string, parts []string) bool {
	for _, p := range parts {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}
