package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// ArticleContent is the readable text of a linked story.
type ArticleContent struct {
	Title   string
	Content string
	URL     string
}

const (
	minParagraphRunes = 20
	maxContentRunes   = 1800
)

// bodySelectors are tried in order until enough paragraphs are found.
var bodySelectors = []string{
	"article p",
	".body.markup p",
	".post-content p",
	".entry-content p",
	".content p",
	"main p",
	"p",
}

// footerPhrases are newsletter chrome that never belongs in a summary.
var footerPhrases = []string{
	"subscribe", "unsubscribe", "sponsored", "advertise with us",
	"view in browser", "share this", "forwarded this email",
}

// ExtractFullArticle fetches url and returns its readable text, used as
// input when a summary has to be written from scratch.
func (f *Fetcher) ExtractFullArticle(ctx context.Context, link string) (*ArticleContent, error) {
	html, err := f.Fetch(ctx, link)
	if err != nil {
		return nil, err
	}

	doc, err := ParseDocument(html)
	if err != nil {
		return nil, err
	}

	content := cleanContent(paragraphs(doc))
	title := ""
	if h1, ok := first(doc, "h1"); ok {
		title = h1.Text()
	}

	if content == "" {
		// fall back to whatever readability considers the main region
		base, _ := url.Parse(link)
		article, rerr := readability.FromReader(strings.NewReader(html), base)
		if rerr == nil {
			content = cleanContent([]string{article.TextContent})
			if title == "" {
				title = article.Title
			}
		}
	}

	if content == "" {
		return nil, fmt.Errorf("can't get content from %s", link)
	}

	return &ArticleContent{
		Title:   title,
		Content: content,
		URL:     link,
	}, nil
}

// paragraphs returns the paragraphs of the first selector that yields at
// least three, else those of the most productive selector.
func paragraphs(doc Node) []string {
	var best []string
	for _, selector := range bodySelectors {
		var found []string
		for _, p := range doc.FindAll(selector) {
			if text := p.Text(); runeLen(text) > minParagraphRunes {
				found = append(found, text)
			}
		}
		if len(found) >= 3 {
			return found
		}
		if len(found) > len(best) {
			best = found
		}
	}
	return best
}

// cleanContent drops chrome lines, collapses whitespace and keeps whole
// paragraphs up to maxContentRunes.
func cleanContent(paras []string) string {
	var kept []string
	total := 0
	for _, p := range paras {
		p = strings.Join(strings.Fields(p), " ")
		if p == "" || isFooter(p) {
			continue
		}
		if total+runeLen(p) > maxContentRunes {
			if len(kept) == 0 {
				kept = append(kept, truncateRunes(p, maxContentRunes))
			}
			break
		}
		kept = append(kept, p)
		total += runeLen(p) + 2
	}
	return strings.TrimSpace(strings.Join(kept, "\n\n"))
}

func isFooter(p string) bool {
	lower := strings.ToLower(p)
	for _, phrase := range footerPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
