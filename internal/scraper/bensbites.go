package scraper

import (
	"strings"

	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/news"
)

const (
	bitesSectionMinText = 20
	bitesEditorialMin   = 30
	bitesSummaryLen     = 200
	bitesLeadSummary    = "Featured insight from Ben's Bites."
	bitesDomain         = "bensbites.com"
)

// bitesSections introduce the link lists worth scanning.
const bitesSections = `h3:contains("Dev Dish"), h3:contains("Tools and demos")`

// BensBites extracts stories from a Ben's Bites edition: the link list
// under the first curated section, then editorial links in the body.
type BensBites struct{}

func (BensBites) Extract(editionURL, html string) []Story {
	doc, err := ParseDocument(html)
	if err != nil {
		logger.Warn("bens bites edition unparseable", "url", editionURL, "error", err)
		return nil
	}

	var stories []Story
	if lead, ok := leadStory(doc, editionURL, bitesLeadSummary); ok {
		stories = append(stories, lead)
	}

	if list, ok := bitesSectionList(doc); ok {
		for _, el := range list.FindAll("li, p") {
			text := el.Text()
			if runeLen(text) <= bitesSectionMinText {
				continue
			}
			anchor, href, ok := firstLink(el)
			if !ok || !bitesOutbound(href) {
				continue
			}
			title, ok := deriveTitle(anchor.Text(), text)
			if !ok {
				continue
			}
			stories = append(stories, bitesStory(title, href, truncateRunes(text, bitesSummaryLen)))
		}
	}

	for _, a := range doc.FindAll(".body.markup a") {
		text := a.Text()
		href, _ := a.Attr("href")
		if runeLen(text) <= bitesEditorialMin || !strings.HasPrefix(href, "http") || !bitesOutbound(href) {
			continue
		}
		title, ok := deriveTitle(text, text)
		if !ok {
			continue
		}
		stories = append(stories, bitesStory(title, href, bitesLeadSummary))
	}

	return stories
}

// bitesSectionList is the first ul or div following a curated heading.
func bitesSectionList(doc Node) (Node, bool) {
	for _, h := range doc.FindAll(bitesSections) {
		if lists := h.NextAll("ul, div"); len(lists) > 0 {
			return lists[0], true
		}
	}
	return nil, false
}

func bitesOutbound(href string) bool {
	return !strings.Contains(href, bitesDomain) && !isJunkURL(href)
}

func bitesStory(title, href, summary string) Story {
	link := news.CanonicalURL(href)
	context := title + " " + summary + " " + link
	return Story{
		Title:    title,
		URL:      link,
		Summary:  summary,
		Category: news.Categorize(context, news.BitesRules, news.CategoryNews),
	}
}
