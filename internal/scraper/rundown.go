package scraper

import (
	"strings"

	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/news"
)

const (
	rundownMinText     = 25
	rundownSummaryLen  = 300
	rundownLeadSummary = "Main feature news from The Rundown AI."
)

// Rundown extracts every linked story from a The Rundown AI edition.
type Rundown struct{}

func (Rundown) Extract(editionURL, html string) []Story {
	doc, err := ParseDocument(html)
	if err != nil {
		logger.Warn("rundown edition unparseable", "url", editionURL, "error", err)
		return nil
	}

	var stories []Story
	if lead, ok := leadStory(doc, editionURL, rundownLeadSummary); ok {
		stories = append(stories, lead)
	}

	for _, el := range doc.FindAll("p, h4, li, h2") {
		text := el.Text()
		if runeLen(text) <= rundownMinText {
			continue
		}
		anchor, href, ok := firstLink(el)
		if !ok || isJunkURL(href) {
			continue
		}
		// links back into the newsletter are only stories when they are editions
		if strings.Contains(href, "rundown.ai") && !strings.Contains(href, "/p/") {
			continue
		}

		title, ok := deriveTitle(anchor.Text(), text)
		if !ok {
			continue
		}

		stories = append(stories, Story{
			Title:    title,
			URL:      news.CanonicalURL(href),
			Summary:  truncateRunes(text, rundownSummaryLen),
			Category: rundownCategory(el, text),
		})
	}
	return stories
}

// rundownCategory reads the heading above the enclosing section, then lets
// the story's own text promote it to Tools.
func rundownCategory(el Node, text string) string {
	heading := ""
	if section, ok := el.Closest("div"); ok {
		if hs := section.PrevAll("h3, h2"); len(hs) > 0 {
			heading = hs[0].Text()
		}
	}
	category := news.Categorize(heading, news.SectionRules, news.CategoryNews)
	if strings.Contains(strings.ToUpper(text), "TOOL") {
		category = news.CategoryTools
	}
	return category
}
