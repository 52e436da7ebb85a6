package scraper

import (
	"testing"

	"github.com/deusflow/ainews/internal/news"
)

const rundownEdition = `<html><head>
<meta property="og:description" content="OpenAI's agents go live, plus more.">
</head><body>
<h1>OpenAI unveils agents PLUS: Google's new model</h1>
<h2>LATEST DEVELOPMENTS</h2>
<div>
  <p><a href="https://openai.com/index/agents?utm_source=rundown">OpenAI launches its agent platform for developers</a> and enterprises around the world.</p>
  <p><a href="https://twitter.com/rowancheung">Rowan on Twitter</a> shares a long thread about everything.</p>
  <p><a href="https://www.therundown.ai/subscribe">Subscribe now</a> to get the newsletter every single day.</p>
  <p><a href="https://www.therundown.ai/about">About The Rundown</a> team and the editorial mission behind it.</p>
  <p>Short para with <a href="https://openai.com/x">link</a></p>
</div>
<h3>TRENDING AI TOOLS</h3>
<div>
  <li><a href="https://tool.example.com/">Notion AI</a>: writes your documents and meeting notes for you.</li>
</div>
<h3>AI &amp; HEALTH</h3>
<div>
  <li><a href="https://health.example.com/study">A new study shows models reading X-rays</a> better than radiologists.</li>
</div>
<h2>Read more</h2>
<div>
  <p><a href="https://www.therundown.ai/p/yesterday-edition">Catch up on yesterday's top AI headlines today</a> in our archive edition.</p>
</div>
</body></html>`

func TestRundown_Extract(t *testing.T) {
	stories := Rundown{}.Extract("https://www.therundown.ai/p/openai-agents?ref=archive", rundownEdition)

	byURL := map[string]Story{}
	for _, s := range stories {
		byURL[s.URL] = s
	}

	lead, ok := byURL["https://www.therundown.ai/p/openai-agents"]
	if !ok {
		t.Fatalf("lead story missing: %+v", stories)
	}
	if lead.Title != "OpenAI unveils agents" || lead.Category != news.CategoryNews {
		t.Errorf("unexpected lead %+v", lead)
	}
	if lead.Summary != "OpenAI's agents go live, plus more." {
		t.Errorf("lead summary = %q", lead.Summary)
	}

	agents, ok := byURL["https://openai.com/index/agents"]
	if !ok {
		t.Fatal("agent story missing or URL not canonical")
	}
	if agents.Title != "OpenAI launches its agent platform for developers" {
		t.Errorf("title = %q", agents.Title)
	}
	if agents.Category != news.CategoryNews {
		t.Errorf("category = %q, want News", agents.Category)
	}

	tool, ok := byURL["https://tool.example.com/"]
	if !ok {
		t.Fatal("tool story missing")
	}
	if tool.Category != news.CategoryTools {
		t.Errorf("tool category = %q", tool.Category)
	}
	// "Notion AI" is too short, the title comes from the surrounding text
	if tool.Title != "Notion AI: writes your documents and meeting notes for you" {
		t.Errorf("tool title = %q", tool.Title)
	}

	if s, ok := byURL["https://health.example.com/study"]; !ok || s.Category != news.CategoryHealth {
		t.Errorf("health story = %+v (ok=%v)", s, ok)
	}

	if _, ok := byURL["https://www.therundown.ai/p/yesterday-edition"]; !ok {
		t.Error("internal edition link should be kept")
	}

	for _, rejected := range []string{
		"https://twitter.com/rowancheung",
		"https://www.therundown.ai/subscribe",
		"https://www.therundown.ai/about",
		"https://openai.com/x",
	} {
		if _, ok := byURL[rejected]; ok {
			t.Errorf("%s should have been rejected", rejected)
		}
	}
}

func TestRundown_LeadOnly(t *testing.T) {
	html := `<html><body><h1>Just a headline</h1><p>nothing to see</p></body></html>`
	stories := Rundown{}.Extract("https://www.therundown.ai/p/x", html)
	if len(stories) != 1 {
		t.Fatalf("expected only the lead story, got %d", len(stories))
	}
	if stories[0].Summary != rundownLeadSummary {
		t.Errorf("lead summary = %q", stories[0].Summary)
	}
}

func TestRundown_Empty(t *testing.T) {
	if got := (Rundown{}).Extract("https://www.therundown.ai/p/x", `<p>nothing</p>`); len(got) != 0 {
		t.Errorf("expected no stories, got %d", len(got))
	}
}
