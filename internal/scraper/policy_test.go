package scraper

import (
	"strings"
	"testing"
)

func TestDeriveTitle(t *testing.T) {
	long := strings.Repeat("a", 200)

	cases := []struct {
		name    string
		anchor  string
		context string
		want    string
		ok      bool
	}{
		{"anchor text", "OpenAI launches a new agent SDK", "ignored", "OpenAI launches a new agent SDK", true},
		{"short anchor uses context", "here", "Google ships Gemini to every phone. More inside", "Google ships Gemini to every phone", true},
		{"context split on bracket", "link", "Meta opens its Llama weights (again) today", "Meta opens its Llama weights", true},
		{"too short", "tiny", "Also tiny.", "", false},
		{"call to action", "Click here to read the full story", "", "", false},
		{"truncated", long, "", strings.Repeat("a", 147) + "...", true},
		{"cleaned", "New GPT Release PLUS: 5 other stories", "", "New GPT Release", true},
	}

	for _, c := range cases {
		got, ok := deriveTitle(c.anchor, c.context)
		if ok != c.ok || got != c.want {
			t.Errorf("%s: deriveTitle = %q (ok=%v), want %q (ok=%v)", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestIsJunkURL(t *testing.T) {
	junk := []string{
		"https://twitter.com/rowancheung",
		"https://www.therundown.ai/subscribe",
		"https://shop.example.com/MERCH",
		"https://discord.gg/invite",
	}
	for _, u := range junk {
		if !isJunkURL(u) {
			t.Errorf("%s should be junk", u)
		}
	}
	if isJunkURL("https://openai.com/blog/agents") {
		t.Error("article link flagged as junk")
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo wörld", 5); got != "héllo" {
		t.Errorf("got %q", got)
	}
	if got := truncateRunes("abc", 10); got != "abc" {
		t.Errorf("got %q", got)
	}
	if got := truncateRunes("abc", 0); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestIsPlaceholderSummary(t *testing.T) {
	cases := map[string]bool{
		"":                        true,
		"  ":                      true,
		rundownLeadSummary:        true,
		bitesLeadSummary:          true,
		"OpenAI shipped a model.": false,
	}
	for in, want := range cases {
		if got := IsPlaceholderSummary(in); got != want {
			t.Errorf("IsPlaceholderSummary(%q) = %v, want %v", in, got, want)
		}
	}
}
