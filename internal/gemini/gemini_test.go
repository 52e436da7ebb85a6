package gemini

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestParseSummary(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     string
	}{
		{"labelled", "SUMMARY: OpenAI shipped agents.", "OpenAI shipped agents."},
		{"continuation", "Sure!\nSUMMARY: OpenAI shipped agents.\nThey run in the browser.", "OpenAI shipped agents. They run in the browser."},
		{"markdown label", "**Summary:** Google released Gemini 3.", "Google released Gemini 3."},
		{"no label", "Meta opened Llama weights.\n", "Meta opened Llama weights."},
	}

	for _, c := range cases {
		got, err := parseSummary(c.response)
		if err != nil {
			t.Errorf("%s: unexpected error %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestParseSummary_Empty(t *testing.T) {
	if _, err := parseSummary("  \n "); err == nil {
		t.Error("expected error for empty answer")
	}
}

func TestParseSummary_Truncates(t *testing.T) {
	got, err := parseSummary("SUMMARY: " + strings.Repeat("ä", 400))
	if err != nil {
		t.Fatal(err)
	}
	if n := utf8.RuneCountInString(got); n != maxSummaryRunes {
		t.Errorf("expected %d runes, got %d", maxSummaryRunes, n)
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize("  a \n\n b\tc "); got != "a b c" {
		t.Errorf("got %q", got)
	}

	long := strings.Repeat("Sentence number one. ", 400)
	got := sanitize(long)
	if !strings.HasSuffix(got, "[TRUNCATED]") {
		t.Error("long content should be marked truncated")
	}
	if utf8.RuneCountInString(got) > maxPromptRunes+len("\n[TRUNCATED]") {
		t.Errorf("sanitized content too long: %d", utf8.RuneCountInString(got))
	}
}
