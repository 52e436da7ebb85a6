package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/deusflow/ainews/internal/logger"
)

const (
	model           = "gemini-1.5-flash"
	maxPromptRunes  = 6000
	maxSummaryRunes = 300
)

type Client struct {
	client *genai.Client
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Summarize writes a short neutral summary of a story from its text.
func (c *Client) Summarize(ctx context.Context, title, content string) (string, error) {
	prompt := fmt.Sprintf(`
Summarize this AI news story for a news dashboard.

STORY:
Title: %s
Content: %s

REQUIREMENTS:

One or two plain sentences, at most 300 characters.

Keep product and company names as written.

No introductions like "This article is about".

Answer strictly in this format:

SUMMARY: <summary>
`, title, sanitize(content))

	resp, err := c.client.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	response := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return parseSummary(response)
}

// sanitize collapses whitespace and caps the prompt, preferring to end on
// a sentence boundary.
func sanitize(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= maxPromptRunes {
		return content
	}

	runes := []rune(content)
	trimmed := string(runes[:maxPromptRunes])
	if idx := strings.LastIndex(trimmed, ". "); idx > 1200 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed + "\n[TRUNCATED]"
}

var summaryLabel = regexp.MustCompile(`(?i)^\**\s*summary\s*\**\s*:\s*\**\s*`)

// parseSummary reads the SUMMARY block, joining continuation lines. When
// the label is missing the whole answer is used.
func parseSummary(response string) (string, error) {
	var b strings.Builder
	inSummary := false
	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if summaryLabel.MatchString(line) {
			inSummary = true
			line = strings.TrimSpace(summaryLabel.ReplaceAllString(line, ""))
		} else if !inSummary {
			continue
		}
		if line == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(line)
	}

	summary := b.String()
	if summary == "" {
		logger.Warn("gemini answer without SUMMARY label, using it as is")
		summary = strings.Join(strings.Fields(response), " ")
	}
	if summary == "" {
		return "", fmt.Errorf("could not parse Gemini response: empty summary")
	}

	if utf8.RuneCountInString(summary) > maxSummaryRunes {
		summary = string([]rune(summary)[:maxSummaryRunes-3]) + "..."
	}
	return summary, nil
}
