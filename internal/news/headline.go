package news

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	plusTeaser  = regexp.MustCompile(`(?i)PLUS[:\s]`)
	attribution = regexp.MustCompile(`(?s)[A-Z][a-z]+ [A-Z][a-z]+, \+\d+.*$`)
)

// CleanHeadline strips newsletter fluff from a title: "PLUS: ..." teasers,
// "Jane Doe, +4" attributions and dangling separators.
func CleanHeadline(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}

	if loc := plusTeaser.FindStringIndex(title); loc != nil {
		title = title[:loc[0]]
	}
	title = attribution.ReplaceAllString(title, "")

	// strip every trailing separator, not just one, so cleaning is idempotent
	title = strings.TrimRightFunc(title, func(r rune) bool {
		return unicode.IsSpace(r) || r == '|' || r == ':' || r == '-'
	})
	return strings.TrimSpace(title)
}
