package news

import "strings"

// CategoryRule maps keywords to a category.
type CategoryRule struct {
	Category string
	Keywords []string
}

// BitesRules is the context table used for Ben's Bites stories.
// Rules are checked in order and a later match overrides an earlier one.
var BitesRules = []CategoryRule{
	{CategoryTools, []string{"TOOL", "DEMO", "GITHUB.COM", ".AI", ".COM", "APP"}},
	{CategoryUpdate, []string{"DEV DISH", "UPDATE"}},
	{CategoryHealth, []string{"HEALTH", "MEDICINE", "DOCTOR"}},
	{CategoryTutorial, []string{"TUTORIAL", "GUIDE", "HOW TO"}},
}

// SectionRules classifies a Rundown section heading. The table is listed
// lowest priority first so that "TOOL" beats "HEALTH" beats "TRAINING".
var SectionRules = []CategoryRule{
	{CategoryTutorial, []string{"TRAINING"}},
	{CategoryHealth, []string{"HEALTH"}},
	{CategoryTools, []string{"TOOL"}},
}

// Categorize walks rules in order and returns the category of the last
// rule with a keyword in text, or fallback when nothing matches.
func Categorize(text string, rules []CategoryRule, fallback string) string {
	category := fallback
	upper := strings.ToUpper(text)
	for _, rule := range rules {
		if containsAny(upper, rule.Keywords) {
			category = rule.Category
		}
	}
	return category
}

// containsAny expects text already upper-cased.
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, strings.ToUpper(k)) {
			return true
		}
	}
	return false
}
