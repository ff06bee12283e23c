package dialog

import (
	"regexp"
	"strconv"
	"strings"
)

// Numeric selections are only honored between 1 and 100.
const (
	minSelection = 1
	maxSelection = 100
)

// agePhrasePatterns disqualify a number from being read as a list
// selection. "I am 45 years old" must never pick item 45.
var agePhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d+\s+years?\s+old`),
	regexp.MustCompile(`\bage\s+\d+`),
	regexp.MustCompile(`\b\d+\s+years?\s+of\s+age`),
	regexp.MustCompile(`\b\d+\s+years?\s+aged`),
}

// numberPattern is one way a user can phrase a numeric selection. Patterns
// with two groups carry the number in the second.
type numberPattern struct {
	re    *regexp.Regexp
	group int
}

var numberPatterns = []numberPattern{
	{regexp.MustCompile(`\b(?:govt|government|gov)\s+scheme\s+(\d+)`), 1},
	{regexp.MustCompile(`\bscheme\s+(\d+)`), 1},
	{regexp.MustCompile(`\bnumber\s+(\d+)`), 1},
	{regexp.MustCompile(`\boption\s+(\d+)`), 1},
	{regexp.MustCompile(`\bcategory\s+(\d+)`), 1},
	{regexp.MustCompile(`\bsubcategory\s+(\d+)`), 1},
	{regexp.MustCompile(`\bsub-category\s+(\d+)`), 1},
	{regexp.MustCompile(`\b(\d+)\s+(?:central|state|union)\s+scheme`), 1},
	{regexp.MustCompile(`\b(\d+)\s+scheme`), 1},
	{regexp.MustCompile(`\b(\d+)\s+category`), 1},
	{regexp.MustCompile(`\bneed\s+(\d+)`), 1},
	{regexp.MustCompile(`\bwant\s+(\d+)`), 1},
	{regexp.MustCompile(`\bselect\s+(\d+)`), 1},
	{regexp.MustCompile(`\bchoose\s+(\d+)`), 1},
	{regexp.MustCompile(`^(\d+)$`), 1},
}

// parseSelection extracts a numeric list selection from lower-cased turn
// text. Age phrases are excluded before any number pattern is tried.
func parseSelection(lower string) (int, bool) {
	for _, re := range agePhrasePatterns {
		if re.MatchString(lower) {
			return 0, false
		}
	}

	trimmed := strings.TrimSpace(lower)
	for _, p := range numberPatterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[p.group])
		if err != nil {
			continue
		}
		if n >= minSelection && n <= maxSelection {
			return n, true
		}
	}
	return 0, false
}

// listRequestKeywords mark an explicit ask for the topic list, which
// overrides the contextual-signal bypass.
var listRequestKeywords = []string{
	"list of", "show categories", "what categories", "available categories",
	"sub-categories", "subcategories", "all categories", "options",
}

func asksForTopicList(lower string) bool {
	for _, k := range listRequestKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// eligibilityAskKeywords trigger eligibility question generation.
var eligibilityAskKeywords = []string{
	"eligibility", "qualify", "eligible", "questions",
}

func asksAboutEligibility(lower string) bool {
	for _, k := range eligibilityAskKeywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
