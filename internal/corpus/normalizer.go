package corpus

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Character budgets for the search text blob. Long descriptions drown out
// the discriminating terms, so each section is clipped before joining.
const (
	fullDescriptionClip = 500
	eligibilityClip     = 300
	benefitsClip        = 200
	maxEligibilityLines = 3
	maxBenefitLines     = 2
)

type ageRule struct {
	re   *regexp.Regexp
	kind string // range, min, max
}

var ageRules = []ageRule{
	{regexp.MustCompile(`between\s+(\d+)\s+and\s+(\d+)\s+years`), "range"},
	{regexp.MustCompile(`(\d+)\s*(?:to|-|–)\s*(\d+)\s*years`), "range"},
	{regexp.MustCompile(`above\s+(\d+)\s+years?`), "min"},
	{regexp.MustCompile(`below\s+(\d+)\s+years?`), "max"},
	{regexp.MustCompile(`minimum\s+age\s+(?:of\s+)?(\d+)`), "min"},
	{regexp.MustCompile(`maximum\s+age\s+(?:of\s+)?(\d+)`), "max"},
}

var (
	landUnqualifiedRules = []*regexp.Regexp{
		regexp.MustCompile(`land.*?(\d+(?:\.\d+)?)\s*(?:acres?|hectares?|bighas?)`),
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:acres?|hectares?|bighas?).*?land`),
	}
	landMinimumRule = regexp.MustCompile(`minimum.*?(\d+(?:\.\d+)?)\s*(?:acres?|hectares?|bighas?)`)
	landMaximumRule = regexp.MustCompile(`maximum.*?(\d+(?:\.\d+)?)\s*(?:acres?|hectares?|bighas?)`)
)

var incomeRules = []*regexp.Regexp{
	regexp.MustCompile(`income.*?(\d+(?:\.\d+)?)\s*(lakhs?|rupees?|rs\.?)`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(lakhs?).*?income`),
	regexp.MustCompile(`not\s+exceed.*?(\d+(?:\.\d+)?)\s*(lakhs?)`),
}

const lakhRupees = 100000

// Normalize enriches a raw scheme record with retrieval and eligibility
// metadata. It is pure and deterministic: the same record always produces
// the same enriched output, and malformed fields degrade to empty defaults.
func Normalize(rec ProgramRecord) EnrichedRecord {
	enriched := EnrichedRecord{
		ProgramRecord:    rec,
		SearchText:       buildSearchText(rec),
		Hints:            extractHints(rec),
		CropTags:         extractCropTags(rec),
		ApplicationLinks: extractLinks(rec),
	}
	return enriched
}

// buildSearchText flattens the record into the blob the index vectorizes.
func buildSearchText(rec ProgramRecord) string {
	var parts []string

	if rec.SchemeName != "" {
		parts = append(parts, rec.SchemeName)
	}
	if rec.BriefDescription != "" {
		parts = append(parts, rec.BriefDescription)
	}
	if rec.FullDescription != "" {
		parts = append(parts, clip(rec.FullDescription, fullDescriptionClip))
	}
	if len(rec.SubCategories) > 0 {
		parts = append(parts, strings.Join(rec.SubCategories, " "))
	}
	if len(rec.Categories) > 0 {
		parts = append(parts, strings.Join(rec.Categories, " "))
	}
	if len(rec.Eligibility) > 0 {
		joined := strings.Join(firstN(rec.Eligibility, maxEligibilityLines), " ")
		parts = append(parts, clip(joined, eligibilityClip))
	}
	if len(rec.Benefits) > 0 {
		joined := strings.Join(firstN(rec.Benefits, maxBenefitLines), " ")
		parts = append(parts, clip(joined, benefitsClip))
	}

	return strings.Join(parts, " ")
}

// extractHints runs the ordered regex rule battery over the lower-cased
// joined eligibility sentences.
func extractHints(rec ProgramRecord) EligibilityHints {
	hints := EligibilityHints{}
	text := strings.ToLower(strings.Join(rec.Eligibility, " "))

	// Age: first matching rule wins.
	for _, rule := range ageRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch rule.kind {
		case "range":
			lo, err1 := strconv.Atoi(m[1])
			hi, err2 := strconv.Atoi(m[2])
			if err1 == nil && err2 == nil {
				hints.AgeMin = &lo
				hints.AgeMax = &hi
			}
		case "min":
			if v, err := strconv.Atoi(m[1]); err == nil {
				hints.AgeMin = &v
			}
		case "max":
			if v, err := strconv.Atoi(m[1]); err == nil {
				hints.AgeMax = &v
			}
		}
		break
	}

	// Land: explicit minimum/maximum qualifiers win over unqualified
	// mentions, which only serve as soft candidates.
	if m := landMinimumRule.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			hints.LandMin = &v
		}
	}
	if m := landMaximumRule.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			hints.LandMax = &v
		}
	}
	if hints.LandMin == nil && hints.LandMax == nil {
		var values []float64
		for _, rule := range landUnqualifiedRules {
			for _, m := range rule.FindAllStringSubmatch(text, -1) {
				if v, err := strconv.ParseFloat(m[1], 64); err == nil {
					values = append(values, v)
				}
			}
		}
		if len(values) > 0 {
			lo, hi := values[0], values[0]
			for _, v := range values[1:] {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			hints.LandMin = &lo
			hints.LandMax = &hi
		}
	}

	// Income ceiling: first matching rule wins; "lakh" multiplies.
	for _, rule := range incomeRules {
		m := rule.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			if strings.Contains(m[0], "lakh") {
				v *= lakhRupees
			}
			hints.IncomeMax = &v
		}
		break
	}

	hints.TargetGroups = extractTargetGroups(text)

	if rec.State != "" {
		hints.States = []string{rec.State}
	} else {
		hints.States = []string{"Central"}
	}

	return hints
}

// extractTargetGroups matches the fixed target-group vocabulary against
// the eligibility text. Short abbreviations must match a whole word.
func extractTargetGroups(text string) []string {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(text, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		words[w] = true
	}

	var groups []string
	seen := make(map[string]bool)
	for _, rule := range targetGroupRules {
		var matched bool
		if rule.wholeWord {
			matched = words[rule.keyword]
		} else {
			matched = strings.Contains(text, rule.keyword)
		}
		if matched && !seen[rule.group] {
			seen[rule.group] = true
			groups = append(groups, rule.group)
		}
	}
	return groups
}

// extractCropTags substring-matches the crop vocabulary against the scheme
// text and returns title-cased, deduplicated, sorted tags.
func extractCropTags(rec ProgramRecord) []string {
	var b strings.Builder
	b.WriteString(strings.ToLower(rec.BriefDescription))
	b.WriteString(" ")
	b.WriteString(strings.ToLower(rec.FullDescription))
	b.WriteString(" ")
	b.WriteString(strings.ToLower(strings.Join(rec.Eligibility, " ")))
	text := b.String()

	seen := make(map[string]bool)
	var tags []string
	for _, keyword := range cropVocabulary {
		if strings.Contains(text, keyword) && !seen[keyword] {
			seen[keyword] = true
			tags = append(tags, titleCase(keyword))
		}
	}
	sort.Strings(tags)
	return tags
}

func extractLinks(rec ProgramRecord) []Link {
	var links []Link
	for _, ref := range rec.References {
		if ref.URL == "" {
			continue
		}
		title := ref.Title
		if title == "" {
			title = "Application Link"
		}
		links = append(links, Link{Title: title, URL: ref.URL})
	}
	return links
}

// clip cuts s to at most n bytes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
