// Package profile extracts applicant profiles from free-text farmer queries.
package profile

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
)

// Scope is the applicant's scheme scope preference.
type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeStateOnly   Scope = "state_only"
	ScopeCentralOnly Scope = "central_only"
)

// ApplicantProfile holds everything extractable from a farmer's query.
// Nil numeric fields mean the value was not mentioned.
type ApplicantProfile struct {
	State       string
	Crops       []string
	LandAcres   *float64
	FarmerType  string // small, marginal, large
	Age         *int
	Income      *float64 // rupees
	TargetGroup string
	Topic       string // sub-category hint from the keyword map
	Scope       Scope
}

var agePatterns = []*regexp.Regexp{
	regexp.MustCompile(`age\s+(\d+)`),
	regexp.MustCompile(`(\d+)\s+years?\s+old`),
	regexp.MustCompile(`i\s+am\s+(\d+)`),
}

var landPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:acres?|hectares?|bighas?)`),
	regexp.MustCompile(`land.*?(\d+(?:\.\d+)?)`),
}

var incomePatterns = []*regexp.Regexp{
	regexp.MustCompile(`income.*?(\d+(?:\.\d+)?)\s*lakhs?`),
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*lakhs?.*?income`),
}

const lakhRupees = 100000

// topicKeywords maps common query terms to canonical sub-category names.
// Longer keywords are tried first.
var topicKeywords = map[string]string{
	"soil health":   "Soil health",
	"soil":          "Soil health",
	"animal":        "Animal husbandry",
	"husbandry":     "Animal husbandry",
	"dairy":         "Animal husbandry",
	"poultry":       "Animal husbandry",
	"livestock":     "Animal husbandry",
	"financial":     "Financial assistance",
	"loan":          "Financial assistance",
	"subsidy":       "Financial assistance",
	"fishing":       "Fishing and hunting",
	"fisheries":     "Fishing and hunting",
	"seeds":         "Agricultural Inputs- seeds, fertilizer etc.",
	"fertilizer":    "Agricultural Inputs- seeds, fertilizer etc.",
	"fertiliser":    "Agricultural Inputs- seeds, fertilizer etc.",
	"insurance":     "Crop insurance",
	"irrigation":    "Irrigation",
	"organic":       "Organic farming",
	"compost":       "Soil health",
	"vermicompost":  "Soil health",
	"vermi-compost": "Soil health",
}

// Parse extracts an applicant profile from the query text. A non-empty
// stateHint wins over text extraction. The function is side-effect free and
// never consults the corpus.
func Parse(text, stateHint string) ApplicantProfile {
	lower := strings.ToLower(text)

	p := ApplicantProfile{Scope: ScopeAll}

	if stateHint != "" {
		p.State = stateHint
	} else {
		p.State = ExtractState(text)
	}

	p.Crops = extractCrops(lower)
	p.LandAcres = extractLand(lower)
	p.FarmerType = extractFarmerType(lower)
	p.Age = extractAge(lower)
	p.Income = extractIncome(lower)
	p.TargetGroup = extractTargetGroup(lower)
	p.Topic = ExtractTopicHint(lower)
	p.Scope = ExtractScope(lower)

	return p
}

// ExtractState scans the closed state list longest-name-first so that
// compound names win over their substrings.
func ExtractState(text string) string {
	lower := strings.ToLower(text)
	for _, state := range corpus.StateNames() {
		if strings.Contains(lower, strings.ToLower(state)) {
			return state
		}
	}
	return ""
}

// ExtractScope detects a scheme scope preference. Defaults to all.
func ExtractScope(lower string) Scope {
	scope, _ := ExtractScopeExplicit(lower)
	return scope
}

// ExtractScopeExplicit detects a scheme scope preference and reports
// whether the text stated one explicitly. "Both"-style phrasing is an
// explicit choice of all; otherwise a lone central or state keyword
// narrows the scope.
func ExtractScopeExplicit(lower string) (Scope, bool) {
	mentionsCentral := containsAny(lower, []string{
		"central", "union", "pan india", "all states", "india level",
	})
	mentionsStateOnly := containsAny(lower, []string{
		"state only", "only state", "state scheme", "state schemes",
	})
	mentionsBoth := containsAny(lower, []string{
		"both", "state and central", "central and state", "all schemes",
	})

	switch {
	case mentionsBoth:
		return ScopeAll, true
	case mentionsCentral && !mentionsStateOnly:
		return ScopeCentralOnly, true
	case mentionsStateOnly && !mentionsCentral:
		return ScopeStateOnly, true
	default:
		return ScopeAll, false
	}
}

// ExtractTopicHint maps common query terms to a sub-category name using
// the fixed keyword table, longest keyword first.
func ExtractTopicHint(lower string) string {
	keywords := make([]string, 0, len(topicKeywords))
	for k := range topicKeywords {
		keywords = append(keywords, k)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})

	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return topicKeywords[k]
		}
	}
	return ""
}

func extractCrops(lower string) []string {
	var crops []string
	for _, keyword := range corpus.CropVocabulary() {
		if strings.Contains(lower, keyword) {
			crops = append(crops, strings.ToUpper(keyword[:1])+keyword[1:])
		}
	}
	sort.Strings(crops)
	return crops
}

func extractLand(lower string) *float64 {
	for _, re := range landPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return &v
			}
		}
	}
	return nil
}

func extractFarmerType(lower string) string {
	switch {
	case strings.Contains(lower, "small farmer") || strings.Contains(lower, "small and marginal"):
		return "small"
	case strings.Contains(lower, "marginal farmer"):
		return "marginal"
	case strings.Contains(lower, "large farmer"):
		return "large"
	default:
		return ""
	}
}

func extractAge(lower string) *int {
	for _, re := range agePatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return &v
			}
		}
	}
	return nil
}

func extractIncome(lower string) *float64 {
	for _, re := range incomePatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				rupees := v * lakhRupees
				return &rupees
			}
		}
	}
	return nil
}

// extractTargetGroup finds the first matching target group. The short SC
// and ST abbreviations require whole-word matches.
func extractTargetGroup(lower string) string {
	words := make(map[string]bool)
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		words[w] = true
	}

	switch {
	case words["sc"] || strings.Contains(lower, "scheduled caste"):
		return "SC"
	case words["st"] || strings.Contains(lower, "scheduled tribe"):
		return "ST"
	case words["bpl"] || strings.Contains(lower, "below poverty line"):
		return "BPL"
	case strings.Contains(lower, "women") || strings.Contains(lower, "female"):
		return "Women"
	default:
		return ""
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
