package dialog

import (
	"unicode/utf8"

	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/eligibility"
)

// Display budgets for scheme summaries.
const (
	briefDescriptionChars = 300
	criterionChars        = 200
	maxEligibilityItems   = 3
	maxBenefitItems       = 2
)

// SchemeSummary is a scheme prepared for presentation: truncated text,
// resolved scheme type and the eligibility verdict.
type SchemeSummary struct {
	SchemeName         string             `json:"scheme_name"`
	ShortName          string             `json:"short_name,omitempty"`
	State              string             `json:"state"`
	SchemeType         string             `json:"scheme_type"`
	SchemeFor          string             `json:"scheme_for,omitempty"`
	Categories         []string           `json:"category,omitempty"`
	SubCategories      []string           `json:"sub_category,omitempty"`
	BriefDescription   string             `json:"brief_description,omitempty"`
	Eligibility        []string           `json:"eligibility,omitempty"`
	EligibilitySummary string             `json:"eligibility_summary,omitempty"`
	Benefits           []string           `json:"benefits,omitempty"`
	References         []corpus.Link      `json:"references,omitempty"`
	Score              float64            `json:"score"`
	EligibilityStatus  eligibility.Status `json:"eligibility_status"`
	EligibilityReasons []string           `json:"eligibility_reasons,omitempty"`
}

// buildSummary converts an enriched record plus its assessment into a
// presentation summary.
func buildSummary(rec corpus.EnrichedRecord, score float64, a eligibility.Assessment) SchemeSummary {
	stateDisplay := rec.State
	if rec.IsCentral() {
		stateDisplay = "Central"
	}

	summary := SchemeSummary{
		SchemeName:         rec.SchemeName,
		ShortName:          rec.ShortName,
		State:              stateDisplay,
		SchemeType:         rec.SchemeType(),
		SchemeFor:          rec.SchemeFor,
		Categories:         rec.Categories,
		SubCategories:      rec.SubCategories,
		BriefDescription:   truncate(rec.BriefDescription, briefDescriptionChars),
		Eligibility:        truncateList(rec.Eligibility, maxEligibilityItems, criterionChars),
		Benefits:           truncateList(rec.Benefits, maxBenefitItems, criterionChars),
		References:         rec.ApplicationLinks,
		Score:              score,
		EligibilityStatus:  a.Status,
		EligibilityReasons: a.Reasons,
	}

	if len(rec.Eligibility) > 0 {
		summary.EligibilitySummary = truncate(rec.Eligibility[0], criterionChars)
	}
	return summary
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func truncateList(items []string, maxItems, maxChars int) []string {
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, truncate(item, maxChars))
	}
	return out
}
