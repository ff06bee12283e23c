package dialog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/eligibility"
)

func TestBuildSummary_Truncation(t *testing.T) {
	rec := corpus.Normalize(corpus.ProgramRecord{
		SchemeName:       "Verbose Scheme",
		State:            "Goa",
		BriefDescription: strings.Repeat("x", 400),
		Eligibility: []string{
			strings.Repeat("a", 250),
			"second criterion",
			"third criterion",
			"fourth criterion",
		},
		Benefits: []string{"benefit one", "benefit two", "benefit three"},
	})

	s := buildSummary(rec, 0.5, eligibility.Assessment{Status: eligibility.StatusUnclear})

	assert.Len(t, s.BriefDescription, 300)
	require.Len(t, s.Eligibility, 3)
	assert.Len(t, s.Eligibility[0], 200)
	assert.Equal(t, "third criterion", s.Eligibility[2])
	assert.Equal(t, []string{"benefit one", "benefit two"}, s.Benefits)
	assert.Len(t, s.EligibilitySummary, 200)
	assert.Equal(t, 0.5, s.Score)
}

func TestBuildSummary_TruncatesOnRuneBoundary(t *testing.T) {
	rec := corpus.Normalize(corpus.ProgramRecord{
		SchemeName:       "Rupee Scheme",
		BriefDescription: strings.Repeat("x", 299) + "₹₹₹",
		Eligibility:      []string{strings.Repeat("y", 199) + "₹₹₹"},
	})

	s := buildSummary(rec, 1.0, eligibility.Assessment{Status: eligibility.StatusUnclear})
	assert.True(t, utf8.ValidString(s.BriefDescription))
	assert.Len(t, s.BriefDescription, 299)
	assert.True(t, utf8.ValidString(s.EligibilitySummary))
	assert.Len(t, s.EligibilitySummary, 199)
}

func TestBuildSummary_CentralStateDisplay(t *testing.T) {
	rec := corpus.Normalize(corpus.ProgramRecord{SchemeName: "National Aid"})

	s := buildSummary(rec, 1.0, eligibility.Assessment{Status: eligibility.StatusLikely})
	assert.Equal(t, "Central", s.State)
	assert.Equal(t, "Central", s.SchemeType)
}

func TestBuildSummary_StateScheme(t *testing.T) {
	rec := corpus.Normalize(corpus.ProgramRecord{
		SchemeName: "Goa Aid",
		State:      "Goa",
		References: []corpus.Link{{Title: "Apply", URL: "https://example.in"}},
	})

	s := buildSummary(rec, 1.0, eligibility.Assessment{
		Status:  eligibility.StatusLikely,
		Reasons: []string{"State Goa matches"},
	})
	assert.Equal(t, "Goa", s.State)
	assert.Equal(t, "State", s.SchemeType)
	assert.Equal(t, eligibility.StatusLikely, s.EligibilityStatus)
	assert.Equal(t, []string{"State Goa matches"}, s.EligibilityReasons)
	require.Len(t, s.References, 1)
	assert.Equal(t, "Apply", s.References[0].Title)
}
