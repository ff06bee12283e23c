package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/profile"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func strictScheme() corpus.EnrichedRecord {
	return corpus.Normalize(corpus.ProgramRecord{
		SchemeName: "Kisan Support",
		State:      "Goa",
		Eligibility: []string{
			"Must be 18-60 years old.",
			"Minimum land of 1 acre required.",
			"Annual income must not exceed 2 lakh.",
		},
	})
}

func TestAssess_Likely(t *testing.T) {
	p := profile.ApplicantProfile{
		State:     "Goa",
		Age:       intPtr(45),
		LandAcres: floatPtr(2),
		Income:    floatPtr(150000),
	}

	a := Assess(p, strictScheme())
	assert.Equal(t, StatusLikely, a.Status)
	assert.Contains(t, a.Reasons, "Age 45 meets requirements")
	assert.Contains(t, a.Reasons, "Land size 2 acres meets requirements")
	assert.Contains(t, a.Reasons, "Income within acceptable range")
	assert.Contains(t, a.Reasons, "State Goa matches")
}

func TestAssess_AgeViolationShortCircuits(t *testing.T) {
	p := profile.ApplicantProfile{
		State:     "Goa",
		Age:       intPtr(70),
		LandAcres: floatPtr(2),
	}

	a := Assess(p, strictScheme())
	assert.Equal(t, StatusUnlikely, a.Status)
	require.Len(t, a.Reasons, 1)
	assert.Equal(t, "Age 70 is above maximum 60", a.Reasons[0])
}

func TestAssess_LandBelowMinimum(t *testing.T) {
	p := profile.ApplicantProfile{
		State:     "Goa",
		Age:       intPtr(45),
		LandAcres: floatPtr(0.5),
	}

	a := Assess(p, strictScheme())
	assert.Equal(t, StatusUnlikely, a.Status)
	assert.Contains(t, a.Reasons, "Land size 0.5 acres is below minimum 1")
}

func TestAssess_IncomeOverCeiling(t *testing.T) {
	p := profile.ApplicantProfile{
		State:     "Goa",
		Age:       intPtr(45),
		LandAcres: floatPtr(2),
		Income:    floatPtr(500000),
	}

	a := Assess(p, strictScheme())
	assert.Equal(t, StatusUnlikely, a.Status)
	assert.Contains(t, a.Reasons, "Income exceeds maximum limit")
}

func TestAssess_PartialProfileIsPossible(t *testing.T) {
	// Age, land, income and state apply; only age and state match.
	p := profile.ApplicantProfile{
		State: "Goa",
		Age:   intPtr(45),
	}

	a := Assess(p, strictScheme())
	assert.Equal(t, StatusPossible, a.Status)
	assert.Contains(t, a.Reasons, "Age 45 meets requirements")
}

func TestAssess_NoProfileDataIsUnclear(t *testing.T) {
	a := Assess(profile.ApplicantProfile{}, strictScheme())
	// Four dimensions apply and none can match without profile data.
	assert.Equal(t, StatusUnlikely, a.Status)
	assert.Contains(t, a.Reasons, "Age information not provided")
	assert.Contains(t, a.Reasons, "State not specified")
}

func TestAssess_CentralSchemeMatchesAnyState(t *testing.T) {
	rec := corpus.Normalize(corpus.ProgramRecord{SchemeName: "National Aid"})

	a := Assess(profile.ApplicantProfile{State: "Goa"}, rec)
	assert.Equal(t, StatusLikely, a.Status)
	assert.Contains(t, a.Reasons, "Central scheme - applies to all states")
}

func TestAssess_TargetGroupMatch(t *testing.T) {
	rec := corpus.Normalize(corpus.ProgramRecord{
		SchemeName:  "SC Farmer Support",
		Eligibility: []string{"Applicable to SC farmers only."},
	})

	a := Assess(profile.ApplicantProfile{TargetGroup: "sc"}, rec)
	assert.Equal(t, StatusLikely, a.Status)
	assert.Contains(t, a.Reasons, "Target group sc matches")
}

func TestAssess_NoCriteriaIsUnclear(t *testing.T) {
	rec := corpus.EnrichedRecord{}

	a := Assess(profile.ApplicantProfile{Age: intPtr(45)}, rec)
	assert.Equal(t, StatusUnclear, a.Status)
	assert.Equal(t, []string{"No eligibility criteria available"}, a.Reasons)
}
