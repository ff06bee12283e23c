// Package eligibility assesses an applicant profile against the structured
// criteria extracted from a scheme.
package eligibility

import (
	"fmt"
	"strings"

	"github.com/agrimitra-ai/scheme-engine/internal/corpus"
	"github.com/agrimitra-ai/scheme-engine/internal/profile"
)

// Status is the outcome of an eligibility assessment.
type Status string

const (
	StatusLikely   Status = "likely"
	StatusPossible Status = "possible"
	StatusUnclear  Status = "unclear"
	StatusUnlikely Status = "unlikely"
)

// Ratio thresholds over the matched/applicable dimensions.
const (
	likelyThreshold   = 0.8
	possibleThreshold = 0.5
)

// Assessment holds the status and the ordered human-readable reasons
// behind it.
type Assessment struct {
	Status  Status   `json:"status"`
	Reasons []string `json:"reasons"`
}

// Assess checks the applicant against a scheme's eligibility hints. Hard
// numeric violations (age, land, income) short-circuit to unlikely. Absent
// profile data withholds a match but never disqualifies. Assess never
// fails; schemes without declared criteria come back unclear.
func Assess(p profile.ApplicantProfile, rec corpus.EnrichedRecord) Assessment {
	hints := rec.Hints

	var reasons []string
	matched := 0
	applicable := 0

	// Age.
	if hints.HasAgeBound() {
		applicable++
		if p.Age != nil {
			if hints.AgeMin != nil && *p.Age < *hints.AgeMin {
				reasons = append(reasons, fmt.Sprintf("Age %d is below minimum %d", *p.Age, *hints.AgeMin))
				return Assessment{Status: StatusUnlikely, Reasons: reasons}
			}
			if hints.AgeMax != nil && *p.Age > *hints.AgeMax {
				reasons = append(reasons, fmt.Sprintf("Age %d is above maximum %d", *p.Age, *hints.AgeMax))
				return Assessment{Status: StatusUnlikely, Reasons: reasons}
			}
			matched++
			reasons = append(reasons, fmt.Sprintf("Age %d meets requirements", *p.Age))
		} else {
			reasons = append(reasons, "Age information not provided")
		}
	}

	// Land size.
	if hints.HasLandBound() {
		applicable++
		if p.LandAcres != nil {
			if hints.LandMin != nil && *p.LandAcres < *hints.LandMin {
				reasons = append(reasons, fmt.Sprintf("Land size %g acres is below minimum %g", *p.LandAcres, *hints.LandMin))
				return Assessment{Status: StatusUnlikely, Reasons: reasons}
			}
			if hints.LandMax != nil && *p.LandAcres > *hints.LandMax {
				reasons = append(reasons, fmt.Sprintf("Land size %g acres exceeds maximum %g", *p.LandAcres, *hints.LandMax))
				return Assessment{Status: StatusUnlikely, Reasons: reasons}
			}
			matched++
			reasons = append(reasons, fmt.Sprintf("Land size %g acres meets requirements", *p.LandAcres))
		}
	}

	// Income ceiling.
	if hints.IncomeMax != nil {
		applicable++
		if p.Income != nil {
			if *p.Income > *hints.IncomeMax {
				reasons = append(reasons, "Income exceeds maximum limit")
				return Assessment{Status: StatusUnlikely, Reasons: reasons}
			}
			matched++
			reasons = append(reasons, "Income within acceptable range")
		}
	}

	// Target group.
	if len(hints.TargetGroups) > 0 {
		applicable++
		if p.TargetGroup != "" && containsFold(hints.TargetGroups, p.TargetGroup) {
			matched++
			reasons = append(reasons, fmt.Sprintf("Target group %s matches", p.TargetGroup))
		} else if p.TargetGroup == "" {
			reasons = append(reasons, "Target group not specified")
		}
	}

	// State.
	if len(hints.States) > 0 {
		applicable++
		if rec.IsCentral() {
			matched++
			reasons = append(reasons, "Central scheme - applies to all states")
		} else if p.State != "" && strings.EqualFold(p.State, rec.State) {
			matched++
			reasons = append(reasons, fmt.Sprintf("State %s matches", p.State))
		} else if p.State == "" {
			reasons = append(reasons, "State not specified")
		}
	}

	if applicable == 0 {
		return Assessment{
			Status:  StatusUnclear,
			Reasons: []string{"No eligibility criteria available"},
		}
	}

	ratio := float64(matched) / float64(applicable)
	switch {
	case ratio >= likelyThreshold:
		return Assessment{Status: StatusLikely, Reasons: reasons}
	case ratio >= possibleThreshold:
		return Assessment{Status: StatusPossible, Reasons: reasons}
	case ratio > 0:
		return Assessment{Status: StatusUnclear, Reasons: reasons}
	default:
		return Assessment{Status: StatusUnlikely, Reasons: reasons}
	}
}

func containsFold(items []string, target string) bool {
	for _, item := range items {
		if strings.EqualFold(item, target) {
			return true
		}
	}
	return false
}
