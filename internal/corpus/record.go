// Package corpus loads, normalizes and enriches the government scheme corpus.
package corpus

// Link points at an application or reference page for a scheme.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ProgramRecord is a raw scheme record as it appears in the corpus source.
type ProgramRecord struct {
	SchemeName       string   `json:"scheme_name"`
	ShortName        string   `json:"short_name"`
	State            string   `json:"state"` // empty = Central scheme
	SchemeFor        string   `json:"scheme_for"`
	Categories       []string `json:"category"`
	SubCategories    []string `json:"sub_category"`
	BriefDescription string   `json:"brief_description"`
	FullDescription  string   `json:"full_description"`
	Eligibility      []string `json:"eligibility"`
	Benefits         []string `json:"benefits"`
	References       []Link   `json:"references"`
}

// IsCentral reports whether the scheme is a Central (nationwide) scheme.
func (r ProgramRecord) IsCentral() bool {
	return r.State == ""
}

// SchemeType returns "Central" for nationwide schemes, "State" otherwise.
func (r ProgramRecord) SchemeType() string {
	if r.IsCentral() {
		return "Central"
	}
	return "State"
}

// EligibilityHints holds structured criteria extracted from free-text
// eligibility sentences. Nil numeric fields mean the bound is not declared.
type EligibilityHints struct {
	AgeMin       *int
	AgeMax       *int
	LandMin      *float64 // acres
	LandMax      *float64
	IncomeMax    *float64 // rupees
	TargetGroups []string
	States       []string
}

// HasAgeBound reports whether any age bound is declared.
func (h EligibilityHints) HasAgeBound() bool {
	return h.AgeMin != nil || h.AgeMax != nil
}

// HasLandBound reports whether any land-size bound is declared.
func (h EligibilityHints) HasLandBound() bool {
	return h.LandMin != nil || h.LandMax != nil
}

// EnrichedRecord is a ProgramRecord augmented with retrieval and
// eligibility metadata produced by Normalize.
type EnrichedRecord struct {
	ProgramRecord

	// SearchText is the flattened blob the retrieval index vectorizes.
	SearchText string

	// Hints are the structured eligibility criteria.
	Hints EligibilityHints

	// CropTags are crop and activity keywords found in the scheme text,
	// title-cased, deduplicated and sorted.
	CropTags []string

	// ApplicationLinks are the usable reference links (non-empty URL).
	ApplicationLinks []Link
}
