package corpus

import "sort"

// indianStates is the closed list of recognized states and union territories.
var indianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
	"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
	"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
	"Delhi", "Jammu and Kashmir", "Ladakh", "Puducherry",
}

// StateNames returns the recognized state names sorted longest-first, so
// that substring scans match "Arunachal Pradesh" before "Pradesh"-bearing
// shorter names.
func StateNames() []string {
	out := make([]string, len(indianStates))
	copy(out, indianStates)
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// cropVocabulary is the fixed crop and farm-activity keyword list used for
// tag extraction. Matching is lower-case substring.
var cropVocabulary = []string{
	"rice", "wheat", "maize", "corn", "sugarcane", "cotton", "jute",
	"pulses", "oilseeds", "soybean", "groundnut", "mustard", "sunflower",
	"tomato", "potato", "onion", "chilli", "vegetables", "fruits",
	"mango", "banana", "apple", "orange", "grapes", "pomegranate",
	"dairy", "milk", "cattle", "buffalo", "goat", "sheep", "poultry",
	"chicken", "fish", "fishing", "aquaculture", "prawn", "shrimp",
	"spices", "turmeric", "ginger", "pepper", "cardamom",
	"tea", "coffee", "rubber", "coconut", "cashew", "arecanut",
}

// CropVocabulary returns the crop keyword list.
func CropVocabulary() []string {
	out := make([]string, len(cropVocabulary))
	copy(out, cropVocabulary)
	return out
}

// targetGroupRule maps an eligibility-text keyword to a canonical target
// group label. Short abbreviations require word-boundary matches so that
// e.g. "scheme" does not register as SC.
type targetGroupRule struct {
	keyword   string
	group     string
	wholeWord bool
}

var targetGroupRules = []targetGroupRule{
	{"scheduled caste", "SC", false},
	{"sc", "SC", true},
	{"scheduled tribe", "ST", false},
	{"st", "ST", true},
	{"below poverty line", "BPL", false},
	{"bpl", "BPL", true},
	{"women", "Women", false},
	{"female", "Women", false},
	{"small farmer", "Small Farmer", false},
	{"marginal farmer", "Marginal Farmer", false},
	{"landless", "Landless", false},
	{"disabled", "PWD", false},
	{"pwd", "PWD", true},
}
