package pipeline

import (
	"strings"

	"github.com/leadscope-jp/shop-resolver/internal/schema"
)

// corporateMarkers is the closed vocabulary of Japanese legal-entity
// forms. A company string containing none of these is treated as a
// personal trade name.
var corporateMarkers = []string{
	"株式会社",
	"合同会社",
	"有限会社",
	"医療法人",
	"社会福祉法人",
	"学校法人",
	"NPO法人",
	"特定非営利活動法人",
}

// IsCorporateName reports whether name contains any legal-entity
// marker. Pure classification; the string is never modified.
func IsCorporateName(name string) bool {
	if name == "" {
		return false
	}
	for _, marker := range corporateMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// CandidateValidator gates stage-1 per-page candidates. Confidence is
// a probability in [0,1]; anything below the threshold is rejected no
// matter how complete the rest of the page judgment looks.
type CandidateValidator struct {
	threshold float64
}

// NewCandidateValidator creates a validator with the given acceptance
// threshold. Non-positive thresholds fall back to the default 0.80.
func NewCandidateValidator(threshold float64) *CandidateValidator {
	if threshold <= 0 {
		threshold = 0.80
	}
	return &CandidateValidator{threshold: threshold}
}

// Accept reports whether a per-page oracle judgment clears the bar: the
// page must be about the target shop, state representative info, name a
// person, and carry confidence at or above the threshold.
func (v *CandidateValidator) Accept(page schema.RepresentativePage) bool {
	if !page.IsMatch || !page.HasRepresentativeInfo {
		return false
	}
	if strings.TrimSpace(page.RepresentativeName) == "" {
		return false
	}
	return page.Confidence >= v.threshold
}
