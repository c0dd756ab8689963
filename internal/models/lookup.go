package models

// SafetyClassification is the three-tier contract returned by the
// classification service. Any other value is a provider contract
// violation and must surface as MALFORMED_RESPONSE, never a fourth tier.
type SafetyClassification string

const (
	SafetyMoreSafe     SafetyClassification = "More Safe"
	SafetyQuestionable SafetyClassification = "Questionable"
	SafetyAvoid        SafetyClassification = "Avoid"
)

// IsValid reports whether the classification is one of the three literal tags.
func (s SafetyClassification) IsValid() bool {
	switch s {
	case SafetyMoreSafe, SafetyQuestionable, SafetyAvoid:
		return true
	}
	return false
}

// LookupRequest is one user-initiated restaurant safety lookup.
// FoodName is advisory only and never validated.
type LookupRequest struct {
	RestaurantName string   `json:"restaurantName"`
	FoodName       string   `json:"foodName,omitempty"`
	Allergies      []string `json:"allergies"`
}

// FoodAssessment is one menu item's classification in a lookup result.
type FoodAssessment struct {
	Name                 string               `json:"name"`
	SafetyClassification SafetyClassification `json:"safetyClassification"`
	Reasoning            string               `json:"reasoning"`
	Questions            []string             `json:"questions"`
}

// LookupResult is the rendering-ready outcome of a lookup.
type LookupResult struct {
	RestaurantName string           `json:"restaurantName"`
	RestaurantInfo string           `json:"restaurantInfo,omitempty"`
	Foods          []FoodAssessment `json:"foods"`
}

// TierCounts tallies assessments per safety tier.
func (r *LookupResult) TierCounts() (moreSafe, questionable, avoid int) {
	for _, f := range r.Foods {
		switch f.SafetyClassification {
		case SafetyMoreSafe:
			moreSafe++
		case SafetyQuestionable:
			questionable++
		case SafetyAvoid:
			avoid++
		}
	}
	return moreSafe, questionable, avoid
}
