// pkg/client/types.go
package client

import "time"

// Safety tiers returned by the lookup endpoint.
const (
	SafetyMoreSafe     = "More Safe"
	SafetyQuestionable = "Questionable"
	SafetyAvoid        = "Avoid"
)

// ProfileSubmission carries the field values of one profile submit.
type ProfileSubmission struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	EmergencyContact string   `json:"emergencyContact,omitempty"`
	Allergies        []string `json:"allergies"`
}

// Profile is the stored allergy profile as the server returns it.
type Profile struct {
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	EmergencyContact string    `json:"emergencyContact,omitempty"`
	Allergies        []string  `json:"allergies"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// LookupRequest is one restaurant safety lookup. FoodName is advisory
// and may be empty. An empty Allergies list falls back to the stored
// profile's list server-side.
type LookupRequest struct {
	RestaurantName string   `json:"restaurantName"`
	FoodName       string   `json:"foodName,omitempty"`
	Allergies      []string `json:"allergies"`
}

// FoodAssessment is one menu item's classification in a lookup result.
type FoodAssessment struct {
	Name                 string   `json:"name"`
	SafetyClassification string   `json:"safetyClassification"`
	Reasoning            string   `json:"reasoning"`
	Questions            []string `json:"questions"`
}

// LookupResult is the outcome of one lookup.
type LookupResult struct {
	RestaurantName string           `json:"restaurantName"`
	RestaurantInfo string           `json:"restaurantInfo,omitempty"`
	Foods          []FoodAssessment `json:"foods"`
}

// HistoryEntry is one recorded lookup in the owner's history.
type HistoryEntry struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"ownerId"`
	RestaurantName string    `json:"restaurantName"`
	FoodCount      int       `json:"foodCount"`
	MoreSafe       int       `json:"moreSafe"`
	Questionable   int       `json:"questionable"`
	Avoid          int       `json:"avoid"`
	CreatedAt      time.Time `json:"createdAt"`
}

// HistoryPage is the history endpoint's response body.
type HistoryPage struct {
	Entries []HistoryEntry `json:"entries"`
}
