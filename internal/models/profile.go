package models

import (
	"strings"
	"time"
)

// AllergyProfile is the stored identity + allergy list for one user.
// Absence of a stored profile means "no profile yet".
type AllergyProfile struct {
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	EmergencyContact string    `json:"emergencyContact,omitempty"`
	Allergies        []string  `json:"allergies"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// IsComplete reports whether the profile satisfies the completeness
// invariant: name, email and at least one allergy entry present.
func (p *AllergyProfile) IsComplete() bool {
	return strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Email) != "" &&
		len(p.Allergies) > 0
}

// FieldError describes a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
