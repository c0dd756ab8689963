// internal/intake/validation.go
package intake

import (
	"regexp"
	"strings"

	"github.com/andrewmicrosoft/allergy-alert/internal/models"
)

// Predefined patterns
var (
	// Letters and interior spaces only; applied after trimming.
	nameRegex = regexp.MustCompile(`^[a-zA-Z ]+$`)
	// Simple local@domain.tld shape.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Allergy entries: letters and spaces, minimum 2 characters after trim.
	allergyRegex = regexp.MustCompile(`^[a-zA-Z ]+$`)
)

// ValidateName checks the profile name field. A nil return means valid.
func ValidateName(s string) *models.FieldError {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return &models.FieldError{
			Field:   "name",
			Code:    "MISSING_REQUIRED",
			Message: "Name is required",
		}
	}
	if !nameRegex.MatchString(trimmed) {
		return &models.FieldError{
			Field:   "name",
			Code:    "INVALID_FORMAT",
			Message: "Name may only contain letters and spaces",
		}
	}
	return nil
}

// ValidateEmail checks the profile email field.
func ValidateEmail(s string) *models.FieldError {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return &models.FieldError{
			Field:   "email",
			Code:    "MISSING_REQUIRED",
			Message: "Email is required",
		}
	}
	if !emailRegex.MatchString(trimmed) {
		return &models.FieldError{
			Field:   "email",
			Code:    "INVALID_FORMAT",
			Message: "Invalid email format",
		}
	}
	return nil
}

// ValidateAllergyEntry checks a single allergy entry. Blank entries fail
// here; whether a blank entry counts as an error is the caller's policy
// (Submit excludes blanks without flagging them).
func ValidateAllergyEntry(s string) *models.FieldError {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return &models.FieldError{
			Field:   "allergy",
			Code:    "MISSING_REQUIRED",
			Message: "Allergy entry is required",
		}
	}
	if !allergyRegex.MatchString(trimmed) {
		return &models.FieldError{
			Field:   "allergy",
			Code:    "INVALID_FORMAT",
			Message: "Allergy entries may only contain letters and spaces",
		}
	}
	if len(trimmed) < 2 {
		return &models.FieldError{
			Field:   "allergy",
			Code:    "TOO_SHORT",
			Message: "Allergy entries must be at least 2 characters",
		}
	}
	return nil
}
