// internal/intake/service.go
package intake

import (
	"context"
	"fmt"
	"strings"
	"time"

	commonerrors "github.com/andrewmicrosoft/allergy-alert/internal/common/errors"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/logger"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/metrics"
	"github.com/andrewmicrosoft/allergy-alert/internal/models"
)

// Submission carries the raw field values of one submit attempt.
type Submission struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	EmergencyContact string   `json:"emergencyContact,omitempty"`
	Allergies        []string `json:"allergies"`
}

// Service validates submissions and owns the stored profile's lifecycle.
type Service struct {
	store  ProfileStore
	logger logger.Logger
	now    func() time.Time
}

func NewService(store ProfileStore, log logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "intake"}),
		now:    time.Now,
	}
}

// Submit re-validates every field. It succeeds only with zero field-level
// errors and at least one valid non-blank allergy entry, in which case it
// trims all fields, filters allergies down to the valid non-empty ones in
// their original order, stamps SubmittedAt, persists the profile and
// returns it. On rejection it returns the full set of field errors and
// performs no side effects.
func (s *Service) Submit(ctx context.Context, ownerID string, sub Submission) (*models.AllergyProfile, []models.FieldError, error) {
	var fieldErrors []models.FieldError

	if fe := ValidateName(sub.Name); fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}
	if fe := ValidateEmail(sub.Email); fe != nil {
		fieldErrors = append(fieldErrors, *fe)
	}

	// Blank entries are spare input fields, excluded without counting as
	// errors; only entries with actual invalid content are flagged.
	valid := make([]string, 0, len(sub.Allergies))
	for i, raw := range sub.Allergies {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if fe := ValidateAllergyEntry(raw); fe != nil {
			fe.Field = fmt.Sprintf("allergies[%d]", i)
			fieldErrors = append(fieldErrors, *fe)
			continue
		}
		valid = append(valid, strings.TrimSpace(raw))
	}

	if len(valid) == 0 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "allergies",
			Code:    "MISSING_REQUIRED",
			Message: "At least one allergy entry is required",
		})
	}

	if len(fieldErrors) > 0 {
		metrics.ProfileSubmissions.WithLabelValues("rejected").Inc()
		s.logger.Info("submission rejected", map[string]interface{}{
			"ownerId":    ownerID,
			"errorCount": len(fieldErrors),
		})
		return nil, fieldErrors, nil
	}

	profile := &models.AllergyProfile{
		Name:             strings.TrimSpace(sub.Name),
		Email:            strings.TrimSpace(sub.Email),
		EmergencyContact: strings.TrimSpace(sub.EmergencyContact),
		Allergies:        valid,
		SubmittedAt:      s.now(),
	}

	if err := s.store.Save(ctx, ownerID, profile); err != nil {
		metrics.ProfileSubmissions.WithLabelValues("storage_error").Inc()
		return nil, nil, commonerrors.NewStorageError(err)
	}

	metrics.ProfileSubmissions.WithLabelValues("accepted").Inc()
	s.logger.Info("profile stored", map[string]interface{}{
		"ownerId":      ownerID,
		"allergyCount": len(profile.Allergies),
	})

	return profile, nil, nil
}

// Profile loads the stored profile, or PROFILE_NOT_FOUND when absent.
func (s *Service) Profile(ctx context.Context, ownerID string) (*models.AllergyProfile, error) {
	profile, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, commonerrors.NewStorageError(err)
	}
	if profile == nil {
		return nil, commonerrors.NewProfileNotFoundError(ownerID)
	}
	return profile, nil
}

// Clear destroys the stored profile. Clearing an absent profile succeeds.
func (s *Service) Clear(ctx context.Context, ownerID string) error {
	if err := s.store.Clear(ctx, ownerID); err != nil {
		return commonerrors.NewStorageError(err)
	}
	s.logger.Info("profile cleared", map[string]interface{}{"ownerId": ownerID})
	return nil
}
