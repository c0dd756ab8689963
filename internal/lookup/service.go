// internal/lookup/service.go
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	commonerrors "github.com/andrewmicrosoft/allergy-alert/internal/common/errors"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/logger"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/metrics"
	"github.com/andrewmicrosoft/allergy-alert/internal/intake"
	"github.com/andrewmicrosoft/allergy-alert/internal/llm"
	"github.com/andrewmicrosoft/allergy-alert/internal/models"
)

// HistoryRecorder persists completed lookups. Recording is best effort:
// a failed write never fails the lookup itself.
type HistoryRecorder interface {
	Record(ctx context.Context, entry models.HistoryEntry) error
}

// Service performs the single-call restaurant safety lookup. Identical
// lookups always issue a fresh external call: no cache, no rate limiting,
// no automatic retry.
type Service struct {
	completer llm.Completer
	profiles  intake.ProfileStore
	history   HistoryRecorder
	logger    logger.Logger
	now       func() time.Time
}

func NewService(completer llm.Completer, profiles intake.ProfileStore, history HistoryRecorder, log logger.Logger) *Service {
	return &Service{
		completer: completer,
		profiles:  profiles,
		history:   history,
		logger:    log.WithFields(map[string]interface{}{"component": "lookup"}),
		now:       time.Now,
	}
}

// LookupRestaurant translates a restaurant name plus the allergy list into
// one structured request and returns a rendering-ready result or a typed
// failure. When the request carries no allergies, the stored profile's
// list is used; an absent profile means an empty list.
func (s *Service) LookupRestaurant(ctx context.Context, ownerID string, req models.LookupRequest) (*models.LookupResult, error) {
	name := strings.TrimSpace(req.RestaurantName)
	if name == "" {
		return nil, commonerrors.NewValidationError([]models.FieldError{{
			Field:   "restaurantName",
			Code:    "MISSING_REQUIRED",
			Message: "Restaurant name is required",
		}})
	}

	allergies := req.Allergies
	if len(allergies) == 0 && s.profiles != nil {
		profile, err := s.profiles.Get(ctx, ownerID)
		if err != nil {
			return nil, commonerrors.NewStorageError(err)
		}
		if profile != nil {
			allergies = profile.Allergies
		}
	}

	s.logger.Info("lookup requested", map[string]interface{}{
		"ownerId":        ownerID,
		"restaurantName": name,
		"allergyCount":   len(allergies),
	})

	start := s.now()
	raw, err := s.completer.Complete(ctx, SystemPrompt(), BuildUserPrompt(name, req.FoodName, allergies), ResponseSchemaName, ResponseSchema())
	duration := s.now().Sub(start)
	if err != nil {
		code := commonerrors.CodeOf(err)
		metrics.LookupsTotal.WithLabelValues("error").Inc()
		metrics.LookupsFailed.WithLabelValues(string(code)).Inc()
		metrics.LookupDuration.WithLabelValues("error").Observe(duration.Seconds())
		return nil, err
	}

	result, err := ParseResult(raw)
	if err != nil {
		code := commonerrors.CodeOf(err)
		metrics.LookupsTotal.WithLabelValues("error").Inc()
		metrics.LookupsFailed.WithLabelValues(string(code)).Inc()
		metrics.LookupDuration.WithLabelValues("error").Observe(duration.Seconds())
		return nil, err
	}

	metrics.LookupsTotal.WithLabelValues("ok").Inc()
	metrics.LookupDuration.WithLabelValues("ok").Observe(duration.Seconds())
	s.logger.Info("lookup completed", map[string]interface{}{
		"restaurantName": result.RestaurantName,
		"foodCount":      len(result.Foods),
	})

	s.recordHistory(ctx, ownerID, result)

	return result, nil
}

// ParseResult enforces the declared schema on a raw reply and decodes it.
// Any violation, including an unknown safety tier, surfaces as
// MALFORMED_RESPONSE with the raw payload kept for diagnosis.
func ParseResult(raw string) (*models.LookupResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, commonerrors.NewMalformedResponseError("empty payload", raw)
	}

	if err := validatePayload(raw); err != nil {
		return nil, commonerrors.NewMalformedResponseError(err.Error(), raw)
	}

	var result models.LookupResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, commonerrors.NewMalformedResponseError(fmt.Sprintf("decode payload: %v", err), raw)
	}

	for _, f := range result.Foods {
		if !f.SafetyClassification.IsValid() {
			return nil, commonerrors.NewMalformedResponseError(
				fmt.Sprintf("unknown safety classification %q for %q", f.SafetyClassification, f.Name), raw)
		}
	}

	if result.Foods == nil {
		result.Foods = []models.FoodAssessment{}
	}

	return &result, nil
}

// EmptyResult is the documented fallback for callers that prefer an empty
// render over raising a lookup error. It is never applied implicitly.
func EmptyResult() *models.LookupResult {
	return &models.LookupResult{
		RestaurantName: "",
		Foods:          []models.FoodAssessment{},
	}
}

func (s *Service) recordHistory(ctx context.Context, ownerID string, result *models.LookupResult) {
	if s.history == nil {
		return
	}

	moreSafe, questionable, avoid := result.TierCounts()
	entry := models.HistoryEntry{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		RestaurantName: result.RestaurantName,
		FoodCount:      len(result.Foods),
		MoreSafe:       moreSafe,
		Questionable:   questionable,
		Avoid:          avoid,
		CreatedAt:      s.now(),
	}

	if err := s.history.Record(ctx, entry); err != nil {
		s.logger.Warn("history record failed", map[string]interface{}{
			"restaurantName": entry.RestaurantName,
			"error":          err.Error(),
		})
	}
}
