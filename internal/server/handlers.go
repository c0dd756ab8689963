// internal/server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	commonerrors "github.com/andrewmicrosoft/allergy-alert/internal/common/errors"
	"github.com/andrewmicrosoft/allergy-alert/internal/intake"
	"github.com/andrewmicrosoft/allergy-alert/internal/models"
)

// OwnerHeader identifies the profile owner on every API request.
const OwnerHeader = "X-Owner-ID"

func (s *Server) handleSubmitProfile(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	var sub intake.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		s.errors.WriteError(w, r, commonerrors.NewValidationError([]models.FieldError{{
			Field:   "body",
			Code:    "INVALID_FORMAT",
			Message: "request body must be valid JSON",
		}}))
		return
	}

	profile, fieldErrors, err := s.intake.Submit(r.Context(), ownerID, sub)
	if err != nil {
		s.errors.WriteError(w, r, err)
		return
	}
	if len(fieldErrors) > 0 {
		s.errors.WriteError(w, r, commonerrors.NewValidationError(fieldErrors))
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	profile, err := s.intake.Profile(r.Context(), ownerID)
	if err != nil {
		s.errors.WriteError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleClearProfile(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	if err := s.intake.Clear(r.Context(), ownerID); err != nil {
		s.errors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}

	var req models.LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errors.WriteError(w, r, commonerrors.NewValidationError([]models.FieldError{{
			Field:   "body",
			Code:    "INVALID_FORMAT",
			Message: "request body must be valid JSON",
		}}))
		return
	}

	result, err := s.lookup.LookupRestaurant(r.Context(), ownerID, req)
	if err != nil {
		s.errors.WriteError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := s.ownerID(w, r)
	if !ok {
		return
	}
	if s.history == nil {
		s.errors.WriteError(w, r, commonerrors.NewHistoryQueryFailedError(
			errors.New("history store is not configured")))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.errors.WriteError(w, r, commonerrors.NewValidationError([]models.FieldError{{
				Field:   "limit",
				Code:    "INVALID_FORMAT",
				Message: "limit must be an integer",
			}}))
			return
		}
		limit = n
	}

	entries, err := s.history.ListByOwner(r.Context(), ownerID, limit)
	if err != nil {
		s.errors.WriteError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := "healthy"
	checks := map[string]string{}

	if err := s.redis.Ping(ctx); err != nil {
		status = "unhealthy"
		checks["redis"] = err.Error()
	} else {
		checks["redis"] = "ok"
	}
	if err := s.postgres.Ping(ctx); err != nil {
		status = "unhealthy"
		checks["postgres"] = err.Error()
	} else {
		checks["postgres"] = "ok"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	s.writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

// ownerID extracts the owner header, writing a validation error when it
// is absent. The second return is false when the response is already sent.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID := strings.TrimSpace(r.Header.Get(OwnerHeader))
	if ownerID == "" {
		s.errors.WriteError(w, r, commonerrors.NewValidationError([]models.FieldError{{
			Field:   "ownerId",
			Code:    "MISSING_REQUIRED",
			Message: OwnerHeader + " header is required",
		}}))
		return "", false
	}
	return ownerID, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("Failed to encode response body", nil)
	}
}
