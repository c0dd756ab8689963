// internal/lookup/service_test.go
package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/andrewmicrosoft/allergy-alert/internal/common/errors"
	"github.com/andrewmicrosoft/allergy-alert/internal/common/logger"
	"github.com/andrewmicrosoft/allergy-alert/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// stubCompleter records the prompts it receives and replies with a canned
// payload or error.
type stubCompleter struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   string
	lastSchema string
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string, schemaName string, schema map[string]interface{}) (string, error) {
	s.calls++
	s.lastSystem = system
	s.lastUser = user
	s.lastSchema = schemaName
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// stubProfiles serves a fixed profile for every owner.
type stubProfiles struct {
	profile *models.AllergyProfile
	err     error
}

func (s *stubProfiles) Save(ctx context.Context, ownerID string, profile *models.AllergyProfile) error {
	return nil
}

func (s *stubProfiles) Get(ctx context.Context, ownerID string) (*models.AllergyProfile, error) {
	return s.profile, s.err
}

func (s *stubProfiles) Clear(ctx context.Context, ownerID string) error {
	return nil
}

// stubHistory collects recorded entries.
type stubHistory struct {
	entries []models.HistoryEntry
	err     error
}

func (s *stubHistory) Record(ctx context.Context, entry models.HistoryEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func createTestLookupService(t *testing.T, completer *stubCompleter, profiles *stubProfiles, hist *stubHistory) *Service {
	svc := NewService(completer, profiles, hist, logger.NewTestLogger(t))
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return svc
}

// ==========================
// LookupRestaurant Tests
// ==========================

func TestService_LookupRestaurant_Success(t *testing.T) {
	completer := &stubCompleter{reply: validPayload()}
	hist := &stubHistory{}
	svc := createTestLookupService(t, completer, &stubProfiles{}, hist)

	result, err := svc.LookupRestaurant(context.Background(), "owner-1", models.LookupRequest{
		RestaurantName: "Thai Palace",
		Allergies:      []string{"peanuts"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Thai Palace", result.RestaurantName)
	assert.Len(t, result.Foods, 3)

	// Exactly one external call per lookup.
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, ResponseSchemaName, completer.lastSchema)
	assert.Contains(t, completer.lastUser, "Thai Palace")
	assert.Contains(t, completer.lastUser, "My allergies: peanuts.")

	// The completed lookup lands in history with tier counts.
	require.Len(t, hist.entries, 1)
	assert.Equal(t, "owner-1", hist.entries[0].OwnerID)
	assert.Equal(t, 3, hist.entries[0].FoodCount)
	assert.Equal(t, 1, hist.entries[0].MoreSafe)
	assert.Equal(t, 1, hist.entries[0].Questionable)
	assert.Equal(t, 1, hist.entries[0].Avoid)
}

func TestService_LookupRestaurant_UsesStoredProfileAllergies(t *testing.T) {
	completer := &stubCompleter{reply: validPayload()}
	profiles := &stubProfiles{profile: &models.AllergyProfile{
		Name:      "Jordan Smith",
		Email:     "jordan@example.com",
		Allergies: []string{"shellfish", "soy"},
	}}
	svc := createTestLookupService(t, completer, profiles, &stubHistory{})

	_, err := svc.LookupRestaurant(context.Background(), "owner-1", models.LookupRequest{
		RestaurantName: "Olive Garden",
	})

	require.NoError(t, err)
	assert.Contains(t, completer.lastUser, "Olive Garden")
	assert.Contains(t, completer.lastUser, "My allergies: shellfish, soy.")
}

func TestService_LookupRestaurant_NoProfileNoAllergies(t *testing.T) {
	completer := &stubCompleter{reply: validPayload()}
	svc := createTestLookupService(t, completer, &stubProfiles{}, &stubHistory{})

	_, err := svc.LookupRestaurant(context.Background(), "owner-1", models.LookupRequest{
		RestaurantName: "Olive Garden",
	})

	require.NoError(t, err)
	assert.Contains(t, completer.lastUser, NoAllergiesText)
}

func TestService_LookupRestaurant_RequestAllergiesWinOverProfile(t *testing.T) {
	completer := &stubCompleter{reply: validPayload()}
	profiles := &stubProfiles{profile: &models.AllergyProfile{Allergies: []string{"soy"}}}
	svc := createTestLookupService(t, completer, profiles, &stubHistory{})

	_, err := svc.LookupRestaurant(context.Background(), "owner-1", models.LookupRequest{
		RestaurantName: "Olive Garden",
		Allergies:      []string{"peanuts"},
	})

	require.NoError(t, err)
	assert.Contains(t, completer.lastUser, "My allergies: peanuts.")
	assert.NotContains(t, completer.lastUser, "soy")
}

func TestService_LookupRestaurant_Failures(t *testing.T) {
	tests := []struct {
		name         string
		request      models.LookupRequest
		completer    *stubCompleter
		expectedCode commonerrors.ErrorCode
		expectCalls  int
	}{
		{
			name:         "blank restaurant name never reaches the model",
			request:      models.LookupRequest{RestaurantName: "   "},
			completer:    &stubCompleter{reply: validPayload()},
			expectedCode: commonerrors.ErrCodeValidation,
			expectCalls:  0,
		},
		{
			name:         "missing config fails before any network call",
			request:      models.LookupRequest{RestaurantName: "Thai Palace"},
			completer:    &stubCompleter{err: commonerrors.NewMissingConfigError("model endpoint is not configured")},
			expectedCode: commonerrors.ErrCodeMissingConfig,
			expectCalls:  1,
		},
		{
			name:         "transport failure",
			request:      models.LookupRequest{RestaurantName: "Thai Palace"},
			completer:    &stubCompleter{err: commonerrors.NewTransportError(errors.New("connection reset"))},
			expectedCode: commonerrors.ErrCodeTransport,
			expectCalls:  1,
		},
		{
			name:         "unparseable reply",
			request:      models.LookupRequest{RestaurantName: "Thai Palace"},
			completer:    &stubCompleter{reply: "menu looks fine"},
			expectedCode: commonerrors.ErrCodeMalformedResponse,
			expectCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hist := &stubHistory{}
			svc := createTestLookupService(t, tt.completer, &stubProfiles{}, hist)

			result, err := svc.LookupRestaurant(context.Background(), "owner-1", tt.request)

			assert.Nil(t, result)
			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, commonerrors.CodeOf(err))
			assert.Equal(t, tt.expectCalls, tt.completer.calls)

			// Failed lookups never reach history.
			assert.Empty(t, hist.entries)
		})
	}
}

func TestService_LookupRestaurant_HistoryFailureDoesNotFailLookup(t *testing.T) {
	completer := &stubCompleter{reply: validPayload()}
	hist := &stubHistory{err: errors.New("postgres down")}
	svc := createTestLookupService(t, completer, &stubProfiles{}, hist)

	result, err := svc.LookupRestaurant(context.Background(), "owner-1", models.LookupRequest{
		RestaurantName: "Thai Palace",
		Allergies:      []string{"peanuts"},
	})

	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestService_LookupRestaurant_NoImplicitRetry(t *testing.T) {
	completer := &stubCompleter{err: commonerrors.NewTransportError(errors.New("timeout"))}
	svc := createTestLookupService(t, completer, &stubProfiles{}, &stubHistory{})

	_, err := svc.LookupRestaurant(context.Background(), "owner-1", models.LookupRequest{
		RestaurantName: "Thai Palace",
		Allergies:      []string{"peanuts"},
	})

	require.Error(t, err)
	assert.Equal(t, 1, completer.calls)
}

func TestEmptyResult(t *testing.T) {
	result := EmptyResult()

	assert.NotNil(t, result.Foods)
	assert.Empty(t, result.Foods)
	assert.Empty(t, result.RestaurantName)
}
