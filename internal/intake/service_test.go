// internal/intake/service_test.go
package intake

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

// memoryStore is an in-memory ProfileStore for service tests.
type memoryStore struct {
	profiles map[string]*models.AllergyProfile
	saveErr  error
	getErr   error
	clearErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{profiles: map[string]*models.AllergyProfile{}}
}

func (m *memoryStore) Save(ctx context.Context, ownerID string, profile *models.AllergyProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profiles[ownerID] = profile
	return nil
}

func (m *memoryStore) Get(ctx context.Context, ownerID string) (*models.AllergyProfile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.profiles[ownerID], nil
}

func (m *memoryStore) Clear(ctx context.Context, ownerID string) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	delete(m.profiles, ownerID)
	return nil
}

func createTestService(t *testing.T, store ProfileStore) *Service {
	svc := NewService(store, logger.NewTestLogger(t))
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return svc
}

func validSubmission() Submission {
	return Submission{
		Name:      "Jordan Smith",
		Email:     "jordan@example.com",
		Allergies: []string{"peanuts", "shellfish"},
	}
}

// ==========================
// Submit Tests
// ==========================

func TestService_Submit_Success(t *testing.T) {
	tests := []struct {
		name            string
		submission      Submission
		validateProfile func(t *testing.T, p *models.AllergyProfile)
	}{
		{
			name:       "all fields valid",
			submission: validSubmission(),
			validateProfile: func(t *testing.T, p *models.AllergyProfile) {
				assert.Equal(t, "Jordan Smith", p.Name)
				assert.Equal(t, "jordan@example.com", p.Email)
				assert.Equal(t, []string{"peanuts", "shellfish"}, p.Allergies)
				assert.True(t, p.IsComplete())
			},
		},
		{
			name: "fields are trimmed",
			submission: Submission{
				Name:      "  Jordan Smith  ",
				Email:     " jordan@example.com ",
				Allergies: []string{"  peanuts  "},
			},
			validateProfile: func(t *testing.T, p *models.AllergyProfile) {
				assert.Equal(t, "Jordan Smith", p.Name)
				assert.Equal(t, "jordan@example.com", p.Email)
				assert.Equal(t, []string{"peanuts"}, p.Allergies)
			},
		},
		{
			name: "blank entries are filtered without erroring",
			submission: Submission{
				Name:      "Jordan Smith",
				Email:     "jordan@example.com",
				Allergies: []string{"", "peanuts", "   ", "shellfish", ""},
			},
			validateProfile: func(t *testing.T, p *models.AllergyProfile) {
				assert.Equal(t, []string{"peanuts", "shellfish"}, p.Allergies)
			},
		},
		{
			name: "emergency contact is optional",
			submission: Submission{
				Name:             "Jordan Smith",
				Email:            "jordan@example.com",
				EmergencyContact: "555 0100",
				Allergies:        []string{"dairy"},
			},
			validateProfile: func(t *testing.T, p *models.AllergyProfile) {
				assert.Equal(t, "555 0100", p.EmergencyContact)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			svc := createTestService(t, store)

			profile, fieldErrors, err := svc.Submit(context.Background(), "owner-1", tt.submission)

			require.NoError(t, err)
			require.Empty(t, fieldErrors)
			require.NotNil(t, profile)
			tt.validateProfile(t, profile)

			// The accepted profile is persisted as returned.
			stored, getErr := store.Get(context.Background(), "owner-1")
			require.NoError(t, getErr)
			assert.Equal(t, profile, stored)
		})
	}
}

func TestService_Submit_Rejections(t *testing.T) {
	tests := []struct {
		name           string
		submission     Submission
		expectedFields []string
	}{
		{
			name: "missing name",
			submission: Submission{
				Email:     "jordan@example.com",
				Allergies: []string{"peanuts"},
			},
			expectedFields: []string{"name"},
		},
		{
			name: "bad email",
			submission: Submission{
				Name:      "Jordan Smith",
				Email:     "not-an-email",
				Allergies: []string{"peanuts"},
			},
			expectedFields: []string{"email"},
		},
		{
			name: "no valid allergy entries",
			submission: Submission{
				Name:      "Jordan Smith",
				Email:     "jordan@example.com",
				Allergies: []string{"", "  "},
			},
			expectedFields: []string{"allergies"},
		},
		{
			name: "invalid entry is flagged with its index",
			submission: Submission{
				Name:      "Jordan Smith",
				Email:     "jordan@example.com",
				Allergies: []string{"peanuts", "nuts2"},
			},
			expectedFields: []string{"allergies[1]"},
		},
		{
			name:           "everything wrong at once",
			submission:     Submission{},
			expectedFields: []string{"name", "email", "allergies"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			svc := createTestService(t, store)

			profile, fieldErrors, err := svc.Submit(context.Background(), "owner-1", tt.submission)

			require.NoError(t, err)
			assert.Nil(t, profile)

			fields := make([]string, len(fieldErrors))
			for i, fe := range fieldErrors {
				fields[i] = fe.Field
			}
			assert.Equal(t, tt.expectedFields, fields)

			// Rejected submissions must not touch the store.
			assert.Empty(t, store.profiles)
		})
	}
}

func TestService_Submit_StorageFailure(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("redis down")
	svc := createTestService(t, store)

	profile, fieldErrors, err := svc.Submit(context.Background(), "owner-1", validSubmission())

	assert.Nil(t, profile)
	assert.Empty(t, fieldErrors)
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeStorageFailed, commonerrors.CodeOf(err))
}

// ==========================
// Profile / Clear Tests
// ==========================

func TestService_Profile(t *testing.T) {
	t.Run("returns the stored profile", func(t *testing.T) {
		store := newMemoryStore()
		svc := createTestService(t, store)
		_, _, err := svc.Submit(context.Background(), "owner-1", validSubmission())
		require.NoError(t, err)

		profile, err := svc.Profile(context.Background(), "owner-1")

		require.NoError(t, err)
		assert.Equal(t, "Jordan Smith", profile.Name)
	})

	t.Run("absent profile surfaces as not found", func(t *testing.T) {
		svc := createTestService(t, newMemoryStore())

		profile, err := svc.Profile(context.Background(), "owner-1")

		assert.Nil(t, profile)
		require.Error(t, err)
		assert.Equal(t, commonerrors.ErrCodeProfileNotFound, commonerrors.CodeOf(err))
	})
}

func TestService_Clear(t *testing.T) {
	store := newMemoryStore()
	svc := createTestService(t, store)
	_, _, err := svc.Submit(context.Background(), "owner-1", validSubmission())
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), "owner-1"))
	assert.Empty(t, store.profiles)

	// Clearing again still succeeds.
	require.NoError(t, svc.Clear(context.Background(), "owner-1"))
}
