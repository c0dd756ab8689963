// internal/intake/form_test.go
package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrewmicrosoft/allergy-alert/internal/models"
)

func TestNewForm_StartsWithOneBlankEntry(t *testing.T) {
	f := NewForm()

	assert.Len(t, f.Entries, 1)
	assert.Empty(t, f.Entries[0].Value)
	assert.NotEmpty(t, f.Entries[0].ID)
}

func TestForm_AddEntry(t *testing.T) {
	f := NewForm()

	id := f.AddEntry()

	assert.Len(t, f.Entries, 2)
	assert.Equal(t, id, f.Entries[1].ID)
	assert.NotEqual(t, f.Entries[0].ID, f.Entries[1].ID)
}

func TestForm_RemoveEntry(t *testing.T) {
	t.Run("removes the matching entry", func(t *testing.T) {
		f := NewForm()
		f.SetEntry(f.Entries[0].ID, "peanuts")
		second := f.AddEntry()
		f.SetEntry(second, "shellfish")

		f.RemoveEntry(second)

		assert.Len(t, f.Entries, 1)
		assert.Equal(t, "peanuts", f.Entries[0].Value)
	})

	t.Run("is a no-op when only one entry remains", func(t *testing.T) {
		f := NewForm()
		f.SetEntry(f.Entries[0].ID, "peanuts")

		f.RemoveEntry(f.Entries[0].ID)

		assert.Len(t, f.Entries, 1)
		assert.Equal(t, "peanuts", f.Entries[0].Value)
	})

	t.Run("ignores unknown ids", func(t *testing.T) {
		f := NewForm()
		f.AddEntry()

		f.RemoveEntry("no-such-id")

		assert.Len(t, f.Entries, 2)
	})
}

func TestForm_SetEntry(t *testing.T) {
	f := NewForm()

	f.SetEntry(f.Entries[0].ID, "dairy")
	assert.Equal(t, "dairy", f.Entries[0].Value)

	// Unknown ids change nothing.
	f.SetEntry("no-such-id", "soy")
	assert.Equal(t, "dairy", f.Entries[0].Value)
}

func TestForm_Submission_PreservesOrderAndBlanks(t *testing.T) {
	f := NewForm()
	f.Name = "Jordan Smith"
	f.Email = "jordan@example.com"
	f.SetEntry(f.Entries[0].ID, "peanuts")
	f.AddEntry() // left blank on purpose
	third := f.AddEntry()
	f.SetEntry(third, "shellfish")

	sub := f.Submission()

	assert.Equal(t, "Jordan Smith", sub.Name)
	assert.Equal(t, "jordan@example.com", sub.Email)
	assert.Equal(t, []string{"peanuts", "", "shellfish"}, sub.Allergies)
}

func TestNewFormFromProfile(t *testing.T) {
	t.Run("copies fields and entries", func(t *testing.T) {
		p := &models.AllergyProfile{
			Name:      "Jordan Smith",
			Email:     "jordan@example.com",
			Allergies: []string{"peanuts", "shellfish"},
		}

		f := NewFormFromProfile(p)

		assert.Equal(t, "Jordan Smith", f.Name)
		assert.Len(t, f.Entries, 2)
		assert.Equal(t, "peanuts", f.Entries[0].Value)
		assert.Equal(t, "shellfish", f.Entries[1].Value)
	})

	t.Run("keeps one blank entry for an empty list", func(t *testing.T) {
		f := NewFormFromProfile(&models.AllergyProfile{Name: "Jordan"})

		assert.Len(t, f.Entries, 1)
		assert.Empty(t, f.Entries[0].Value)
	})
}
