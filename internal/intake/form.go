// internal/intake/form.go
package intake

import (
	"github.com/google/uuid"

	"github.com/andrewmicrosoft/allergy-alert/internal/models"
)

// Entry is one editable allergy field in a form.
type Entry struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Form models the editing state of the intake form: identity fields plus
// an ordered, dynamic list of allergy entries. The list always keeps at
// least one entry so there is somewhere to type, even if it is blank.
type Form struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	EmergencyContact string  `json:"emergencyContact"`
	Entries          []Entry `json:"entries"`
}

// NewForm returns an empty form with a single blank allergy entry.
func NewForm() *Form {
	return &Form{
		Entries: []Entry{{ID: uuid.NewString()}},
	}
}

// NewFormFromProfile pre-populates a form from an existing profile so a
// resubmission starts from the stored values.
func NewFormFromProfile(p *models.AllergyProfile) *Form {
	f := &Form{
		Name:             p.Name,
		Email:            p.Email,
		EmergencyContact: p.EmergencyContact,
	}
	for _, a := range p.Allergies {
		f.Entries = append(f.Entries, Entry{ID: uuid.NewString(), Value: a})
	}
	if len(f.Entries) == 0 {
		f.Entries = []Entry{{ID: uuid.NewString()}}
	}
	return f
}

// AddEntry appends a blank allergy entry and returns its id.
func (f *Form) AddEntry() string {
	e := Entry{ID: uuid.NewString()}
	f.Entries = append(f.Entries, e)
	return e.ID
}

// RemoveEntry deletes the entry with the given id. Removal is a no-op when
// exactly one entry remains.
func (f *Form) RemoveEntry(id string) {
	if len(f.Entries) <= 1 {
		return
	}
	for i, e := range f.Entries {
		if e.ID == id {
			f.Entries = append(f.Entries[:i], f.Entries[i+1:]...)
			return
		}
	}
}

// SetEntry updates the value of the entry with the given id.
func (f *Form) SetEntry(id, value string) {
	for i := range f.Entries {
		if f.Entries[i].ID == id {
			f.Entries[i].Value = value
			return
		}
	}
}

// Submission flattens the form into the shape Submit validates.
func (f *Form) Submission() Submission {
	allergies := make([]string, 0, len(f.Entries))
	for _, e := range f.Entries {
		allergies = append(allergies, e.Value)
	}
	return Submission{
		Name:             f.Name,
		Email:            f.Email,
		EmergencyContact: f.EmergencyContact,
		Allergies:        allergies,
	}
}
