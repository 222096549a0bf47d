// Package patients manages the practitioner's patient records.
package patients

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrMissingName is returned when the full name is blank.
	ErrMissingName = errors.New("patients: full name is required")

	// ErrNotFound is returned when a patient does not exist or belongs to
	// another practitioner.
	ErrNotFound = errors.New("patients: not found")
)

// Patient is one patient record. Clinical free text lives here; per-session
// structured notes live on the appointment.
type Patient struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	BirthDate        string `json:"birth_date,omitempty"`
	CPF              string `json:"cpf,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty"`
	PreferredType    string `json:"preferred_type"`
	ClinicalHistory  string `json:"clinical_history,omitempty"`
	Notes            string `json:"notes,omitempty"`
	Diagnosis        string `json:"diagnosis,omitempty"`
	RegistrationDate string `json:"registration_date"`
}

// Validate checks mandatory fields and applies defaults.
func (p *Patient) Validate() error {
	p.FullName = strings.TrimSpace(p.FullName)
	if p.FullName == "" {
		return ErrMissingName
	}
	if p.PreferredType == "" {
		p.PreferredType = "ONLINE"
	}
	if p.RegistrationDate == "" {
		p.RegistrationDate = time.Now().UTC().Format(time.RFC3339)
	}
	return nil
}
