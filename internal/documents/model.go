// Package documents generates, stores and serves the practitioner's clinical
// documents: attendance declarations, simple psychological reports and
// session records built from clinical notes.
package documents

import (
	"errors"
	"time"
)

// DocumentType identifies what kind of document was generated.
type DocumentType string

const (
	TypeDeclaration   DocumentType = "DECLARATION"
	TypeReport        DocumentType = "REPORT"
	TypeSessionRecord DocumentType = "SESSION_RECORD"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case TypeDeclaration, TypeReport, TypeSessionRecord:
		return true
	}
	return false
}

var (
	// ErrNotFound is returned when a document does not exist or belongs to
	// another practitioner.
	ErrNotFound = errors.New("documents: not found")

	// ErrInvalidType is returned for an unknown document type.
	ErrInvalidType = errors.New("documents: invalid document type")
)

// ClinicalDocument is the stored metadata of one generated document. The
// rendered HTML lives in the blob store under StorageKey.
type ClinicalDocument struct {
	ID         string       `json:"id"`
	PatientID  string       `json:"patient_id"`
	Type       DocumentType `json:"type"`
	Title      string       `json:"title"`
	StorageKey string       `json:"storage_key"`
	CreatedAt  time.Time    `json:"created_at"`
}
