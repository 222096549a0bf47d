// Package appointments implements the agenda of a single practitioner:
// time-slot generation, interval conflict detection, weekly recurrence
// expansion and the scheduling service that ties them to storage.
package appointments

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
	StatusAbsent    Status = "absent"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCanceled, StatusAbsent:
		return true
	}
	return false
}

// Modality distinguishes online from in-person sessions. It has no effect
// on scheduling; the agenda only displays it.
type Modality string

const (
	ModalityOnline   Modality = "ONLINE"
	ModalityInPerson Modality = "PRESENCIAL"
)

// ClinicalNotes holds the structured fields of a session record. They feed
// the generated session-record document.
type ClinicalNotes struct {
	KeyPoints         string `json:"key_points"`
	Summary           string `json:"summary"`
	Feelings          string `json:"feelings"`
	Behaviors         string `json:"behaviors"`
	Quotes            string `json:"quotes"`
	Names             string `json:"names"`
	Interventions     string `json:"interventions"`
	Evolution         string `json:"evolution"`
	Insights          string `json:"insights"`
	Mood              string `json:"mood"`
	TechnicalRegister string `json:"technical_register"`
}

// Appointment is a booked session on the practitioner's agenda.
//
// Date is a plain calendar date (YYYY-MM-DD) and StartTime/EndTime are
// zero-padded HH:MM clock strings, so lexicographic comparison equals
// chronological comparison within a day. Intervals are half-open:
// [StartTime, EndTime).
type Appointment struct {
	ID                   string         `json:"id"`
	PatientID            string         `json:"patient_id"`
	Date                 string         `json:"date"`
	StartTime            string         `json:"start_time"`
	EndTime              string         `json:"end_time"`
	Status               Status         `json:"status"`
	Modality             Modality       `json:"type"`
	Notes                string         `json:"notes"`
	ClinicalRecord       *ClinicalNotes `json:"clinical_record,omitempty"`
	Value                float64        `json:"value"`
	IsPaid               bool           `json:"is_paid"`
	RecurrenceID         string         `json:"recurrence_id,omitempty"`
	AbsenceJustification string         `json:"absence_justification,omitempty"`
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidClock reports whether s is a zero-padded 24-hour HH:MM string.
func ValidClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// AddMinutes returns the HH:MM label mins minutes after start. A session
// never crosses midnight: results past 24:00 are an error. 24:00 itself is
// fine as the exclusive end of a session finishing exactly at midnight.
func AddMinutes(start string, mins int) (string, error) {
	if !ValidClock(start) {
		return "", fmt.Errorf("appointments: invalid clock value %q", start)
	}
	h := int(start[0]-'0')*10 + int(start[1]-'0')
	m := int(start[3]-'0')*10 + int(start[4]-'0')
	total := h*60 + m + mins
	if total > 24*60 {
		return "", fmt.Errorf("appointments: session starting at %s with %d minutes crosses midnight", start, mins)
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

func (a *Appointment) normalize() {
	a.PatientID = strings.TrimSpace(a.PatientID)
	a.Notes = strings.TrimSpace(a.Notes)
	a.AbsenceJustification = strings.TrimSpace(a.AbsenceJustification)
	if a.Modality == "" {
		a.Modality = ModalityOnline
	}
}
