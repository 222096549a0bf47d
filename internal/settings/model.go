// Package settings manages the practitioner's professional profile used on
// generated documents and reminders.
package settings

import (
	"context"
	"strings"
)

// Settings is the practitioner profile. A practitioner with no saved row gets
// the zero value.
type Settings struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	CRP             string   `json:"crp"`
	Phone           string   `json:"phone,omitempty"`
	Address         string   `json:"address,omitempty"`
	DocumentNumber  string   `json:"document,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
	Approach        string   `json:"approach,omitempty"`
}

// Normalize trims whitespace on the text fields and drops empty
// specialization tags.
func (s *Settings) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.CRP = strings.TrimSpace(s.CRP)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Address = strings.TrimSpace(s.Address)
	s.DocumentNumber = strings.TrimSpace(s.DocumentNumber)
	s.Approach = strings.TrimSpace(s.Approach)
	kept := s.Specializations[:0]
	for _, tag := range s.Specializations {
		if t := strings.TrimSpace(tag); t != "" {
			kept = append(kept, t)
		}
	}
	s.Specializations = kept
}

// Store abstracts settings persistence.
type Store interface {
	Get(ctx context.Context, ownerID string) (Settings, error)
	Save(ctx context.Context, ownerID string, s Settings) error
}
