package appointments

import (
	"context"
	"strings"
)

// NotesEnhancer rewrites clinical free text into formal prose. Satisfied by
// assist.GeminiClient.
type NotesEnhancer interface {
	EnhanceClinicalText(ctx context.Context, text string) (string, error)
}

// WithEnhancer enables AI enhancement of session notes. Returns s for
// chaining at wire-up.
func (s *Service) WithEnhancer(e NotesEnhancer) *Service {
	s.enhancer = e
	return s
}

// clinicalFieldRef resolves a field name to the text it holds: "notes" is
// the session free text, anything else addresses a clinical-record field by
// its wire name. A nil clinical record is materialized so a first-time
// enhancement has somewhere to land.
func clinicalFieldRef(a *Appointment, field string) (*string, error) {
	if field == "notes" {
		return &a.Notes, nil
	}
	if a.ClinicalRecord == nil {
		a.ClinicalRecord = &ClinicalNotes{}
	}
	n := a.ClinicalRecord
	switch field {
	case "key_points":
		return &n.KeyPoints, nil
	case "summary":
		return &n.Summary, nil
	case "feelings":
		return &n.Feelings, nil
	case "behaviors":
		return &n.Behaviors, nil
	case "quotes":
		return &n.Quotes, nil
	case "names":
		return &n.Names, nil
	case "interventions":
		return &n.Interventions, nil
	case "evolution":
		return &n.Evolution, nil
	case "insights":
		return &n.Insights, nil
	case "mood":
		return &n.Mood, nil
	case "technical_register":
		return &n.TechnicalRegister, nil
	}
	return nil, ErrInvalidNotesField
}

// EnhanceField runs the AI enhancement over one clinical field and persists
// the rewritten text. An enhancer failure keeps the original text untouched;
// the practitioner never loses what they typed.
func (s *Service) EnhanceField(ctx context.Context, ownerID, id, field string) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.enhance_field")
	defer span.End()

	if s.enhancer == nil {
		return nil, ErrEnhancerUnavailable
	}
	appt, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	ref, err := clinicalFieldRef(appt, field)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(*ref)
	if text == "" {
		return appt, nil
	}

	enhanced, err := s.enhancer.EnhanceClinicalText(ctx, text)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn("notes enhancement failed, keeping original text",
			"practitioner_id", ownerID, "appointment_id", id, "field", field, "error", err)
		return appt, nil
	}
	enhanced = strings.TrimSpace(enhanced)
	if enhanced == "" || enhanced == text {
		return appt, nil
	}

	*ref = enhanced
	if err := s.store.Upsert(ctx, ownerID, *appt); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.recordAudit(ctx, ownerID, "appointment.notes_enhanced", id)
	s.logger.Info("clinical notes enhanced",
		"practitioner_id", ownerID, "appointment_id", id, "field", field)
	return appt, nil
}
