// Package reminders builds WhatsApp session-reminder links for the agenda.
package reminders

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"text/template"
	"time"

	"github.com/psipro/platform/internal/appointments"
	"github.com/psipro/platform/internal/patients"
)

// countryCode is prefixed to every phone number; the practice operates in
// Brazil.
const countryCode = "55"

// defaultTemplate is the reminder message sent before a session.
const defaultTemplate = "Olá {{.PatientName}}, lembrete da sua sessão de terapia ({{.Modality}}) agendada para {{.Date}} às {{.StartTime}}."

// Builder renders reminder messages and wraps them in wa.me links.
type Builder struct {
	tmpl *template.Template
}

// NewBuilder compiles the reminder template with strict missing-key
// semantics. An empty text selects the built-in message.
func NewBuilder(tmplText string) (*Builder, error) {
	if tmplText == "" {
		tmplText = defaultTemplate
	}
	t, err := template.New("reminder").Option("missingkey=error").Parse(tmplText)
	if err != nil {
		return nil, fmt.Errorf("reminders: parse template: %w", err)
	}
	return &Builder{tmpl: t}, nil
}

// messageData is the data surface available to reminder templates.
type messageData struct {
	PatientName string
	Modality    string
	Date        string
	StartTime   string
}

// Message renders the reminder text for one appointment.
func (b *Builder) Message(p patients.Patient, appt appointments.Appointment) (string, error) {
	date := appt.Date
	if t, err := time.Parse("2006-01-02", appt.Date); err == nil {
		date = t.Format("02/01/2006")
	}
	var buf bytes.Buffer
	err := b.tmpl.Execute(&buf, messageData{
		PatientName: p.FullName,
		Modality:    string(appt.Modality),
		Date:        date,
		StartTime:   appt.StartTime,
	})
	if err != nil {
		return "", fmt.Errorf("reminders: execute template: %w", err)
	}
	return buf.String(), nil
}

// Link returns the wa.me URL that opens WhatsApp with the reminder message
// pre-filled for the patient's phone.
func (b *Builder) Link(p patients.Patient, appt appointments.Appointment) (string, error) {
	phone := digitsOnly(p.Phone)
	if phone == "" {
		return "", fmt.Errorf("reminders: patient %s has no phone number", p.ID)
	}
	msg, err := b.Message(p, appt)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://wa.me/%s%s?text=%s", countryCode, phone, url.QueryEscape(msg)), nil
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
