package reminders

import (
	"strings"
	"testing"

	"github.com/psipro/platform/internal/appointments"
	"github.com/psipro/platform/internal/patients"
)

func testAppointment() appointments.Appointment {
	return appointments.Appointment{
		ID: "appt-1", PatientID: "pat-1", Date: "2024-03-13",
		StartTime: "09:00", EndTime: "10:00",
		Modality: appointments.ModalityOnline,
	}
}

func TestBuilder_Message(t *testing.T) {
	b, err := NewBuilder("")
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	msg, err := b.Message(patients.Patient{FullName: "Bruna Costa"}, testAppointment())
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	want := "Olá Bruna Costa, lembrete da sua sessão de terapia (ONLINE) agendada para 13/03/2024 às 09:00."
	if msg != want {
		t.Fatalf("unexpected message:\n got  %q\n want %q", msg, want)
	}
}

func TestBuilder_LinkStripsPhoneFormatting(t *testing.T) {
	b, err := NewBuilder("")
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	p := patients.Patient{ID: "pat-1", FullName: "Bruna Costa", Phone: "(11) 98888-7777"}
	link, err := b.Link(p, testAppointment())
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if !strings.HasPrefix(link, "https://wa.me/5511988887777?text=") {
		t.Fatalf("unexpected link prefix: %q", link)
	}
	if strings.ContainsAny(link, " ()") {
		t.Fatalf("expected encoded link, got %q", link)
	}
}

func TestBuilder_LinkRequiresPhone(t *testing.T) {
	b, err := NewBuilder("")
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if _, err := b.Link(patients.Patient{ID: "pat-1", FullName: "Bruna Costa"}, testAppointment()); err == nil {
		t.Fatal("expected error for patient without phone")
	}
}

func TestBuilder_CustomTemplate(t *testing.T) {
	b, err := NewBuilder("{{.PatientName}}: {{.Date}} {{.StartTime}}")
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	msg, err := b.Message(patients.Patient{FullName: "Bruna Costa"}, testAppointment())
	if err != nil {
		t.Fatalf("Message: %v", err)
	}
	if msg != "Bruna Costa: 13/03/2024 09:00" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestBuilder_UnknownFieldFailsAtParseOrRender(t *testing.T) {
	b, err := NewBuilder("{{.Bogus}}")
	if err != nil {
		// Parse-time rejection is fine too.
		return
	}
	if _, err := b.Message(patients.Patient{FullName: "Bruna Costa"}, testAppointment()); err == nil {
		t.Fatal("expected error for unknown template field")
	}
}
