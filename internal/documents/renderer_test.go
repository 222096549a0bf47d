package documents

import (
	"strings"
	"testing"
	"time"

	"github.com/psipro/platform/internal/appointments"
	"github.com/psipro/platform/internal/patients"
	"github.com/psipro/platform/internal/settings"
)

var testProfile = settings.Settings{Name: "Dra. Carla Mendes", CRP: "06/12345"}

func TestRenderer_Declaration(t *testing.T) {
	r := NewRenderer()
	p := patients.Patient{ID: "p1", FullName: "Bruna Costa", CPF: "123.456.789-00"}

	html, err := r.Declaration(p, testProfile, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Declaration: %v", err)
	}
	for _, want := range []string{
		"Bruna Costa",
		"123.456.789-00",
		"Dra. Carla Mendes",
		"CRP 06/12345",
		"15/03/2024",
		`lang="pt-BR"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("declaration missing %q", want)
		}
	}
}

func TestRenderer_DeclarationMissingCPFUsesPlaceholder(t *testing.T) {
	r := NewRenderer()
	html, err := r.Declaration(patients.Patient{FullName: "Bruna Costa"}, testProfile, time.Now())
	if err != nil {
		t.Fatalf("Declaration: %v", err)
	}
	if !strings.Contains(html, "___________") {
		t.Error("expected CPF placeholder for patient without CPF")
	}
}

func TestRenderer_ReportDefaults(t *testing.T) {
	r := NewRenderer()
	p := patients.Patient{FullName: "Bruna Costa", BirthDate: "1990-05-20"}

	html, err := r.Report(p, testProfile, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if !strings.Contains(html, "20/05/1990") {
		t.Error("expected birth date in DD/MM/YYYY")
	}
	if !strings.Contains(html, "Não informado.") {
		t.Error("expected clinical history placeholder")
	}
	if !strings.Contains(html, "Em avaliação.") {
		t.Error("expected diagnosis placeholder")
	}
}

func TestRenderer_ReportEscapesAndBreaksLines(t *testing.T) {
	r := NewRenderer()
	p := patients.Patient{
		FullName:        "Bruna Costa",
		ClinicalHistory: "linha um\nlinha <dois>",
	}

	html, err := r.Report(p, testProfile, time.Now())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if !strings.Contains(html, "linha um<br>linha &lt;dois&gt;") {
		t.Error("expected newline converted to <br> with markup escaped")
	}
}

func TestRenderer_SessionRecord(t *testing.T) {
	r := NewRenderer()
	p := patients.Patient{FullName: "Bruna Costa"}
	appt := appointments.Appointment{
		Date:      "2024-03-13",
		StartTime: "09:00",
		EndTime:   "10:00",
		Modality:  appointments.ModalityOnline,
		ClinicalRecord: &appointments.ClinicalNotes{
			Summary:           "Conteúdo da sessão",
			TechnicalRegister: "Registro técnico",
		},
	}

	html, err := r.SessionRecord(p, testProfile, appt, time.Now())
	if err != nil {
		t.Fatalf("SessionRecord: %v", err)
	}
	for _, want := range []string{
		"Prontuário de Sessão",
		"13/03/2024",
		"09:00 às 10:00",
		"ONLINE",
		"Registro técnico",
		"Resumo do Conteúdo:",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("session record missing %q", want)
		}
	}
	// Empty fields must not emit their blocks.
	if strings.Contains(html, "Pontos-Chave:") {
		t.Error("did not expect key-points block for empty field")
	}
}

func TestRenderer_SessionRecordWithoutNotes(t *testing.T) {
	r := NewRenderer()
	appt := appointments.Appointment{Date: "2024-03-13", StartTime: "09:00", EndTime: "10:00"}

	html, err := r.SessionRecord(patients.Patient{FullName: "Bruna Costa"}, testProfile, appt, time.Now())
	if err != nil {
		t.Fatalf("SessionRecord: %v", err)
	}
	if !strings.Contains(html, "Não registrado.") {
		t.Error("expected placeholder for missing technical register")
	}
}
