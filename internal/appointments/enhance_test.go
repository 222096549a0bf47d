package appointments

import (
	"context"
	"errors"
	"testing"

	"github.com/psipro/platform/pkg/logging"
)

type fakeEnhancer struct {
	out   string
	err   error
	calls int
}

func (f *fakeEnhancer) EnhanceClinicalText(ctx context.Context, text string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

func newEnhanceFixture(t *testing.T, enhancer *fakeEnhancer) (*Service, *InMemoryStore) {
	t.Helper()
	store := NewInMemoryStore()
	svc := NewService(store, nil, nil, logging.Default()).WithEnhancer(enhancer)
	return svc, store
}

func TestEnhanceField_RewritesClinicalField(t *testing.T) {
	enhancer := &fakeEnhancer{out: "O paciente relatou melhora significativa do quadro de ansiedade."}
	svc, store := newEnhanceFixture(t, enhancer)
	seed(t, store, Appointment{
		ID: "appt", PatientID: "pat-1", Date: "2024-01-10",
		StartTime: "09:00", EndTime: "10:00", Status: StatusCompleted,
		ClinicalRecord: &ClinicalNotes{Summary: "paciente melhorou da ansiedade"},
	})

	appt, err := svc.EnhanceField(context.Background(), testOwner, "appt", "summary")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if appt.ClinicalRecord.Summary != enhancer.out {
		t.Fatalf("expected rewritten summary, got %q", appt.ClinicalRecord.Summary)
	}

	stored, _ := store.GetByID(context.Background(), testOwner, "appt")
	if stored.ClinicalRecord.Summary != enhancer.out {
		t.Fatal("rewritten text must be persisted")
	}
}

func TestEnhanceField_SessionNotes(t *testing.T) {
	enhancer := &fakeEnhancer{out: "Sessão dedicada à reestruturação cognitiva."}
	svc, store := newEnhanceFixture(t, enhancer)
	seed(t, store, Appointment{
		ID: "appt", PatientID: "pat-1", Date: "2024-01-10",
		StartTime: "09:00", EndTime: "10:00", Status: StatusScheduled,
		Notes: "trabalhamos reestruturação",
	})

	appt, err := svc.EnhanceField(context.Background(), testOwner, "appt", "notes")
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if appt.Notes != enhancer.out {
		t.Fatalf("expected rewritten notes, got %q", appt.Notes)
	}
}

func TestEnhanceField_FailureKeepsOriginalText(t *testing.T) {
	enhancer := &fakeEnhancer{err: errors.New("quota exceeded")}
	svc, store := newEnhanceFixture(t, enhancer)
	seed(t, store, Appointment{
		ID: "appt", PatientID: "pat-1", Date: "2024-01-10",
		StartTime: "09:00", EndTime: "10:00", Status: StatusScheduled,
		Notes: "texto original",
	})

	appt, err := svc.EnhanceField(context.Background(), testOwner, "appt", "notes")
	if err != nil {
		t.Fatalf("enhancer failure must not surface: %v", err)
	}
	if appt.Notes != "texto original" {
		t.Fatalf("expected original text kept, got %q", appt.Notes)
	}
	stored, _ := store.GetByID(context.Background(), testOwner, "appt")
	if stored.Notes != "texto original" {
		t.Fatal("failed enhancement must not write")
	}
}

func TestEnhanceField_EmptyTextSkipsModel(t *testing.T) {
	enhancer := &fakeEnhancer{out: "nunca usado"}
	svc, store := newEnhanceFixture(t, enhancer)
	seed(t, store, Appointment{
		ID: "appt", PatientID: "pat-1", Date: "2024-01-10",
		StartTime: "09:00", EndTime: "10:00", Status: StatusScheduled,
	})

	if _, err := svc.EnhanceField(context.Background(), testOwner, "appt", "summary"); err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if enhancer.calls != 0 {
		t.Fatalf("empty field must not reach the model, got %d calls", enhancer.calls)
	}
}

func TestEnhanceField_UnknownField(t *testing.T) {
	svc, store := newEnhanceFixture(t, &fakeEnhancer{})
	seed(t, store, Appointment{
		ID: "appt", PatientID: "pat-1", Date: "2024-01-10",
		StartTime: "09:00", EndTime: "10:00", Status: StatusScheduled,
	})

	if _, err := svc.EnhanceField(context.Background(), testOwner, "appt", "horoscope"); !errors.Is(err, ErrInvalidNotesField) {
		t.Fatalf("expected ErrInvalidNotesField, got %v", err)
	}
}

func TestEnhanceField_Unconfigured(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.EnhanceField(context.Background(), testOwner, "appt", "notes"); !errors.Is(err, ErrEnhancerUnavailable) {
		t.Fatalf("expected ErrEnhancerUnavailable, got %v", err)
	}
}
