package appointments

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

// anyUpsertArgs matches the 14 upsert placeholders without checking values;
// pgxmock treats a missing WithArgs as "expect zero arguments".
func anyUpsertArgs() []any {
	args := make([]any, 14)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func sessionRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "patient_id", "date", "start_time", "end_time", "status", "type",
		"notes", "clinical_record", "value", "is_paid", "recurrence_id",
		"absence_justification",
	})
}

func TestPostgresListByOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	store := NewPostgresStoreWithDB(mock)

	rows := sessionRows().
		AddRow("a1", "p1", "2024-01-10", "09:00", "10:00", "scheduled", "ONLINE",
			"", []byte(nil), 150.0, false, "", "").
		AddRow("a2", "p2", "2024-01-10", "11:00", "12:00", "completed", "PRESENCIAL",
			"notes", []byte(`{"summary":"ok"}`), 180.0, true, "series-1", "")
	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs("owner-1").
		WillReturnRows(rows)

	appts, err := store.ListByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(appts))
	}
	if appts[1].ClinicalRecord == nil || appts[1].ClinicalRecord.Summary != "ok" {
		t.Fatalf("expected decoded clinical record, got %+v", appts[1].ClinicalRecord)
	}
	if appts[1].RecurrenceID != "series-1" {
		t.Fatalf("expected recurrence id, got %q", appts[1].RecurrenceID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	store := NewPostgresStoreWithDB(mock)

	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs("missing", "owner-1").
		WillReturnError(pgx.ErrNoRows)

	_, err = store.GetByID(context.Background(), "owner-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	store := NewPostgresStoreWithDB(mock)

	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(anyUpsertArgs()...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	a := Appointment{
		ID: "a1", PatientID: "p1", Date: "2024-01-10",
		StartTime: "09:00", EndTime: "10:00",
		Status: StatusScheduled, Modality: ModalityOnline, Value: 150,
	}
	if err := store.Upsert(context.Background(), "owner-1", a); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresUpsertBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	store := NewPostgresStoreWithDB(mock)

	batch := []Appointment{
		{ID: "a1", PatientID: "p1", Date: "2024-01-10", StartTime: "09:00", EndTime: "10:00", Status: StatusScheduled},
		{ID: "a2", PatientID: "p1", Date: "2024-01-17", StartTime: "09:00", EndTime: "10:00", Status: StatusScheduled},
	}

	eb := mock.ExpectBatch()
	for range batch {
		eb.ExpectExec("INSERT INTO sessions").
			WithArgs(anyUpsertArgs()...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	if err := store.UpsertBatch(context.Background(), "owner-1", batch); err != nil {
		t.Fatalf("batch upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresDelete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	store := NewPostgresStoreWithDB(mock)

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs("missing", "owner-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := store.Delete(context.Background(), "owner-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
