package appointments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgDB is the slice of pgxpool.Pool the store uses; pgxmock implements it
// for tests.
type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresStore persists appointments in the sessions table.
type PostgresStore struct {
	db pgDB
}

// NewPostgresStore creates a store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithDB allows injecting a mock database for testing.
func NewPostgresStoreWithDB(db pgDB) *PostgresStore {
	return &PostgresStore{db: db}
}

const sessionColumns = `id, patient_id, date, start_time, end_time, status, type,
	notes, clinical_record, value, is_paid, recurrence_id, absence_justification`

const upsertSessionSQL = `
	INSERT INTO sessions (id, user_id, patient_id, date, start_time, end_time,
		status, type, notes, clinical_record, value, is_paid, recurrence_id,
		absence_justification)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO UPDATE SET
		patient_id = EXCLUDED.patient_id,
		date = EXCLUDED.date,
		start_time = EXCLUDED.start_time,
		end_time = EXCLUDED.end_time,
		status = EXCLUDED.status,
		type = EXCLUDED.type,
		notes = EXCLUDED.notes,
		clinical_record = EXCLUDED.clinical_record,
		value = EXCLUDED.value,
		is_paid = EXCLUDED.is_paid,
		recurrence_id = EXCLUDED.recurrence_id,
		absence_justification = EXCLUDED.absence_justification
	WHERE sessions.user_id = EXCLUDED.user_id
`

// ListByOwner loads the practitioner's full appointment collection ordered
// by date and start time.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]Appointment, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE user_id = $1
		ORDER BY date, start_time`
	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	defer rows.Close()

	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list rows: %w", err)
	}
	return out, nil
}

// GetByID fetches one appointment scoped to the practitioner.
func (s *PostgresStore) GetByID(ctx context.Context, ownerID, id string) (*Appointment, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE id = $1 AND user_id = $2`
	a, err := scanAppointment(s.db.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return a, nil
}

// Upsert writes a single row.
func (s *PostgresStore) Upsert(ctx context.Context, ownerID string, a Appointment) error {
	args, err := upsertArgs(ownerID, a)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, upsertSessionSQL, args...); err != nil {
		return fmt.Errorf("appointments: upsert failed: %w", err)
	}
	return nil
}

// UpsertBatch writes a recurrence series in one round trip. The batch is a
// single persistence call; a partial failure at the storage layer is
// surfaced as-is, no compensation is attempted.
func (s *PostgresStore) UpsertBatch(ctx context.Context, ownerID string, batch []Appointment) error {
	if len(batch) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, a := range batch {
		args, err := upsertArgs(ownerID, a)
		if err != nil {
			return err
		}
		b.Queue(upsertSessionSQL, args...)
	}
	results := s.db.SendBatch(ctx, b)
	defer results.Close()
	for range batch {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("appointments: batch upsert failed: %w", err)
		}
	}
	return nil
}

// Delete removes one row; deleting someone else's row is a not-found.
func (s *PostgresStore) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("appointments: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func upsertArgs(ownerID string, a Appointment) ([]any, error) {
	var record []byte
	if a.ClinicalRecord != nil {
		var err error
		record, err = json.Marshal(a.ClinicalRecord)
		if err != nil {
			return nil, fmt.Errorf("appointments: marshal clinical record: %w", err)
		}
	}
	return []any{
		a.ID, ownerID, a.PatientID, a.Date, a.StartTime, a.EndTime,
		string(a.Status), string(a.Modality), a.Notes, record, a.Value,
		a.IsPaid, a.RecurrenceID, a.AbsenceJustification,
	}, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var record []byte
	if err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.Date,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.Modality,
		&a.Notes,
		&record,
		&a.Value,
		&a.IsPaid,
		&a.RecurrenceID,
		&a.AbsenceJustification,
	); err != nil {
		return nil, err
	}
	if len(record) > 0 {
		a.ClinicalRecord = &ClinicalNotes{}
		if err := json.Unmarshal(record, a.ClinicalRecord); err != nil {
			return nil, fmt.Errorf("appointments: decode clinical record: %w", err)
		}
	}
	return &a, nil
}
