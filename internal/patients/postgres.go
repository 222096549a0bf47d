package patients

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists patients in the patients table.
type PostgresStore struct {
	db pgDB
}

// NewPostgresStore creates a store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("patients: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithDB allows injecting a mock database for testing.
func NewPostgresStoreWithDB(db pgDB) *PostgresStore {
	return &PostgresStore{db: db}
}

const patientColumns = `id, full_name, birth_date, cpf, phone, email,
	preferred_type, clinical_history, notes, diagnosis, registration_date`

// List loads the practitioner's patients ordered by full name.
func (s *PostgresStore) List(ctx context.Context, ownerID string) ([]Patient, error) {
	query := `SELECT ` + patientColumns + `
		FROM patients
		WHERE user_id = $1
		ORDER BY full_name`
	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("patients: list failed: %w", err)
	}
	defer rows.Close()

	var out []Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(
			&p.ID, &p.FullName, &p.BirthDate, &p.CPF, &p.Phone, &p.Email,
			&p.PreferredType, &p.ClinicalHistory, &p.Notes, &p.Diagnosis,
			&p.RegistrationDate,
		); err != nil {
			return nil, fmt.Errorf("patients: scan failed: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("patients: list rows: %w", err)
	}
	return out, nil
}

// GetByID fetches one patient scoped to the practitioner.
func (s *PostgresStore) GetByID(ctx context.Context, ownerID, id string) (*Patient, error) {
	query := `SELECT ` + patientColumns + `
		FROM patients
		WHERE id = $1 AND user_id = $2`
	var p Patient
	if err := s.db.QueryRow(ctx, query, id, ownerID).Scan(
		&p.ID, &p.FullName, &p.BirthDate, &p.CPF, &p.Phone, &p.Email,
		&p.PreferredType, &p.ClinicalHistory, &p.Notes, &p.Diagnosis,
		&p.RegistrationDate,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("patients: select failed: %w", err)
	}
	return &p, nil
}

// Upsert writes one patient row.
func (s *PostgresStore) Upsert(ctx context.Context, ownerID string, p Patient) error {
	query := `
		INSERT INTO patients (id, user_id, full_name, birth_date, cpf, phone,
			email, preferred_type, clinical_history, notes, diagnosis,
			registration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			birth_date = EXCLUDED.birth_date,
			cpf = EXCLUDED.cpf,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			preferred_type = EXCLUDED.preferred_type,
			clinical_history = EXCLUDED.clinical_history,
			notes = EXCLUDED.notes,
			diagnosis = EXCLUDED.diagnosis,
			registration_date = EXCLUDED.registration_date
		WHERE patients.user_id = EXCLUDED.user_id
	`
	if _, err := s.db.Exec(ctx, query,
		p.ID, ownerID, p.FullName, p.BirthDate, p.CPF, p.Phone, p.Email,
		p.PreferredType, p.ClinicalHistory, p.Notes, p.Diagnosis,
		p.RegistrationDate,
	); err != nil {
		return fmt.Errorf("patients: upsert failed: %w", err)
	}
	return nil
}

// Delete removes one patient. The database cascades the patient's sessions
// and documents.
func (s *PostgresStore) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM patients WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("patients: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
