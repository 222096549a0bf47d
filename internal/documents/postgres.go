package documents

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

// PostgresStore persists document metadata in the documents table.
type PostgresStore struct {
	db pgDB
}

// NewPostgresStore creates a store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("documents: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithDB allows injecting a mock database for testing.
func NewPostgresStoreWithDB(db pgDB) *PostgresStore {
	return &PostgresStore{db: db}
}

const documentColumns = `id, patient_id, doc_type, title, storage_key, created_at`

// List returns the owner's documents, newest first.
func (s *PostgresStore) List(ctx context.Context, ownerID string) ([]ClinicalDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := s.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("documents: list failed: %w", err)
	}
	defer rows.Close()

	var out []ClinicalDocument
	for rows.Next() {
		var d ClinicalDocument
		if err := rows.Scan(&d.ID, &d.PatientID, &d.Type, &d.Title, &d.StorageKey, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("documents: scan failed: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("documents: list rows: %w", err)
	}
	return out, nil
}

// GetByID fetches one document scoped to the practitioner.
func (s *PostgresStore) GetByID(ctx context.Context, ownerID, id string) (*ClinicalDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1 AND user_id = $2`
	var d ClinicalDocument
	if err := s.db.QueryRow(ctx, query, id, ownerID).Scan(
		&d.ID, &d.PatientID, &d.Type, &d.Title, &d.StorageKey, &d.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("documents: select failed: %w", err)
	}
	return &d, nil
}

// Insert stores one document row.
func (s *PostgresStore) Insert(ctx context.Context, ownerID string, doc ClinicalDocument) error {
	query := `
		INSERT INTO documents (id, user_id, patient_id, doc_type, title,
			storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := s.db.Exec(ctx, query,
		doc.ID, ownerID, doc.PatientID, doc.Type, doc.Title, doc.StorageKey,
		doc.CreatedAt,
	); err != nil {
		return fmt.Errorf("documents: insert failed: %w", err)
	}
	return nil
}

// Delete removes one document row.
func (s *PostgresStore) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("documents: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
