package settings

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists settings in the user_settings table, one row per
// practitioner.
type PostgresStore struct {
	db pgDB
}

// NewPostgresStore creates a store backed by a pgx pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("settings: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

// NewPostgresStoreWithDB allows injecting a mock database for testing.
func NewPostgresStoreWithDB(db pgDB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get returns the practitioner's settings. A missing row is not an error: the
// zero value is returned so new accounts start with an empty profile.
func (s *PostgresStore) Get(ctx context.Context, ownerID string) (Settings, error) {
	query := `SELECT name, email, crp, phone, address, document_number,
			specializations, approach
		FROM user_settings
		WHERE user_id = $1`
	var out Settings
	err := s.db.QueryRow(ctx, query, ownerID).Scan(
		&out.Name, &out.Email, &out.CRP, &out.Phone, &out.Address,
		&out.DocumentNumber, &out.Specializations, &out.Approach,
	)
	if err == pgx.ErrNoRows {
		return Settings{}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("settings: select failed: %w", err)
	}
	return out, nil
}

// Save upserts the practitioner's settings row.
func (s *PostgresStore) Save(ctx context.Context, ownerID string, in Settings) error {
	query := `
		INSERT INTO user_settings (user_id, name, email, crp, phone, address,
			document_number, specializations, approach)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			crp = EXCLUDED.crp,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			document_number = EXCLUDED.document_number,
			specializations = EXCLUDED.specializations,
			approach = EXCLUDED.approach
	`
	if _, err := s.db.Exec(ctx, query,
		ownerID, in.Name, in.Email, in.CRP, in.Phone, in.Address,
		in.DocumentNumber, in.Specializations, in.Approach,
	); err != nil {
		return fmt.Errorf("settings: upsert failed: %w", err)
	}
	return nil
}
