// Package finance computes the revenue and attendance aggregates behind the
// practitioner's monthly dashboard.
package finance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MonthStats are the dashboard aggregates for one calendar month. Values are
// session fees in the practitioner's currency.
type MonthStats struct {
	Month             string  `json:"month"` // YYYY-MM
	PaidRevenue       float64 `json:"paid_revenue"`
	UnpaidRevenue     float64 `json:"unpaid_revenue"`
	ExpectedRevenue   float64 `json:"expected_revenue"`
	PaidSessions      int64   `json:"paid_sessions"`
	CompletedSessions int64   `json:"completed_sessions"`
	CanceledSessions  int64   `json:"canceled_sessions"`
	AbsentSessions    int64   `json:"absent_sessions"`
	TotalSessions     int64   `json:"total_sessions"`
}

// PatientTotal is one patient's paid revenue within the period.
type PatientTotal struct {
	PatientID   string  `json:"patient_id"`
	PatientName string  `json:"patient_name"`
	Sessions    int64   `json:"sessions"`
	PaidTotal   float64 `json:"paid_total"`
}

// statsDB defines the database interface needed by StatsRepository.
type statsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// StatsRepository queries scheduling aggregates from the sessions table.
// Canceled sessions never count toward revenue; expected revenue is the sum
// over the month's non-canceled sessions whether or not they are paid yet.
type StatsRepository struct {
	db statsDB
}

// NewStatsRepository creates a stats repository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	if pool == nil {
		panic("finance: pgx pool required")
	}
	return &StatsRepository{db: pool}
}

// NewStatsRepositoryWithDB allows injecting a mock database for testing.
func NewStatsRepositoryWithDB(db statsDB) *StatsRepository {
	return &StatsRepository{db: db}
}

// MonthStats aggregates the practitioner's sessions for one month.
// month is YYYY-MM; the date column is YYYY-MM-DD text so a prefix match
// selects the month.
func (r *StatsRepository) MonthStats(ctx context.Context, ownerID, month string) (*MonthStats, error) {
	stats := &MonthStats{Month: month}
	prefix := month + "-%"

	query := `
		SELECT
			COALESCE(SUM(value) FILTER (WHERE is_paid AND status <> 'canceled'), 0),
			COALESCE(SUM(value) FILTER (WHERE NOT is_paid AND status <> 'canceled'), 0),
			COUNT(*) FILTER (WHERE is_paid AND status <> 'canceled'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'canceled'),
			COUNT(*) FILTER (WHERE status = 'absent'),
			COUNT(*)
		FROM sessions
		WHERE user_id = $1 AND date LIKE $2`
	if err := r.db.QueryRow(ctx, query, ownerID, prefix).Scan(
		&stats.PaidRevenue, &stats.UnpaidRevenue, &stats.PaidSessions,
		&stats.CompletedSessions, &stats.CanceledSessions,
		&stats.AbsentSessions, &stats.TotalSessions,
	); err != nil {
		return nil, fmt.Errorf("finance: month aggregates: %w", err)
	}
	stats.ExpectedRevenue = stats.PaidRevenue + stats.UnpaidRevenue
	return stats, nil
}

// PatientTotals lists per-patient paid revenue for one month, biggest first.
func (r *StatsRepository) PatientTotals(ctx context.Context, ownerID, month string) ([]PatientTotal, error) {
	query := `
		SELECT s.patient_id, p.full_name,
			COUNT(*) FILTER (WHERE s.status <> 'canceled'),
			COALESCE(SUM(s.value) FILTER (WHERE s.is_paid AND s.status <> 'canceled'), 0)
		FROM sessions s
		JOIN patients p ON p.id = s.patient_id
		WHERE s.user_id = $1 AND s.date LIKE $2
		GROUP BY s.patient_id, p.full_name
		ORDER BY 4 DESC, p.full_name`
	rows, err := r.db.Query(ctx, query, ownerID, month+"-%")
	if err != nil {
		return nil, fmt.Errorf("finance: patient totals: %w", err)
	}
	defer rows.Close()

	var out []PatientTotal
	for rows.Next() {
		var t PatientTotal
		if err := rows.Scan(&t.PatientID, &t.PatientName, &t.Sessions, &t.PaidTotal); err != nil {
			return nil, fmt.Errorf("finance: scan patient total: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("finance: patient totals rows: %w", err)
	}
	return out, nil
}
