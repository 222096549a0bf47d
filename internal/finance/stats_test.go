package finance

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
)

func TestStatsRepository_MonthStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	rows := mock.NewRows([]string{
		"paid", "unpaid", "paid_count", "completed", "canceled", "absent", "total",
	}).AddRow(600.0, 150.0, int64(4), int64(4), int64(1), int64(1), int64(6))
	mock.ExpectQuery("SELECT(.+)FROM sessions").
		WithArgs("prac-1", "2024-03-%").
		WillReturnRows(rows)

	repo := NewStatsRepositoryWithDB(mock)
	stats, err := repo.MonthStats(context.Background(), "prac-1", "2024-03")
	if err != nil {
		t.Fatalf("MonthStats: %v", err)
	}
	if stats.PaidRevenue != 600 || stats.UnpaidRevenue != 150 {
		t.Fatalf("unexpected revenue: %+v", stats)
	}
	if stats.ExpectedRevenue != 750 {
		t.Fatalf("expected revenue 750, got %v", stats.ExpectedRevenue)
	}
	if stats.TotalSessions != 6 || stats.CanceledSessions != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStatsRepository_PatientTotals(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	rows := mock.NewRows([]string{"patient_id", "full_name", "sessions", "paid_total"}).
		AddRow("pat-1", "Ana Silva", int64(4), 600.0).
		AddRow("pat-2", "Bruna Costa", int64(2), 300.0)
	mock.ExpectQuery("SELECT(.+)FROM sessions s").
		WithArgs("prac-1", "2024-03-%").
		WillReturnRows(rows)

	repo := NewStatsRepositoryWithDB(mock)
	totals, err := repo.PatientTotals(context.Background(), "prac-1", "2024-03")
	if err != nil {
		t.Fatalf("PatientTotals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(totals))
	}
	if totals[0].PatientName != "Ana Silva" || totals[0].PaidTotal != 600 {
		t.Fatalf("unexpected first row: %+v", totals[0])
	}
}
