// Package audit keeps an append-only trail of scheduling mutations. Clinical
// practice records are subject to professional-council retention rules, so
// every create, update, delete, status change and payment toggle is logged.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType classifies an audit event.
type EventType string

const (
	// EventScheduling is logged for appointment mutations.
	EventScheduling EventType = "scheduling"
	// EventDocument is logged when a clinical document is generated or removed.
	EventDocument EventType = "document"
)

// Event is one immutable audit record.
type Event struct {
	ID        string    `json:"id"`
	EventType EventType `json:"event_type"`
	OwnerID   string    `json:"owner_id"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Service handles audit logging over database/sql.
type Service struct {
	db *sql.DB
}

// NewService creates an audit service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// LogEvent records one audit event.
func (s *Service) LogEvent(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO audit_events (id, event_type, user_id, action, entity_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := s.db.ExecContext(ctx, query,
		event.ID, event.EventType, event.OwnerID, event.Action,
		event.EntityID, event.CreatedAt,
	); err != nil {
		return fmt.Errorf("audit: failed to log event: %w", err)
	}
	return nil
}

// RecordScheduling logs one appointment mutation. It satisfies the scheduling
// service's auditor interface.
func (s *Service) RecordScheduling(ctx context.Context, ownerID, action, appointmentID string) error {
	return s.LogEvent(ctx, Event{
		EventType: EventScheduling,
		OwnerID:   ownerID,
		Action:    action,
		EntityID:  appointmentID,
	})
}

// RecordDocument logs one document mutation.
func (s *Service) RecordDocument(ctx context.Context, ownerID, action, documentID string) error {
	return s.LogEvent(ctx, Event{
		EventType: EventDocument,
		OwnerID:   ownerID,
		Action:    action,
		EntityID:  documentID,
	})
}

// QueryEvents retrieves the owner's audit trail, newest first.
func (s *Service) QueryEvents(ctx context.Context, ownerID string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, event_type, user_id, action, entity_id, created_at
		FROM audit_events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.EventType, &e.OwnerID, &e.Action, &e.EntityID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: event rows: %w", err)
	}
	return out, nil
}
