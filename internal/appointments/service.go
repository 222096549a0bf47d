package appointments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/psipro/platform/internal/observability/metrics"
	"github.com/psipro/platform/pkg/logging"
)

var tracer = otel.Tracer("psipro.internal.appointments")

// Auditor records scheduling mutations. A nil Auditor disables auditing.
type Auditor interface {
	RecordScheduling(ctx context.Context, ownerID, action, appointmentID string) error
}

// Service orchestrates slot validation, conflict checks and recurrence
// expansion against the appointment store. It holds no per-request state;
// every operation loads the practitioner's collection, computes and writes
// back. The conflict check and the write are not atomic: two simultaneous
// bookings for the same slot can race, an accepted limitation of the
// single-practitioner usage model.
type Service struct {
	store    Store
	auditor  Auditor
	enhancer NotesEnhancer
	metrics  *metrics.SchedulingMetrics
	logger   *logging.Logger
}

// NewService constructs a scheduling service.
func NewService(store Store, auditor Auditor, m *metrics.SchedulingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("appointments: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, auditor: auditor, metrics: m, logger: logger}
}

// BookingRequest carries the fields of a create or edit submission. An
// empty ID means a new booking. Occurrences is only consulted when
// Recurring is set and defaults to DefaultOccurrences.
type BookingRequest struct {
	ID              string   `json:"id,omitempty"`
	PatientID       string   `json:"patient_id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	DurationMinutes int      `json:"duration_minutes"`
	Modality        Modality `json:"type"`
	Notes           string   `json:"notes"`
	Value           float64  `json:"value"`
	IsPaid          bool     `json:"is_paid"`
	Recurring       bool     `json:"recurring"`
	Occurrences     int      `json:"occurrences,omitempty"`
}

func (r *BookingRequest) validate() error {
	if strings.TrimSpace(r.PatientID) == "" {
		return ErrMissingPatient
	}
	if r.DurationMinutes < 10 || r.DurationMinutes > 240 {
		return ErrInvalidDuration
	}
	if !ValidDate(r.Date) || !ValidClock(r.StartTime) {
		return ErrInvalidDate
	}
	return nil
}

// BookingResult is what a successful CreateOrUpdate returns: the persisted
// appointments (one, or the whole recurrence series) and the weekly dates
// the expansion had to skip. Surfacing the skips is deliberate; silently
// under-booking with no feedback would leave the practitioner guessing.
type BookingResult struct {
	Appointments []Appointment `json:"appointments"`
	SkippedDates []string      `json:"skipped_dates,omitempty"`
}

// CreateOrUpdate validates the request, rejects conflicting slots and
// persists either a single appointment or a weekly series. On conflict
// nothing is written. Edits never re-expand a recurrence; they keep the
// appointment's series tag and clinical record.
func (s *Service) CreateOrUpdate(ctx context.Context, ownerID string, req BookingRequest) (*BookingResult, error) {
	ctx, span := tracer.Start(ctx, "appointments.create_or_update")
	defer span.End()
	span.SetAttributes(attribute.String("psipro.practitioner_id", ownerID))

	if err := req.validate(); err != nil {
		return nil, err
	}
	// StartTime already passed ValidClock, so an error here means the
	// session would run past midnight.
	endTime, err := AddMinutes(req.StartTime, req.DurationMinutes)
	if err != nil {
		return nil, ErrInvalidDuration
	}

	existing, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if HasConflict(req.Date, req.StartTime, endTime, existing, req.ID) {
		s.metrics.ObserveConflict()
		s.logger.Info("booking rejected, slot taken",
			"practitioner_id", ownerID, "date", req.Date, "start", req.StartTime)
		return nil, ErrConflict
	}

	appt := Appointment{
		ID:        req.ID,
		PatientID: req.PatientID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   endTime,
		Status:    StatusScheduled,
		Modality:  req.Modality,
		Notes:     req.Notes,
		Value:     req.Value,
		IsPaid:    req.IsPaid,
	}
	appt.normalize()

	isEdit := req.ID != ""
	if isEdit {
		prev, err := s.store.GetByID(ctx, ownerID, req.ID)
		if err != nil {
			return nil, err
		}
		// Edits keep series membership, clinical state and status.
		appt.RecurrenceID = prev.RecurrenceID
		appt.ClinicalRecord = prev.ClinicalRecord
		appt.Status = prev.Status
		appt.AbsenceJustification = prev.AbsenceJustification
	} else {
		appt.ID = uuid.NewString()
	}

	if req.Recurring && !isEdit {
		series, err := ExpandWeekly(appt, req.Occurrences, existing)
		if err != nil {
			return nil, err
		}
		if err := s.store.UpsertBatch(ctx, ownerID, series.Appointments); err != nil {
			span.RecordError(err)
			return nil, err
		}
		s.metrics.ObserveBooking("recurring", len(series.Appointments))
		s.metrics.ObserveRecurrenceSkips(len(series.SkippedDates))
		s.recordAudit(ctx, ownerID, "appointment.series_created", series.Appointments[0].ID)
		s.logger.Info("recurring booking created",
			"practitioner_id", ownerID,
			"recurrence_id", series.Appointments[0].RecurrenceID,
			"occurrences", len(series.Appointments),
			"skipped", len(series.SkippedDates),
		)
		return &BookingResult{Appointments: series.Appointments, SkippedDates: series.SkippedDates}, nil
	}

	if err := s.store.Upsert(ctx, ownerID, appt); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveBooking("single", 1)
	action := "appointment.created"
	if isEdit {
		action = "appointment.updated"
	}
	s.recordAudit(ctx, ownerID, action, appt.ID)
	s.logger.Info("booking saved",
		"practitioner_id", ownerID, "appointment_id", appt.ID,
		"date", appt.Date, "start", appt.StartTime, "edit", isEdit)
	return &BookingResult{Appointments: []Appointment{appt}}, nil
}

// Delete removes a single appointment. Documents and other state are not
// cascaded here; the database handles referential cleanup.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	ctx, span := tracer.Start(ctx, "appointments.delete")
	defer span.End()

	if err := s.store.Delete(ctx, ownerID, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.recordAudit(ctx, ownerID, "appointment.deleted", id)
	s.logger.Info("appointment deleted", "practitioner_id", ownerID, "appointment_id", id)
	return nil
}

// SetStatus transitions an appointment's status. Marking an absence
// requires a non-empty justification, stored in its own field; re-marking
// replaces the previous justification instead of stacking. Moving off
// absent clears it.
func (s *Service) SetStatus(ctx context.Context, ownerID, id string, status Status, justification string) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "appointments.set_status")
	defer span.End()

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	justification = strings.TrimSpace(justification)
	if status == StatusAbsent && justification == "" {
		return nil, ErrMissingJustification
	}

	appt, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	appt.Status = status
	if status == StatusAbsent {
		appt.AbsenceJustification = justification
	} else {
		appt.AbsenceJustification = ""
	}

	if err := s.store.Upsert(ctx, ownerID, *appt); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveStatusChange(string(status))
	s.recordAudit(ctx, ownerID, "appointment.status."+string(status), id)
	s.logger.Info("appointment status changed",
		"practitioner_id", ownerID, "appointment_id", id, "status", status)
	return appt, nil
}

// TogglePaid flips the payment flag. There is no business rule beyond the
// flip, not even that the session happened.
func (s *Service) TogglePaid(ctx context.Context, ownerID, id string) (*Appointment, error) {
	appt, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	appt.IsPaid = !appt.IsPaid
	if err := s.store.Upsert(ctx, ownerID, *appt); err != nil {
		return nil, err
	}
	s.recordAudit(ctx, ownerID, "appointment.toggle_paid", id)
	return appt, nil
}

// SlotState tells the agenda how to render a grid slot.
type SlotState string

const (
	// SlotFree is an open, bookable slot.
	SlotFree SlotState = "free"
	// SlotBooked is a slot where an appointment starts.
	SlotBooked SlotState = "booked"
	// SlotBusy is covered by an appointment that started earlier.
	SlotBusy SlotState = "busy"
)

// SlotView is one row of the rendered day grid.
type SlotView struct {
	Time        string       `json:"time"`
	State       SlotState    `json:"state"`
	Appointment *Appointment `json:"appointment,omitempty"`
}

// DayView produces the agenda grid for one date: every slot label plus
// whether it is free, starts an appointment, or continues one.
func (s *Service) DayView(ctx context.Context, ownerID, date string, startHour, endHour, slotMinutes int) ([]SlotView, error) {
	if !ValidDate(date) {
		return nil, ErrInvalidDate
	}
	existing, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	labels := GenerateSlots(startHour, endHour, slotMinutes)
	views := make([]SlotView, 0, len(labels))
	for _, t := range labels {
		view := SlotView{Time: t, State: SlotFree}
		if appt := startingAt(date, t, existing); appt != nil {
			view.State = SlotBooked
			view.Appointment = appt
		} else if occupiedAt(date, t, existing) {
			view.State = SlotBusy
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) recordAudit(ctx context.Context, ownerID, action, apptID string) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.RecordScheduling(ctx, ownerID, action, apptID); err != nil {
		s.logger.Warn("audit record failed", "action", action, "error", err)
	}
}
