package reminders

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/psipro/platform/internal/appointments"
	"github.com/psipro/platform/internal/auth"
	"github.com/psipro/platform/internal/patients"
	"github.com/psipro/platform/pkg/logging"
)

// PatientSource looks up the patient the reminder addresses.
type PatientSource interface {
	GetByID(ctx context.Context, ownerID, id string) (*patients.Patient, error)
}

// AppointmentSource looks up the appointment being reminded about.
type AppointmentSource interface {
	GetByID(ctx context.Context, ownerID, id string) (*appointments.Appointment, error)
}

// Handler serves reminder links for appointments.
type Handler struct {
	builder      *Builder
	patients     PatientSource
	appointments AppointmentSource
	logger       *logging.Logger
}

// NewHandler creates a reminders HTTP handler.
func NewHandler(builder *Builder, patientSrc PatientSource, apptSrc AppointmentSource, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{builder: builder, patients: patientSrc, appointments: apptSrc, logger: logger}
}

// Link handles GET /appointments/{id}/reminder and returns the WhatsApp link
// plus the rendered message.
func (h *Handler) Link(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	appt, err := h.appointments.GetByID(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	patient, err := h.patients.GetByID(r.Context(), ownerID, appt.PatientID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	link, err := h.builder.Link(*patient, *appt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	msg, err := h.builder.Message(*patient, *appt)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"link": link, "message": msg})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointments.ErrNotFound), errors.Is(err, patients.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("reminder request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
