package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/psipro/platform/internal/auth"
	"github.com/psipro/platform/pkg/logging"
)

// Options carries the defaults applied when a request omits them.
type Options struct {
	AgendaStartHour   int
	AgendaEndHour     int
	AgendaSlotMinutes int

	// DefaultOccurrences caps a recurring booking that does not say how
	// many weeks it spans. Zero means the package default.
	DefaultOccurrences int

	// DefaultSessionFee is applied to new bookings created without a value.
	DefaultSessionFee float64
}

// Handler exposes the scheduling service over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
	opts    Options
}

// NewHandler creates an appointments HTTP handler.
func NewHandler(service *Service, logger *logging.Logger, opts Options) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.AgendaStartHour == 0 && opts.AgendaEndHour == 0 {
		opts.AgendaStartHour, opts.AgendaEndHour = 7, 20
	}
	if opts.AgendaSlotMinutes <= 0 {
		opts.AgendaSlotMinutes = 60
	}
	if opts.DefaultOccurrences <= 0 {
		opts.DefaultOccurrences = DefaultOccurrences
	}
	return &Handler{service: service, logger: logger, opts: opts}
}

// Agenda handles GET /agenda?date=YYYY-MM-DD&start_hour=&end_hour=&slot_minutes=
func (h *Handler) Agenda(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	date := r.URL.Query().Get("date")
	startHour := queryInt(r, "start_hour", h.opts.AgendaStartHour)
	endHour := queryInt(r, "end_hour", h.opts.AgendaEndHour)
	slotMinutes := queryInt(r, "slot_minutes", h.opts.AgendaSlotMinutes)

	if startHour < 0 || endHour > 24 || startHour >= endHour || slotMinutes <= 0 {
		http.Error(w, "invalid agenda grid parameters", http.StatusBadRequest)
		return
	}

	slots, err := h.service.DayView(r.Context(), ownerID, date, startHour, endHour, slotMinutes)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "slots": slots})
}

// List handles GET /appointments?date= (date optional).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	appts, err := h.service.store.ListByOwner(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if date := r.URL.Query().Get("date"); date != "" {
		filtered := appts[:0]
		for _, a := range appts {
			if a.Date == date {
				filtered = append(filtered, a)
			}
		}
		appts = filtered
	}
	if appts == nil {
		appts = []Appointment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": appts, "count": len(appts)})
}

// Create handles POST /appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.createOrUpdate(w, r, "")
}

// Update handles PUT /appointments/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing appointment id", http.StatusBadRequest)
		return
	}
	h.createOrUpdate(w, r, id)
}

func (h *Handler) createOrUpdate(w http.ResponseWriter, r *http.Request, id string) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode booking request", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.ID = id
	if req.Recurring && req.Occurrences <= 0 {
		req.Occurrences = h.opts.DefaultOccurrences
	}
	if id == "" && req.Value == 0 {
		req.Value = h.opts.DefaultSessionFee
	}

	result, err := h.service.CreateOrUpdate(r.Context(), ownerID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	status := http.StatusCreated
	if id != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, result)
}

// Delete handles DELETE /appointments/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// setStatusRequest is the body of POST /appointments/{id}/status.
type setStatusRequest struct {
	Status        Status `json:"status"`
	Justification string `json:"justification,omitempty"`
}

// SetStatus handles POST /appointments/{id}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	appt, err := h.service.SetStatus(r.Context(), ownerID, id, req.Status, req.Justification)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// TogglePaid handles POST /appointments/{id}/toggle-paid.
func (h *Handler) TogglePaid(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	appt, err := h.service.TogglePaid(r.Context(), ownerID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// enhanceRequest is the body of POST /appointments/{id}/clinical-record/enhance.
// An empty field targets the session free-text notes.
type enhanceRequest struct {
	Field string `json:"field"`
}

// EnhanceClinicalRecord handles POST /appointments/{id}/clinical-record/enhance.
func (h *Handler) EnhanceClinicalRecord(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Field == "" {
		req.Field = "notes"
	}
	appt, err := h.service.EnhanceField(r.Context(), ownerID, id, req.Field)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrEnhancerUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, ErrMissingPatient),
		errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidNotesField),
		errors.Is(err, ErrMissingJustification):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("appointments request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return fallback
}
