package patients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/psipro/platform/internal/auth"
	"github.com/psipro/platform/pkg/logging"
)

// Handler exposes patient CRUD over HTTP.
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a patients HTTP handler.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /patients.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	list, err := h.store.List(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if list == nil {
		list = []Patient{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"patients": list, "count": len(list)})
}

// Get handles GET /patients/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	p, err := h.store.GetByID(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create handles POST /patients.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "")
}

// Update handles PUT /patients/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing patient id", http.StatusBadRequest)
		return
	}
	h.save(w, r, id)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, id string) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	var p Patient
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.logger.Error("failed to decode patient", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := p.Validate(); err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusCreated
	if id != "" {
		// Updates must target an existing row owned by the caller.
		if _, err := h.store.GetByID(r.Context(), ownerID, id); err != nil {
			h.writeError(w, err)
			return
		}
		p.ID = id
		status = http.StatusOK
	} else if p.ID == "" {
		p.ID = uuid.NewString()
	}

	if err := h.store.Upsert(r.Context(), ownerID, p); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, status, p)
}

// Delete handles DELETE /patients/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	if err := h.store.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrMissingName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("patients request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
