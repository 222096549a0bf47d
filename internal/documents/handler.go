package documents

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/psipro/platform/internal/appointments"
	"github.com/psipro/platform/internal/auth"
	"github.com/psipro/platform/internal/patients"
	"github.com/psipro/platform/pkg/logging"
)

// Handler exposes document generation and retrieval over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a documents HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// List handles GET /documents?patient_id= (filter optional).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	docs, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if patientID := r.URL.Query().Get("patient_id"); patientID != "" {
		filtered := docs[:0]
		for _, d := range docs {
			if d.PatientID == patientID {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}
	if docs == nil {
		docs = []ClinicalDocument{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs, "count": len(docs)})
}

// generateRequest is the body of POST /documents.
type generateRequest struct {
	PatientID     string       `json:"patient_id"`
	AppointmentID string       `json:"appointment_id,omitempty"`
	Type          DocumentType `json:"type"`
}

// Generate handles POST /documents. Session records reference an
// appointment; declarations and reports reference a patient.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !req.Type.Valid() {
		http.Error(w, ErrInvalidType.Error(), http.StatusBadRequest)
		return
	}

	var doc *ClinicalDocument
	var err error
	if req.Type == TypeSessionRecord {
		if req.AppointmentID == "" {
			http.Error(w, "appointment_id is required for session records", http.StatusBadRequest)
			return
		}
		doc, err = h.service.GenerateSessionRecord(r.Context(), ownerID, req.AppointmentID)
	} else {
		if req.PatientID == "" {
			http.Error(w, "patient_id is required", http.StatusBadRequest)
			return
		}
		doc, err = h.service.Generate(r.Context(), ownerID, req.PatientID, req.Type)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// Download handles GET /documents/{id}/download and returns the presigned
// blob URL.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	url, err := h.service.DownloadURL(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Delete handles DELETE /documents/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	if err := h.service.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, patients.ErrNotFound),
		errors.Is(err, appointments.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("documents request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
