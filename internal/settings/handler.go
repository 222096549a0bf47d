package settings

import (
	"encoding/json"
	"net/http"

	"github.com/psipro/platform/internal/auth"
	"github.com/psipro/platform/pkg/logging"
)

// Handler exposes the practitioner profile over HTTP.
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a settings HTTP handler.
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Get handles GET /settings.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	s, err := h.store.Get(r.Context(), ownerID)
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

// Save handles PUT /settings.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}
	var s Settings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s.Normalize()
	if err := h.store.Save(r.Context(), ownerID, s); err != nil {
		h.logger.Error("failed to save settings", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}
