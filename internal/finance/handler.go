package finance

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/psipro/platform/internal/auth"
	"github.com/psipro/platform/pkg/logging"
)

// Handler exposes the finance dashboard aggregates over HTTP.
type Handler struct {
	repo   *StatsRepository
	logger *logging.Logger
	now    func() time.Time
}

// NewHandler creates a finance HTTP handler.
func NewHandler(repo *StatsRepository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger, now: time.Now}
}

// Month handles GET /finance?month=YYYY-MM. The current month is the
// default.
func (h *Handler) Month(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.PractitionerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		month = h.now().UTC().Format("2006-01")
	} else if _, err := time.Parse("2006-01", month); err != nil {
		http.Error(w, "invalid month, use YYYY-MM", http.StatusBadRequest)
		return
	}

	stats, err := h.repo.MonthStats(r.Context(), ownerID, month)
	if err != nil {
		h.logger.Error("failed to load month stats", "month", month, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	totals, err := h.repo.PatientTotals(r.Context(), ownerID, month)
	if err != nil {
		h.logger.Error("failed to load patient totals", "month", month, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if totals == nil {
		totals = []PatientTotal{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"stats":          stats,
		"patient_totals": totals,
	})
}
