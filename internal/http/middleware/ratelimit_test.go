package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/psipro/platform/internal/auth"
)

func TestRateLimit_ThrottlesMutationsPerPractitioner(t *testing.T) {
	// Negligible refill rate so the burst is all a bucket gets.
	handler := RateLimit(0.0001, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(practitioner, method string) int {
		req := httptest.NewRequest(method, "/appointments", nil)
		if practitioner != "" {
			req = req.WithContext(auth.WithPractitionerID(req.Context(), practitioner))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := do("prac-1", http.MethodPost); code != http.StatusNoContent {
			t.Fatalf("request %d within burst: got %d", i, code)
		}
	}
	if code := do("prac-1", http.MethodPost); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 past the burst, got %d", code)
	}

	// A different session behind the same address gets its own bucket.
	if code := do("prac-2", http.MethodPost); code != http.StatusNoContent {
		t.Fatalf("expected fresh bucket for another practitioner, got %d", code)
	}

	// Reads bypass the limiter entirely.
	if code := do("prac-1", http.MethodGet); code != http.StatusNoContent {
		t.Fatalf("expected GET to bypass the limiter, got %d", code)
	}
}
