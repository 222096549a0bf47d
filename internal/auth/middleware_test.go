package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newProtectedHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := PractitionerIDFromContext(r.Context())
		if !ok {
			t.Fatal("expected practitioner id in context")
		}
		w.Write([]byte(id))
	})
}

func TestMiddleware_ValidToken(t *testing.T) {
	secret := "test-secret"
	token, err := IssueToken(secret, "prac-123", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/agenda", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	Middleware(secret)(newProtectedHandler(t)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "prac-123" {
		t.Fatalf("expected practitioner id in body, got %q", w.Body.String())
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/agenda", nil)
	w := httptest.NewRecorder()

	Middleware("secret")(http.NotFoundHandler()).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMiddleware_WrongSecret(t *testing.T) {
	token, err := IssueToken("other-secret", "prac-123", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/agenda", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	Middleware("secret")(http.NotFoundHandler()).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	secret := "secret"
	token, err := IssueToken(secret, "prac-123", -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/agenda", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	Middleware(secret)(http.NotFoundHandler()).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestPractitionerIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := PractitionerIDFromContext(req.Context()); ok {
		t.Fatal("expected no practitioner id on bare context")
	}
}
