package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/psipro/platform/internal/auth"
)

func newHandlerFixture(t *testing.T) (*fixture, http.Handler) {
	t.Helper()
	f := newFixture(t)
	h := NewHandler(f.service, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithPractitionerID(req.Context(), testOwner)))
		})
	})
	r.Get("/documents", h.List)
	r.Post("/documents", h.Generate)
	r.Get("/documents/{id}/download", h.Download)
	r.Delete("/documents/{id}", h.Delete)
	return f, r
}

func TestHandler_GenerateDeclaration(t *testing.T) {
	_, router := newHandlerFixture(t)

	body, _ := json.Marshal(generateRequest{PatientID: "pat-1", Type: TypeDeclaration})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var doc ClinicalDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Equal(t, TypeDeclaration, doc.Type)
	require.NotEmpty(t, doc.StorageKey)
}

func TestHandler_GenerateValidation(t *testing.T) {
	_, router := newHandlerFixture(t)

	cases := []struct {
		name string
		body generateRequest
	}{
		{"unknown type", generateRequest{PatientID: "pat-1", Type: "BOGUS"}},
		{"missing patient", generateRequest{Type: TypeReport}},
		{"session record without appointment", generateRequest{PatientID: "pat-1", Type: TypeSessionRecord}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(body)))
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_GenerateUnknownPatientIs404(t *testing.T) {
	_, router := newHandlerFixture(t)

	body, _ := json.Marshal(generateRequest{PatientID: "nope", Type: TypeReport})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader(body)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ListFiltersByPatient(t *testing.T) {
	f, router := newHandlerFixture(t)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, testOwner, "pat-1", TypeDeclaration)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents?patient_id=pat-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Documents []ClinicalDocument `json:"documents"`
		Count     int                `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents?patient_id=other", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Count)
}

func TestHandler_DownloadAndDelete(t *testing.T) {
	f, router := newHandlerFixture(t)

	doc, err := f.service.Generate(context.Background(), testOwner, "pat-1", TypeReport)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/"+doc.ID+"/download", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["url"], doc.StorageKey)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/documents/"+doc.ID, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/documents/"+doc.ID+"/download", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
