package documents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/psipro/platform/internal/appointments"
	"github.com/psipro/platform/internal/observability/metrics"
	"github.com/psipro/platform/internal/patients"
	"github.com/psipro/platform/internal/settings"
	"github.com/psipro/platform/pkg/logging"
)

var tracer = otel.Tracer("psipro.internal.documents")

// PatientSource looks up one patient record. *patients.PostgresStore and
// *patients.InMemoryStore satisfy it.
type PatientSource interface {
	GetByID(ctx context.Context, ownerID, id string) (*patients.Patient, error)
}

// AppointmentSource looks up one appointment for session records.
type AppointmentSource interface {
	GetByID(ctx context.Context, ownerID, id string) (*appointments.Appointment, error)
}

// SettingsSource provides the practitioner profile stamped on every document.
type SettingsSource interface {
	Get(ctx context.Context, ownerID string) (settings.Settings, error)
}

// Blobs is the blob storage surface the service needs. *BlobStore satisfies
// it; tests swap in a fake.
type Blobs interface {
	Upload(ctx context.Context, key, html string) error
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string) (string, error)
}

// Service renders documents and keeps blob and metadata storage in step.
type Service struct {
	store        Store
	blobs        Blobs
	renderer     *Renderer
	patients     PatientSource
	appointments AppointmentSource
	settings     SettingsSource
	metrics      *metrics.DocumentMetrics
	logger       *logging.Logger
	now          func() time.Time
}

// NewService wires a document service.
func NewService(store Store, blobs Blobs, patientSrc PatientSource, apptSrc AppointmentSource, settingsSrc SettingsSource, m *metrics.DocumentMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:        store,
		blobs:        blobs,
		renderer:     NewRenderer(),
		patients:     patientSrc,
		appointments: apptSrc,
		settings:     settingsSrc,
		metrics:      m,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Generate renders a declaration or report for a patient, uploads the HTML
// and records the metadata row. Session records go through
// GenerateSessionRecord since they need an appointment.
func (s *Service) Generate(ctx context.Context, ownerID, patientID string, docType DocumentType) (*ClinicalDocument, error) {
	ctx, span := tracer.Start(ctx, "documents.Generate")
	defer span.End()
	span.SetAttributes(attribute.String("document.type", string(docType)))

	patient, err := s.patients.GetByID(ctx, ownerID, patientID)
	if err != nil {
		return nil, err
	}
	profile, err := s.settings.Get(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("documents: load settings: %w", err)
	}

	now := s.now()
	var title, html string
	switch docType {
	case TypeDeclaration:
		title = "Declaração de Comparecimento"
		html, err = s.renderer.Declaration(*patient, profile, now)
	case TypeReport:
		title = "Laudo Psicológico Simples"
		html, err = s.renderer.Report(*patient, profile, now)
	default:
		return nil, ErrInvalidType
	}
	if err != nil {
		return nil, err
	}

	return s.persist(ctx, ownerID, ClinicalDocument{
		ID:        uuid.NewString(),
		PatientID: patient.ID,
		Type:      docType,
		Title:     title,
		CreatedAt: now,
	}, html)
}

// GenerateSessionRecord renders the session-record document for one
// appointment from its clinical notes.
func (s *Service) GenerateSessionRecord(ctx context.Context, ownerID, appointmentID string) (*ClinicalDocument, error) {
	ctx, span := tracer.Start(ctx, "documents.GenerateSessionRecord")
	defer span.End()

	appt, err := s.appointments.GetByID(ctx, ownerID, appointmentID)
	if err != nil {
		return nil, err
	}
	patient, err := s.patients.GetByID(ctx, ownerID, appt.PatientID)
	if err != nil {
		return nil, err
	}
	profile, err := s.settings.Get(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("documents: load settings: %w", err)
	}

	now := s.now()
	html, err := s.renderer.SessionRecord(*patient, profile, *appt, now)
	if err != nil {
		return nil, err
	}

	return s.persist(ctx, ownerID, ClinicalDocument{
		ID:        uuid.NewString(),
		PatientID: patient.ID,
		Type:      TypeSessionRecord,
		Title:     fmt.Sprintf("Prontuário - %s", formatDateBR(appt.Date)),
		CreatedAt: now,
	}, html)
}

func (s *Service) persist(ctx context.Context, ownerID string, doc ClinicalDocument, html string) (*ClinicalDocument, error) {
	doc.StorageKey = Key(ownerID, doc.PatientID, doc.ID)
	if err := s.blobs.Upload(ctx, doc.StorageKey, html); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, ownerID, doc); err != nil {
		return nil, err
	}
	s.metrics.ObserveGenerated(string(doc.Type))
	s.logger.Info("generated clinical document",
		"document_id", doc.ID,
		"patient_id", doc.PatientID,
		"type", doc.Type,
	)
	return &doc, nil
}

// List returns the owner's documents, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]ClinicalDocument, error) {
	return s.store.List(ctx, ownerID)
}

// DownloadURL returns a presigned URL for the document's HTML.
func (s *Service) DownloadURL(ctx context.Context, ownerID, id string) (string, error) {
	doc, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	return s.blobs.SignedURL(ctx, doc.StorageKey)
}

// Delete removes the blob and then the metadata row. A blob delete failure
// is logged and does not keep the row alive: the row is the source of truth
// and orphaned objects are harmless.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	ctx, span := tracer.Start(ctx, "documents.Delete")
	defer span.End()

	doc, err := s.store.GetByID(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, doc.StorageKey); err != nil {
		s.logger.Warn("failed to delete document blob", "s3_key", doc.StorageKey, "error", err)
	}
	return s.store.Delete(ctx, ownerID, id)
}
