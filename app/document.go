package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/codybmenefee/custodian-integration-tool/adapters/metrics"
	"github.com/codybmenefee/custodian-integration-tool/domain/document"
	"github.com/codybmenefee/custodian-integration-tool/domain/schema"
	"github.com/codybmenefee/custodian-integration-tool/ports"
	"github.com/rs/zerolog"
)

// DocumentService handles document ingestion and metadata extraction.
type DocumentService struct {
	documents ports.DocumentStore
	schemas   ports.SchemaStore
	clock     ports.Clock
	ids       ports.IDGenerator
	metrics   *metrics.Collector
	logger    zerolog.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	documents ports.DocumentStore,
	schemas ports.SchemaStore,
	clock ports.Clock,
	ids ports.IDGenerator,
	m *metrics.Collector,
	logger zerolog.Logger,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		schemas:   schemas,
		clock:     clock,
		ids:       ids,
		metrics:   m,
		logger:    logger.With().Str("service", "document").Logger(),
	}
}

// IngestInput carries an uploaded document payload.
type IngestInput struct {
	Filename    string
	ContentType string
	Payload     []byte
	SchemaID    string
	UploadedBy  string
}

// Ingest extracts metadata from the payload and stores the document
// record. The raw payload is discarded after extraction.
func (s *DocumentService) Ingest(ctx context.Context, in IngestInput) (document.Document, error) {
	if in.Filename == "" {
		return document.Document{}, &schema.ValidationError{Field: "filename", Reason: "filename must not be empty"}
	}
	if len(in.Payload) == 0 {
		return document.Document{}, &schema.ValidationError{Field: "file", Reason: "payload must not be empty"}
	}

	if in.SchemaID != "" {
		if _, err := s.schemas.Get(ctx, in.SchemaID); err != nil {
			return document.Document{}, fmt.Errorf("resolve schema %s: %w", in.SchemaID, err)
		}
	}

	meta, err := document.ExtractMetadata(in.ContentType, in.Payload)
	if err != nil {
		if errors.Is(err, document.ErrUnsupportedType) {
			return document.Document{}, err
		}
		return document.Document{}, &schema.ValidationError{Field: "file", Reason: err.Error()}
	}

	doc := document.Document{
		ID:          s.ids.New(),
		Filename:    in.Filename,
		ContentType: in.ContentType,
		SizeBytes:   int64(len(in.Payload)),
		SchemaID:    in.SchemaID,
		Metadata:    meta,
		UploadedBy:  in.UploadedBy,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return document.Document{}, fmt.Errorf("store document: %w", err)
	}

	s.metrics.DocumentsIngested.WithLabelValues(meta.Format).Inc()
	s.logger.Info().
		Str("document", doc.ID).
		Str("format", meta.Format).
		Int64("size", doc.SizeBytes).
		Msg("document ingested")
	return doc, nil
}

// Get retrieves a document record by id.
func (s *DocumentService) Get(ctx context.Context, id string) (document.Document, error) {
	return s.documents.Get(ctx, id)
}

// List returns document records with pagination.
func (s *DocumentService) List(ctx context.Context, limit, offset int) ([]document.Document, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.documents.List(ctx, limit, offset)
}

// Delete removes a document record.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	return s.documents.Delete(ctx, id)
}
