// Package app provides application services that orchestrate domain logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codybmenefee/custodian-integration-tool/adapters/metrics"
	"github.com/codybmenefee/custodian-integration-tool/domain/schema"
	"github.com/codybmenefee/custodian-integration-tool/ports"
	"github.com/rs/zerolog"
)

// SchemaService manages schema storage, versioning, and comparison.
type SchemaService struct {
	schemas ports.SchemaStore
	clock   ports.Clock
	ids     ports.IDGenerator
	metrics *metrics.Collector
	logger  zerolog.Logger
}

// NewSchemaService creates a new schema service.
func NewSchemaService(
	schemas ports.SchemaStore,
	clock ports.Clock,
	ids ports.IDGenerator,
	m *metrics.Collector,
	logger zerolog.Logger,
) *SchemaService {
	return &SchemaService{
		schemas: schemas,
		clock:   clock,
		ids:     ids,
		metrics: m,
		logger:  logger.With().Str("service", "schema").Logger(),
	}
}

// CreateInput carries the attributes for a new schema.
type CreateInput struct {
	Name      string         `json:"name"`
	Version   string         `json:"version"`
	Fields    []schema.Field `json:"fields"`
	Notes     string         `json:"notes,omitempty"`
	CreatedBy string         `json:"-"`
}

// Create stores a new schema. The first version of a name becomes latest;
// when the name already exists the new row supersedes the current latest,
// keeping the one-latest-per-name invariant.
func (s *SchemaService) Create(ctx context.Context, in CreateInput) (schema.Schema, error) {
	now := s.clock.Now()
	sc := schema.Schema{
		ID:              s.ids.New(),
		Name:            strings.TrimSpace(in.Name),
		Version:         in.Version,
		Fields:          in.Fields,
		IsLatestVersion: true,
		Notes:           in.Notes,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if sc.Fields == nil {
		sc.Fields = []schema.Field{}
	}
	if err := sc.Validate(); err != nil {
		s.count("create", "invalid")
		return schema.Schema{}, err
	}

	prev, err := s.schemas.GetLatest(ctx, sc.Name)
	switch {
	case err == nil:
		sc.ParentVersion = prev.Version
		err = s.schemas.CreateVersion(ctx, sc)
	case errors.Is(err, schema.ErrNotFound):
		err = s.schemas.Create(ctx, sc)
	}
	if err != nil {
		if errors.Is(err, schema.ErrVersionExists) {
			s.count("create", "conflict")
			return schema.Schema{}, err
		}
		s.count("create", "error")
		return schema.Schema{}, fmt.Errorf("store schema: %w", err)
	}

	s.count("create", "ok")
	s.logger.Info().Str("schema", sc.Name).Str("version", sc.Version).Msg("schema created")
	return sc, nil
}

// Get retrieves a schema by id.
func (s *SchemaService) Get(ctx context.Context, id string) (schema.Schema, error) {
	return s.schemas.Get(ctx, id)
}

// List returns schemas with pagination.
func (s *SchemaService) List(ctx context.Context, limit, offset int) ([]schema.Schema, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.schemas.List(ctx, limit, offset)
}

// ListVersions returns every version of a schema name, highest first.
func (s *SchemaService) ListVersions(ctx context.Context, name string) ([]schema.Schema, error) {
	versions, err := s.schemas.ListByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, schema.ErrNotFound
	}
	return versions, nil
}

// UpdateInput carries an administrative edit of an existing schema row.
type UpdateInput struct {
	Fields []schema.Field `json:"fields"`
	Notes  string         `json:"notes,omitempty"`
}

// Update performs an administrative edit of fields and notes in place.
// Version and latest flag are immutable through this path.
func (s *SchemaService) Update(ctx context.Context, id string, in UpdateInput) (schema.Schema, error) {
	sc, err := s.schemas.Get(ctx, id)
	if err != nil {
		return schema.Schema{}, err
	}

	if in.Fields != nil {
		if err := schema.ValidateFields(in.Fields); err != nil {
			return schema.Schema{}, err
		}
		sc.Fields = in.Fields
	}
	sc.Notes = in.Notes
	sc.UpdatedAt = s.clock.Now()

	if err := s.schemas.Update(ctx, sc); err != nil {
		return schema.Schema{}, err
	}
	s.count("update", "ok")
	return sc, nil
}

// Delete removes a schema version.
func (s *SchemaService) Delete(ctx context.Context, id string) error {
	if err := s.schemas.Delete(ctx, id); err != nil {
		return err
	}
	s.count("delete", "ok")
	return nil
}

// VersionInput carries the attributes for a new version of an existing schema.
type VersionInput struct {
	Version   string         `json:"version"`
	Fields    []schema.Field `json:"fields,omitempty"`
	Notes     string         `json:"notes,omitempty"`
	CreatedBy string         `json:"-"`
}

// CreateVersion produces a new version record from an existing schema,
// demoting the prior latest version of the same name. Fields default to
// the source schema's fields when no replacement list is supplied.
// A version string already present for the name is rejected.
func (s *SchemaService) CreateVersion(ctx context.Context, sourceID string, in VersionInput) (schema.Schema, error) {
	if !schema.ValidVersion(in.Version) {
		return schema.Schema{}, &schema.ValidationError{Field: "version", Reason: "version must match major.minor.patch"}
	}

	source, err := s.schemas.Get(ctx, sourceID)
	if err != nil {
		return schema.Schema{}, err
	}

	fields := in.Fields
	if fields == nil {
		fields = source.Fields
	}
	if err := schema.ValidateFields(fields); err != nil {
		return schema.Schema{}, err
	}

	now := s.clock.Now()
	next := schema.Schema{
		ID:              s.ids.New(),
		Name:            source.Name,
		Version:         in.Version,
		Fields:          fields,
		IsLatestVersion: true,
		ParentVersion:   source.Version,
		Notes:           in.Notes,
		CreatedBy:       in.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.schemas.CreateVersion(ctx, next); err != nil {
		if errors.Is(err, schema.ErrVersionExists) {
			s.count("version", "conflict")
			return schema.Schema{}, err
		}
		s.count("version", "error")
		return schema.Schema{}, fmt.Errorf("store version: %w", err)
	}

	s.count("version", "ok")
	s.metrics.SchemaVersions.WithLabelValues("api").Inc()
	s.logger.Info().
		Str("schema", next.Name).
		Str("version", next.Version).
		Str("parent", next.ParentVersion).
		Msg("version created")
	return next, nil
}

// CompareResult reports the delta between two schema versions.
type CompareResult struct {
	FromID      string      `json:"fromId"`
	ToID        string      `json:"toId"`
	Name        string      `json:"name"`
	FromVersion string      `json:"fromVersion"`
	ToVersion   string      `json:"toVersion"`
	Diff        schema.Diff `json:"diff"`
}

// Compare computes the added/removed/modified delta between two schemas.
func (s *SchemaService) Compare(ctx context.Context, fromID, toID string) (CompareResult, error) {
	from, err := s.schemas.Get(ctx, fromID)
	if err != nil {
		return CompareResult{}, err
	}
	to, err := s.schemas.Get(ctx, toID)
	if err != nil {
		return CompareResult{}, err
	}

	start := s.clock.Now()
	diff := schema.Compare(from, to)
	s.metrics.CompareDuration.Observe(s.clock.Now().Sub(start).Seconds())

	return CompareResult{
		FromID:      from.ID,
		ToID:        to.ID,
		Name:        to.Name,
		FromVersion: from.Version,
		ToVersion:   to.Version,
		Diff:        diff,
	}, nil
}

// Export wraps a schema into a portable document.
func (s *SchemaService) Export(ctx context.Context, id, by string) (schema.ExportDocument, error) {
	sc, err := s.schemas.Get(ctx, id)
	if err != nil {
		return schema.ExportDocument{}, err
	}
	s.count("export", "ok")
	return schema.Export(sc, by, s.clock.Now()), nil
}

func (s *SchemaService) count(operation, outcome string) {
	s.metrics.SchemaOperations.WithLabelValues(operation, outcome).Inc()
}
