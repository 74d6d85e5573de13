package app

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/codybmenefee/custodian-integration-tool/domain/schema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed import_schema.json
var importSchemaJSON string

// importSchema validates the structural shape of import documents
// before they are decoded into typed values.
var importSchema = jsonschema.MustCompileString(
	"https://custodian.example/schemas/import.json", importSchemaJSON)

// Import validates a portable schema document and stores it as a new
// version. When the name exists and the document's version collides with
// a stored version, the patch component of the highest stored version is
// incremented instead. No write happens on a validation failure.
func (s *SchemaService) Import(ctx context.Context, raw []byte, importedBy string) (schema.Schema, error) {
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		s.metrics.ImportRejections.Inc()
		return schema.Schema{}, &schema.ValidationError{Reason: fmt.Sprintf("malformed JSON: %v", err)}
	}
	if err := importSchema.Validate(loose); err != nil {
		s.metrics.ImportRejections.Inc()
		return schema.Schema{}, validationFromJSONSchema(err)
	}

	var doc schema.ExportDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.metrics.ImportRejections.Inc()
		return schema.Schema{}, &schema.ValidationError{Reason: fmt.Sprintf("decode document: %v", err)}
	}
	if err := doc.Validate(); err != nil {
		s.metrics.ImportRejections.Inc()
		return schema.Schema{}, err
	}

	existing, err := s.schemas.ListByName(ctx, doc.Name)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("list versions: %w", err)
	}

	version := doc.Version
	collision := false
	for _, sc := range existing {
		if sc.Version == doc.Version {
			collision = true
			break
		}
	}
	if collision {
		versions := make([]string, len(existing))
		for i, sc := range existing {
			versions[i] = sc.Version
		}
		version, err = schema.NextPatch(schema.HighestVersion(versions))
		if err != nil {
			return schema.Schema{}, fmt.Errorf("resolve version collision: %w", err)
		}
	}

	now := s.clock.Now()
	notes := fmt.Sprintf("imported by %s at %s", importedBy, now.Format("2006-01-02T15:04:05Z07:00"))
	if collision {
		notes += fmt.Sprintf(" (original version %s)", doc.Version)
	}
	if doc.Notes != "" {
		notes = doc.Notes + "; " + notes
	}

	sc := schema.Schema{
		ID:              s.ids.New(),
		Name:            doc.Name,
		Version:         version,
		Fields:          doc.Fields,
		IsLatestVersion: true,
		Notes:           notes,
		CreatedBy:       importedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if len(existing) == 0 {
		err = s.schemas.Create(ctx, sc)
	} else {
		sc.ParentVersion = existing[0].Version
		err = s.schemas.CreateVersion(ctx, sc)
	}
	if err != nil {
		s.count("import", "error")
		return schema.Schema{}, fmt.Errorf("store imported schema: %w", err)
	}

	s.count("import", "ok")
	s.metrics.SchemaVersions.WithLabelValues("import").Inc()
	s.logger.Info().
		Str("schema", sc.Name).
		Str("version", sc.Version).
		Bool("collision", collision).
		Msg("schema imported")
	return sc, nil
}

// validationFromJSONSchema flattens a jsonschema error into the leaf
// cause so callers see the most specific failure.
func validationFromJSONSchema(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &schema.ValidationError{Reason: err.Error()}
	}

	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	field := strings.TrimPrefix(leaf.InstanceLocation, "/")
	field = strings.ReplaceAll(field, "/", ".")
	return &schema.ValidationError{Field: field, Reason: leaf.Message}
}
