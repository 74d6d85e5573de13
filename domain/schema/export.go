package schema

import (
	"strings"
	"time"
)

// ExportFormat marks the envelope layout version so future layouts can
// coexist with documents already in flight.
const ExportFormat = "custodian.schema.v1"

// ExportDocument is the portable envelope wrapping a schema plus
// provenance metadata.
type ExportDocument struct {
	Format     string    `json:"format"`
	Name       string    `json:"name"`
	Version    string    `json:"version"`
	Fields     []Field   `json:"fields"`
	Notes      string    `json:"notes,omitempty"`
	ExportedAt time.Time `json:"exportedAt"`
	ExportedBy string    `json:"exportedBy,omitempty"`
}

// Export wraps s into a transferable document.
func Export(s Schema, by string, at time.Time) ExportDocument {
	return ExportDocument{
		Format:     ExportFormat,
		Name:       s.Name,
		Version:    s.Version,
		Fields:     s.Fields,
		Notes:      s.Notes,
		ExportedAt: at,
		ExportedBy: by,
	}
}

// Validate checks the structural shape of an import document.
// It must run before any write on the import path.
func (d ExportDocument) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: "name", Reason: "name must not be empty"}
	}
	if !ValidVersion(d.Version) {
		return &ValidationError{Field: "version", Reason: "version must match major.minor.patch"}
	}
	if d.Fields == nil {
		return &ValidationError{Field: "fields", Reason: "fields array is required"}
	}
	return ValidateFields(d.Fields)
}
