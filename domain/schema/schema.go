// Package schema provides schema value types and pure functions for
// version ordering and field-list comparison.
// Schemas are immutable once created; new versions are appended, never
// rewritten in place.
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FieldType enumerates the declared types a field may carry.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldDate    FieldType = "date"
	FieldObject  FieldType = "object"
	FieldArray   FieldType = "array"
)

// FieldTypes lists all valid field types in declaration order.
var FieldTypes = []FieldType{
	FieldString, FieldNumber, FieldBoolean, FieldDate, FieldObject, FieldArray,
}

// Valid reports whether t is one of the declared field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldString, FieldNumber, FieldBoolean, FieldDate, FieldObject, FieldArray:
		return true
	}
	return false
}

// ValidationRule is a type/value pair attached to a field.
// Interpretation depends on the field type and is left to consumers.
type ValidationRule struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Field is a single typed field definition within a schema.
type Field struct {
	Name        string           `json:"name"`
	Type        FieldType        `json:"type"`
	Required    bool             `json:"required"`
	Description string           `json:"description,omitempty"`
	Validation  []ValidationRule `json:"validation,omitempty"`
}

// Schema is a named, versioned list of field definitions (immutable value type).
type Schema struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Version         string    `json:"version"`
	Fields          []Field   `json:"fields"`
	IsLatestVersion bool      `json:"isLatestVersion"`
	ParentVersion   string    `json:"parentVersion,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedBy       string    `json:"createdBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// ValidVersion reports whether v is a well-formed major.minor.patch string.
func ValidVersion(v string) bool {
	return versionPattern.MatchString(v)
}

// Weight totals a version string using base-1000 weighting so versions
// order correctly as integers: major*1_000_000 + minor*1_000 + patch.
func Weight(v string) (int64, error) {
	if !ValidVersion(v) {
		return 0, fmt.Errorf("malformed version %q", v)
	}
	parts := strings.SplitN(v, ".", 3)
	major, _ := strconv.ParseInt(parts[0], 10, 64)
	minor, _ := strconv.ParseInt(parts[1], 10, 64)
	patch, _ := strconv.ParseInt(parts[2], 10, 64)
	return major*1_000_000 + minor*1_000 + patch, nil
}

// CompareVersions orders two version strings: -1 if a < b, 0 if equal, 1 if a > b.
// Malformed versions weigh zero and sort first.
func CompareVersions(a, b string) int {
	wa, _ := Weight(a)
	wb, _ := Weight(b)
	switch {
	case wa < wb:
		return -1
	case wa > wb:
		return 1
	}
	return 0
}

// HighestVersion returns the greatest version among vs by weight.
// Returns "" for an empty slice.
func HighestVersion(vs []string) string {
	var best string
	var bestW int64 = -1
	for _, v := range vs {
		w, err := Weight(v)
		if err != nil {
			continue
		}
		if w > bestW {
			best, bestW = v, w
		}
	}
	return best
}

// NextPatch returns v with its patch component incremented.
func NextPatch(v string) (string, error) {
	if !ValidVersion(v) {
		return "", fmt.Errorf("malformed version %q", v)
	}
	parts := strings.SplitN(v, ".", 3)
	patch, _ := strconv.Atoi(parts[2])
	return fmt.Sprintf("%s.%s.%d", parts[0], parts[1], patch+1), nil
}

// Validate checks the structural invariants of a schema: non-empty name,
// well-formed version, and a well-formed field list.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Reason: "name must not be empty"}
	}
	if !ValidVersion(s.Version) {
		return &ValidationError{Field: "version", Reason: fmt.Sprintf("version %q must match major.minor.patch", s.Version)}
	}
	return ValidateFields(s.Fields)
}

// ValidateFields checks a field list: every field named, typed from the
// fixed set, and names unique within the list.
func ValidateFields(fields []Field) error {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if strings.TrimSpace(f.Name) == "" {
			return &ValidationError{Field: fmt.Sprintf("fields[%d].name", i), Reason: "field name must not be empty"}
		}
		if !f.Type.Valid() {
			return &ValidationError{Field: fmt.Sprintf("fields[%d].type", i), Reason: fmt.Sprintf("unknown field type %q", f.Type)}
		}
		if seen[f.Name] {
			return &ValidationError{Field: fmt.Sprintf("fields[%d].name", i), Reason: fmt.Sprintf("duplicate field name %q", f.Name)}
		}
		seen[f.Name] = true
	}
	return nil
}
