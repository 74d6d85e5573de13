package schema

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a schema id does not resolve to a document.
var ErrNotFound = errors.New("schema not found")

// ErrVersionExists is returned when a version string already exists for a name.
var ErrVersionExists = errors.New("version already exists for schema name")

// ValidationError describes a structural problem with a schema or an
// import document. Field is a dotted path to the offending attribute.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
