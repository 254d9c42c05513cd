package tokens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/patmonardo/graphcore/pkg/schema"
)

// Common sentinel errors
var (
	ErrLabelNotFound     = errors.New("label not found")
	ErrMissingProperties = errors.New("missing node properties")
	ErrIncompatibleTypes = errors.New("incompatible property value types")
	ErrInvalidNodeLabels = errors.New("invalid node labels")
)

// TypeMismatch records one property whose imported type is not compatible
// with its declared type.
type TypeMismatch struct {
	Key      string
	Declared schema.ValueType
	Imported schema.ValueType
}

func (m TypeMismatch) String() string {
	return fmt.Sprintf("%s (declared %s, imported %s)", m.Key, m.Declared, m.Imported)
}

// SchemaValidationError carries the exact validation failures for one label so
// callers can report actionable detail instead of a generic failure.
type SchemaValidationError struct {
	Label        schema.NodeLabel
	Missing      []string       // declared property keys absent from the import
	Incompatible []TypeMismatch // declared keys present with an incompatible type
}

// Error implements the error interface.
func (e *SchemaValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing node properties [%s]", strings.Join(e.Missing, ", ")))
	}
	if len(e.Incompatible) > 0 {
		mismatches := make([]string, len(e.Incompatible))
		for i, m := range e.Incompatible {
			mismatches[i] = m.String()
		}
		parts = append(parts, fmt.Sprintf("incompatible value types [%s]", strings.Join(mismatches, ", ")))
	}
	if len(parts) == 0 {
		parts = append(parts, "schema validation failed")
	}
	if e.Label.Name() == "" {
		return strings.Join(parts, "; ")
	}
	return fmt.Sprintf("label %q: %s", e.Label.Name(), strings.Join(parts, "; "))
}

// Is reports whether the target matches one of the failure categories.
func (e *SchemaValidationError) Is(target error) bool {
	if target == ErrMissingProperties {
		return len(e.Missing) > 0
	}
	if target == ErrIncompatibleTypes {
		return len(e.Incompatible) > 0
	}
	return false
}
