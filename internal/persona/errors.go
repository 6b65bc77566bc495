package persona

import (
	"errors"
	"fmt"
)

// ErrMalformedDocument is returned when a document has no title heading.
// No partial persona is produced in that case.
var ErrMalformedDocument = errors.New("malformed document: no title heading found")

// IncompletePersonaError is returned when a required field is empty after
// parsing. The field name is preserved so callers can point authors at the
// exact omission.
type IncompletePersonaError struct {
	Field string
}

func (e *IncompletePersonaError) Error() string {
	return fmt.Sprintf("incomplete persona: missing %s", e.Field)
}

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Diagnostic records a non-fatal finding made while normalizing a document:
// an unrecognized heading or metadata key, a metadata line without a colon,
// or a nested block with broken indentation. Diagnostics never block
// normalization; they are returned alongside the best-effort persona so
// authoring tools can surface warnings.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Section  string   `json:"section,omitempty"`
	Key      string   `json:"key,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
	Raw      string   `json:"raw,omitempty"`
}

func (d Diagnostic) String() string {
	if d.Key != "" {
		return fmt.Sprintf("%s: %s (key: %s)", d.Severity, d.Message, d.Key)
	}
	if d.Section != "" {
		return fmt.Sprintf("%s: %s (section: %s)", d.Severity, d.Message, d.Section)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}
