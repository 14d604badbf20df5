package models

import (
	"fmt"
	"strings"
)

// InputError reports a malformed or invalid upload. Surfaced synchronously
// with HTTP 400; the message is safe to show to the client.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Message
}

// NewInputError creates an InputError with a formatted message
func NewInputError(format string, args ...interface{}) *InputError {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError aggregates per-record schema violations from an upload
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Issues, "; "))
}

// EnrichmentError reports a failed lookup API call. A single failed batch
// fails the whole enrichment stage; there is no partial enrichment.
type EnrichmentError struct {
	Reason string
	Err    error
}

func (e *EnrichmentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("enrichment failed: %s: %v", e.Reason, e.Err)
	}
	return "enrichment failed: " + e.Reason
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

// DataIntegrityError reports a merged dataset that is unfit for analytics
type DataIntegrityError struct {
	Message string
}

func (e *DataIntegrityError) Error() string {
	return "data integrity: " + e.Message
}
