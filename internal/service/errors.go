package service

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports one or more malformed or missing input fields.
// Fields maps the offending field name to a human-readable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)

	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// add records a failure for the field, keeping the first message on repeats.
func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// orNil returns the error itself when it carries failures, nil otherwise.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// DuplicateError reports a write that would violate a uniqueness invariant.
// Field names the conflicting field.
type DuplicateError struct {
	Field   string
	Message string
}

func (e *DuplicateError) Error() string {
	return e.Message
}

// NotFoundError reports an entity that does not exist in the store.
type NotFoundError struct {
	Message string
	Details string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// InvalidIDError reports a malformed store identifier.
type InvalidIDError struct {
	Message string
	Details string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}
