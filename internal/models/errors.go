package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound reports an unknown slug, username, post id or follow
	// relation.
	ErrNotFound = errors.New("not found")

	// ErrAuthenticationRequired reports an anonymous actor attempting a
	// protected action.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrForbidden reports an authenticated actor touching a resource it
	// does not own.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries per-field messages for a rejected submission.
// Callers can use errors.As to reach the fields:
//
//	var verr *models.ValidationError
//	if errors.As(err, &verr) {
//	    msg := verr.Fields["text"]
//	}
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a message for field, keeping the first one if the field
// already failed.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Empty reports whether no field has failed.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
