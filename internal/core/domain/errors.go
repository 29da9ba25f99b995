package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProgramNotFound    = errors.New("program not found")
	ErrProgramNameTaken   = errors.New("program name already exists")
	ErrClientNotFound     = errors.New("client not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionNotFound    = errors.New("session not found")
)

// FieldError names one offending input field and the reason it was rejected.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates every field violation found in a single request
// so callers see all of them at once, not just the first.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError with a single field violation.
func NewValidationError(field, reason string) *ValidationError {
	ve := &ValidationError{}
	ve.Add(field, reason)
	return ve
}

// Add records a violation against field.
func (e *ValidationError) Add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// Empty reports whether no violations have been recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// FieldMap renders the violations as field -> reason pairs.
func (e *ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, seen := m[f.Field]; !seen {
			m[f.Field] = f.Reason
		}
	}
	return m
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return strings.Join(parts, "; ")
}
