package project

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidStatus indicates a status outside the six-value enum.
	ErrInvalidStatus = errors.New("invalid status")
)

// ValidationError reports required draft fields that are missing and
// supplied fields with out-of-range values.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing fields: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid fields: %s", strings.Join(e.Invalid, ", ")))
	}
	return strings.Join(parts, "; ")
}

// SourceConflictError indicates the source is already bound to a different
// project. ExistingProjectID lets the caller disambiguate.
type SourceConflictError struct {
	ExistingProjectID string
}

func (e *SourceConflictError) Error() string {
	return fmt.Sprintf("source already linked to %s", e.ExistingProjectID)
}
