package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the requested id does not resolve to an entity
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor is authenticated but not allowed to act
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials is returned by Login for any username/password mismatch
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports malformed input per form field
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// lookupError maps a repository lookup failure onto ErrNotFound
func lookupError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

// writeError maps a failed update; a row deleted since it was loaded is ErrNotFound
func writeError(err error, what, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
