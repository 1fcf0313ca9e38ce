package usecase

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for use case layer
var (
	// Access control errors. The message is what the portal shows on any denied write.
	ErrPermissionDenied = errors.New("could not save")
	ErrUnauthenticated  = errors.New("unauthenticated")

	// Status errors
	ErrInvalidTransition = errors.New("invalid status transition")

	// Input errors
	ErrValidation = errors.New("validation failed")

	// Admin deletion errors
	ErrConfirmationMismatch = errors.New("confirmation phrase does not match")
	ErrConfirmationExpired  = errors.New("confirmation phrase expired")
)

// Context keys for error values
const (
	SubmissionIDKey = "submission_id"
	UnitIDKey       = "unit_id"
	CampusIDKey     = "campus_id"
	CycleIDKey      = "cycle_id"
	RiskIDKey       = "risk_id"
	FindingIDKey    = "finding_id"
	CAPIDKey        = "cap_id"
	FromStatusKey   = "from"
	ToStatusKey     = "to"
	RoleKey         = "role"
	KindKey         = "kind"
)

// ValidationError carries per-field messages for a rejected form
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// fieldErrors accumulates field messages; the first message per field wins
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

func newValidationError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
