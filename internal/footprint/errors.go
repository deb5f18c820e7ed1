package footprint

import (
	"fmt"
	"strings"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for input validation. Every validation failure matches
// ErrInvalidInput plus the specific error below via errors.Is.
var (
	// ErrInvalidInput is the umbrella error for any rejected snapshot field.
	ErrInvalidInput = constError("invalid input")

	ErrInvalidRole     = constError("invalid role")
	ErrInvalidDevice   = constError("invalid device type")
	ErrInvalidLifespan = constError("invalid device lifespan")
	ErrInvalidOption   = constError("invalid device option")
	ErrInvalidHours    = constError("hours per day out of range")
	ErrUnknownActivity = constError("activity not available for role")
	ErrInvalidBucket   = constError("invalid bucket")
	ErrNegativeCount   = constError("negative count")
	ErrInvalidIdle     = constError("invalid idle behavior")
	ErrUnknownTask     = constError("unknown AI task")

	// ErrMethodologyMismatch indicates the snapshot asked for a factor table
	// version this build does not provide.
	ErrMethodologyMismatch = constError("methodology version mismatch")
)

// ValidationError reports a rejected field. It unwraps to both ErrInvalidInput
// and the specific sentinel in Err.
type ValidationError struct {
	Field  string
	Err    error
	Detail string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Field)
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if e.Detail != "" {
		b.WriteString(" (")
		b.WriteString(e.Detail)
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap exposes both the umbrella and the specific sentinel.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidInput, e.Err}
}

func invalid(field string, err error, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Err: err, Detail: fmt.Sprintf(format, args...)}
}
