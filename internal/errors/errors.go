// Package errors provides sentinel errors, detailed error rendering and exit
// codes for the op3d CLI.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for known conditions.
var (
	// ErrNotFound indicates a file, directory or profile was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFormat indicates a document could not be parsed or is not
	// the kind of document expected.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrUsage indicates bad flags or arguments.
	ErrUsage = errors.New("usage error")

	// ErrValidation indicates a profile failed schema validation.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a write would change the shape of a profile tree.
	ErrConflict = errors.New("structural conflict")
)

// Exit codes returned by the op3d binary.
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitValidation    = 2
	ExitUsage         = 3
	ExitNotFound      = 4
	ExitInvalidFormat = 5
)

// ExitCodeName returns a display name for an exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidation:
		return "Validation Error"
	case ExitUsage:
		return "Usage Error"
	case ExitNotFound:
		return "Not Found"
	case ExitInvalidFormat:
		return "Invalid Format"
	default:
		return "Unknown"
	}
}

// DetailError captures structured error information.
type DetailError struct {
	// Type is the error category, e.g. "not found".
	Type string

	// Message is the specific description.
	Message string

	// Location is a file path, optionally with a key or line.
	Location string

	// Field is the profile path involved, if any.
	Field string

	// Context holds additional key-value pairs.
	Context map[string]string

	// Hint suggests what to do next.
	Hint string

	// Cause is the underlying error.
	Cause error
}

// Error renders the type first, then location, field, context, message and
// hint on their own lines.
func (e *DetailError) Error() string {
	var b strings.Builder

	b.WriteString(e.Type)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	if e.Location != "" {
		b.WriteString("\n  Location: ")
		b.WriteString(e.Location)
	}
	if e.Field != "" {
		b.WriteString("\n  Field: ")
		b.WriteString(e.Field)
	}

	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString("\n  ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(e.Context[k])
	}

	if e.Hint != "" {
		b.WriteString("\n\nHint: ")
		b.WriteString(e.Hint)
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewNotFoundError creates a not found error with details.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// NewInvalidFormatError creates an invalid format error. cause, when non-nil,
// is kept alongside ErrInvalidFormat.
func NewInvalidFormatError(message, location string, cause error) error {
	c := ErrInvalidFormat
	if cause != nil {
		c = fmt.Errorf("%w: %w", ErrInvalidFormat, cause)
	}
	return &DetailError{
		Type:     "invalid format",
		Message:  message,
		Location: location,
		Cause:    c,
	}
}

// NewUsageError creates a usage error with a hint.
func NewUsageError(message, hint string) error {
	return &DetailError{
		Type:    "usage",
		Message: message,
		Hint:    hint,
		Cause:   ErrUsage,
	}
}

// NewValidationError creates a validation error with details.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// Wrap wraps a sentinel error with a message.
func Wrap(sentinel error, msg string) error {
	return fmt.Errorf("%s: %w", msg, sentinel)
}

// ExitError wraps an error with an exit code. Printed is set when the
// command has already reported the error to the user.
type ExitError struct {
	Err     error
	Code    int
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return ExitCodeName(e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError that has not been printed yet.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, ErrValidation):
		return ExitValidation
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrInvalidFormat), errors.Is(err, ErrConflict):
		return ExitInvalidFormat
	default:
		return ExitGeneralError
	}
}
