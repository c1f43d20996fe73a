package booking

import (
	"errors"
	"fmt"
)

// ErrConflict reports that the requested slot overlaps a busy period at
// write time. It is terminal for the attempt and never retried; the client
// should fetch fresh availability.
var ErrConflict = errors.New("requested time slot is no longer available")

// ValidationError reports a malformed request, rejected before any gateway
// call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NoMatchingPriceTierError reports an unsupported booking duration. It is a
// user-facing condition, not a retryable one.
type NoMatchingPriceTierError struct {
	DurationMinutes int
}

func (e *NoMatchingPriceTierError) Error() string {
	return fmt.Sprintf("no service offered for %d minute duration", e.DurationMinutes)
}
