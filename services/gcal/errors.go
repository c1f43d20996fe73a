package gcal

import (
	"errors"
	"fmt"
)

// ErrEventNotFound reports that the remote calendar has no such event.
var ErrEventNotFound = errors.New("calendar event not found")

// APIError wraps a transport or remote-API failure. Callers treat it as
// transient and decide retry policy themselves; this package never retries.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar api: %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// TimeParseError reports a malformed timestamp in a request or a remote
// response. It is a validation-class failure and is never retried.
type TimeParseError struct {
	Field string
	Value string
	Err   error
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("failed to parse time %q (%s): %v", e.Value, e.Field, e.Err)
}

func (e *TimeParseError) Unwrap() error {
	return e.Err
}
