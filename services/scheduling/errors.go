package scheduling

import "fmt"

// ValidationError indicates malformed input: bad time ranges, missing
// required fields, out-of-bounds durations.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...interface{}) ValidationError {
	return ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced record does not exist or does not
// belong to the provider it was requested under.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// InvalidStateError indicates a booking transition that is illegal from the
// current status.
type InvalidStateError struct {
	Current   string
	Requested string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a booking in status %q", e.Requested, e.Current)
}

// SlotUnavailableError indicates the requested time is not (or no longer)
// free. This is the expected, retryable outcome of a booking race, not a
// bug: callers should re-query available slots and pick again.
type SlotUnavailableError struct {
	Reason string
}

func (e SlotUnavailableError) Error() string {
	if e.Reason == "" {
		return "slot is no longer available"
	}
	return "slot is no longer available: " + e.Reason
}

// PersistenceError wraps an underlying storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e PersistenceError) Unwrap() error {
	return e.Err
}
