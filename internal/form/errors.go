package form

import (
	"errors"
	"fmt"
)

// FailureMessage is the single user-facing message shown when a submission fails.
const FailureMessage = "Failed to upload CV. Please try again."

var (
	// ErrSubmissionInFlight is returned when Submit is called while another submission is outstanding.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	// ErrModeUnavailable is returned when selecting an entry mode that is not implemented.
	ErrModeUnavailable = errors.New("entry mode is not available")
)

// ErrIndexOutOfRange indicates a list operation addressed an entry that does not exist.
type ErrIndexOutOfRange struct {
	List  string
	Index int
	Len   int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range for %s (len %d)", e.Index, e.List, e.Len)
}

// ErrUnknownList indicates an unrecognised list name.
type ErrUnknownList struct {
	List string
}

func (e *ErrUnknownList) Error() string {
	return fmt.Sprintf("unknown list: %s", e.List)
}

// ErrUnknownField indicates an unrecognised field name for the addressed record.
type ErrUnknownField struct {
	Scope string
	Field string
}

func (e *ErrUnknownField) Error() string {
	return fmt.Sprintf("unknown %s field: %s", e.Scope, e.Field)
}

// SubmitError is the failure signal of Submit. Its message is always FailureMessage;
// the adapter error is kept for logging only.
type SubmitError struct {
	Cause error
}

func (e *SubmitError) Error() string {
	return FailureMessage
}

func (e *SubmitError) Unwrap() error {
	return e.Cause
}
