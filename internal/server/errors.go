// Package server serves the CV form as an HTML page and a JSON API.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/cv-uploader/internal/form"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBadAction indicates an unrecognised form action
type ErrBadAction struct {
	Action string
}

func (e *ErrBadAction) Error() string {
	return fmt.Sprintf("unknown form action: %q", e.Action)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		submitErr  *form.SubmitError
		rangeErr   *form.ErrIndexOutOfRange
		listErr    *form.ErrUnknownList
		fieldErr   *form.ErrUnknownField
		validErr   *ErrValidation
		actionErr  *ErrBadAction
		validatorE validator.ValidationErrors
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &submitErr):
		return http.StatusBadGateway
	case errors.Is(err, form.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, form.ErrModeUnavailable):
		return http.StatusNotImplemented
	case errors.As(err, &rangeErr), errors.As(err, &listErr), errors.As(err, &fieldErr),
		errors.As(err, &validErr), errors.As(err, &actionErr), errors.As(err, &validatorE):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts validator output into an ErrValidation for the first failing field.
func validationError(err error) *ErrValidation {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid request"}
}
