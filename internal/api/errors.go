package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/slate-api/internal/api/shared"
	"github.com/phrazzld/slate-api/internal/domain"
	"github.com/phrazzld/slate-api/internal/redact"
	"github.com/phrazzld/slate-api/internal/service"
)

// invalidRequestFormatMessage is returned for bodies that are not valid JSON
// or do not match the request shape.
const invalidRequestFormatMessage = "Invalid request format"

// MapErrorToStatusCode maps internal errors to HTTP status codes.
// Validation failures are client errors; everything else, including storage
// failures and missing enrichment configuration, is a server error.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrDescriptionRequired),
		errors.Is(err, domain.ErrEmptyDescription),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// ErrorMessage returns the text sent to the client for err.
//
// Server errors carry the text of the innermost cause unchanged, without the
// service and store prefixes, unless redactErrors is set, in which case the
// redacted form of that text is used.
func ErrorMessage(err error, status int, redactErrors bool) string {
	if err == nil {
		return "An unexpected error occurred"
	}
	if status < http.StatusInternalServerError {
		return err.Error()
	}

	cause := rootCause(err)
	if redactErrors {
		return redact.Error(cause)
	}
	return cause.Error()
}

// rootCause follows the wrap chain to the innermost error. For errors joined
// with several %w verbs the last one is followed; store sentinels are always
// wrapped ahead of the driver error.
func rootCause(err error) error {
	for {
		switch e := err.(type) {
		case interface{ Unwrap() error }:
			next := e.Unwrap()
			if next == nil {
				return err
			}
			err = next
		case interface{ Unwrap() []error }:
			errs := e.Unwrap()
			if len(errs) == 0 || errs[len(errs)-1] == nil {
				return err
			}
			err = errs[len(errs)-1]
		default:
			return err
		}
	}
}

// HandleAPIError maps err to a status code and writes the error response.
// The error itself is always logged in redacted form.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, redactErrors bool) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, ErrorMessage(err, status, redactErrors), err)
}
