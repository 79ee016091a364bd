// Package server exposes the intake flow over HTTP.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/job-intake/internal/normalize"
	"github.com/jonathan/job-intake/internal/storage"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		incomplete *normalize.IncompleteRecordError
		malformed  *normalize.MalformedInputError
		persist    *storage.PersistenceError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &incomplete), errors.As(err, &malformed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &persist):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
