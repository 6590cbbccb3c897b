package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrTooLarge indicates a request body over the configured limit
type ErrTooLarge struct {
	Limit int64
}

func (e *ErrTooLarge) Error() string {
	return fmt.Sprintf("request body exceeds %d bytes", e.Limit)
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnavailable indicates a feature that is not configured on this server
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured", e.Feature)
}

// ErrUpstream indicates a failure of the language model behind the generation endpoint
type ErrUpstream struct {
	Cause error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("content generation failed: %v", e.Cause)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		siteErr       *config.ValidationError
		schemaErr     *schemas.ValidationError
		notFoundErr   *ErrNotFound
		tooLargeErr   *ErrTooLarge
		unavailErr    *ErrUnavailable
		upstreamErr   *ErrUpstream
		remoteErr     *content.RemoteError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &siteErr):
		return http.StatusBadRequest
	case errors.As(err, &schemaErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &unavailErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &upstreamErr), errors.As(err, &remoteErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fieldOf returns the offending field of validation errors, if any.
func fieldOf(err error) string {
	var validationErr *ErrValidation
	if errors.As(err, &validationErr) {
		return validationErr.Field
	}
	var siteErr *config.ValidationError
	if errors.As(err, &siteErr) {
		return siteErr.Field
	}
	return ""
}
