// Package errs provides types and support related to web v1 functionality.
package errs

import (
	"errors"
	"net/http"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (re *Trusted) Error() string {
	return re.Err.Error()
}

// Unwrap provides access to the wrapped error.
func (re *Trusted) Unwrap() error {
	return re.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var re *Trusted
	return errors.As(err, &re)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var re *Trusted
	if !errors.As(err, &re) {
		return nil
	}
	return re
}

// =============================================================================

// Mapping pairs a core error with the status code clients see for it.
type Mapping struct {
	Err    error
	Status int
}

// Translate wraps err as a trusted error using the status of the first
// mapping err matches. Errors that match nothing are returned unchanged
// so they surface as internal errors.
func Translate(err error, mappings ...Mapping) error {
	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			return NewTrusted(err, m.Status)
		}
	}
	return err
}

// BadRequest wraps err as a trusted 400 error.
func BadRequest(err error) error {
	return NewTrusted(err, http.StatusBadRequest)
}
