package server

import (
	"fmt"
	"net/http"
)

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUpstream indicates the proxy's upstream resolver failed.
type ErrUpstream struct {
	Err error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("upstream resolver error: %v", e.Err)
}

func (e *ErrUpstream) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Plain resolver errors are caller mistakes (missing fields) and map
// to 400.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
