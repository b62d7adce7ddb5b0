package models

import (
	"errors"
	"fmt"
)

// ErrNoResponse marks a request that never reached a server, e.g. when the API host refuses the
// connection. Clients wrap the underlying transport error with it.
var ErrNoResponse = errors.New("no response from server")

// StatusError is returned when the API answers with a non-2xx status. Detail and Message are filled
// from the response body when the server sent a structured error, and are empty otherwise.
type StatusError struct {
	StatusCode int
	StatusText string

	Detail  string
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}
