package apiclient

import (
	"errors"
	"fmt"
)

// APIError is an application-level failure: the server answered with
// success=false (or a non-2xx status carrying the envelope).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: request failed with status %d", e.Status)
	}
	return e.Message
}

// UserMessage returns the server-provided message, possibly empty.
func (e *APIError) UserMessage() string {
	return e.Message
}

// TransportError wraps failures where no usable response arrived: dial
// errors, timeouts, unreadable or non-JSON bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transport marks the error as a transport failure.
func (e *TransportError) Transport() bool {
	return true
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsAPIError reports whether err is an application-level failure.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}
