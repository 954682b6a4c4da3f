package web

import "errors"

// shutdownError is returned by a handler to request the whole service
// shut down because it discovered a condition it cannot safely continue
// past.
type shutdownError struct {
	Message string
}

func (e *shutdownError) Error() string {
	return e.Message
}

// NewShutdownError wraps message into an error that App.Handle recognizes
// via IsShutdown and uses to trigger a graceful shutdown.
func NewShutdownError(message string) error {
	return &shutdownError{Message: message}
}

// IsShutdown reports whether err (or anything it wraps) was produced by
// NewShutdownError.
func IsShutdown(err error) bool {
	var se *shutdownError
	return errors.As(err, &se)
}

// RequestError maps an underlying error to a specific HTTP status code,
// for handler errors that should be reported to the caller (validation,
// bad input) rather than just logged.
type RequestError struct {
	Err    error
	Status int
}

func (re *RequestError) Error() string {
	return re.Err.Error()
}

// NewRequestError constructs a RequestError, the standard way a handler
// signals "this specific status code, with this message" rather than a
// generic 500.
func NewRequestError(err error, status int) error {
	return &RequestError{Err: err, Status: status}
}

// IsRequestError reports whether err is a *RequestError and returns it.
func IsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	ok := errors.As(err, &re)
	return re, ok
}
