package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Op names the remote operation an error belongs to.
type Op string

const (
	OpList   Op = "list tasks"
	OpCreate Op = "create task"
	OpUpdate Op = "update task"
	OpDelete Op = "delete task"
)

// Validation failures. These are always wrapped in a ValidationError and
// never reach the network.
var (
	ErrEmptyTitle       = errors.New("title required")
	ErrEmptyDescription = errors.New("description required")
	ErrMissingID        = errors.New("task has no id")
	ErrUnknownTask      = errors.New("task not in collection")
	ErrTaskInFlight     = errors.New("task has an operation in flight")
)

// ErrCredentials is returned by backends that cannot start without
// credentials on disk.
var ErrCredentials = errors.New("credentials unavailable")

// TransportError reports that the remote service could not be reached:
// network failure, timeout or cancellation.
type TransportError struct {
	Op  Op
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServiceError reports a non-success answer from the remote service.
// StatusCode is zero when the response itself was malformed.
type ServiceError struct {
	Op         Op
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %d: %s", e.Op, e.StatusCode, e.Message)
}

// ValidationError reports a local precondition failure.
type ValidationError struct {
	Op  Op
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsTransportError returns true if err is or wraps a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsServiceError returns true if err is or wraps a ServiceError.
func IsServiceError(err error) bool {
	var se *ServiceError
	return errors.As(err, &se)
}

// IsValidationError returns true if err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound returns true if the service answered 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized returns true if the service rejected the caller's credentials.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// StatusCode extracts the HTTP status of a wrapped ServiceError, or 0.
func StatusCode(err error) int {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
