package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the actor's role or ownership does not permit the action.
var ErrForbidden = errors.New("forbidden")

// ErrPrecondition indicates the entity is not in the state the operation requires
// (already approved, already redeemed, insufficient balance).
var ErrPrecondition = errors.New("precondition failed")

// ErrDependency marks a failure in a best-effort collaborator (mail, pdf, notifications).
var ErrDependency = errors.New("dependency failure")

// ErrInternal is used for unexpected infrastructure failures.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Repositories use it for infrastructure failures that have no better sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInternal}
	}
	return []error{ErrInternal, e.Err}
}

// NewAppError creates an AppError. The result always matches ErrInternal via errors.Is.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Newf wraps one of the sentinels with a human readable reason.
func Newf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// Reason strips the sentinel prefix so the caller-facing message only carries the reason.
func Reason(err error) string {
	for _, sentinel := range []error{ErrValidation, ErrForbidden, ErrNotFound, ErrPrecondition, ErrDuplicate} {
		prefix := sentinel.Error() + ": "
		msg := err.Error()
		if errors.Is(err, sentinel) && len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return err.Error()
}
