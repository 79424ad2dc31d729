package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed, missing or out-of-range input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an unknown product, component or customer identifier.
	ErrNotFound = errors.New("not found")
	// ErrStore marks an unavailable store or a constraint violation.
	ErrStore = errors.New("store error")
)

// classifiedError carries a caller-facing message and a sentinel kind.
type classifiedError struct {
	kind error
	msg  string
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.kind }

// ValidationError returns an error classified as ErrValidation.
func ValidationError(format string, args ...interface{}) error {
	return &classifiedError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// NotFoundError returns an error classified as ErrNotFound.
func NotFoundError(format string, args ...interface{}) error {
	return &classifiedError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

type storeError struct {
	op  string
	err error
}

func (e *storeError) Error() string { return e.op + ": " + e.err.Error() }

func (e *storeError) Unwrap() []error { return []error{ErrStore, e.err} }

// StoreError wraps a driver error so it is classified as ErrStore.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &storeError{op: op, err: err}
}

// Message returns the caller-facing text for err.
// Validation and not-found errors keep their own message; store and unclassified errors are
// reduced to a generic text so driver details stay in the logs.
func Message(err error) string {
	var ce *classifiedError
	if errors.As(err, &ce) {
		return ce.msg
	}
	if errors.Is(err, ErrStore) {
		return "internal store error"
	}
	return "internal error"
}
