package dict

import (
	"errors"
	"fmt"
)

// Error is an engine error with a stable code.
type Error struct {
	Code    string // e.g. "DC-DICT-4040"
	Message string
	Key     any   // offending key, if any
	Cause   error // underlying error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Key != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Key)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates an Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithKey returns a copy of the error carrying key.
func (e *Error) WithKey(key any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Key: key, Cause: e.Cause}
}

// WithCause returns a copy of the error wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Key: e.Key, Cause: cause}
}

// IsError reports whether err is an *Error with the given code. An empty
// code matches any *Error.
func IsError(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return code == "" || de.Code == code
	}
	return false
}

// ErrorCode extracts the code from err, or "" if err is not an *Error.
func ErrorCode(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

var (
	// ErrKeyNotFound is returned when a key that must exist does not.
	ErrKeyNotFound = NewError("DC-DICT-4040", "key not found")

	// ErrEmptyPop is returned by PopMostRecent on an empty map.
	ErrEmptyPop = NewError("DC-DICT-4041", "popitem(): dictionary is empty")

	// ErrChangedDuringIteration is returned by an iterator whose map was
	// structurally modified after the iterator was created.
	ErrChangedDuringIteration = NewError("DC-DICT-4090", "dictionary changed size during iteration")

	// ErrUnhashable is returned for keys without a hash.
	ErrUnhashable = NewError("DC-DICT-4000", "unhashable type")

	// ErrTooLarge is returned when the table cannot grow further.
	ErrTooLarge = NewError("DC-DICT-5070", "dictionary too large")
)
