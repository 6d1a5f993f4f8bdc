package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents the class of failure that aborted a run
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeHTTP       ErrorType = "http"
	ErrorTypeAuth       ErrorType = "auth"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeDataShape  ErrorType = "data_shape"
	ErrorTypeFilesystem ErrorType = "filesystem"
)

// Error represents a typed failure with an optional HTTP status code
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given type
func New(errType ErrorType, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Wrap creates an error of the given type around a cause
func Wrap(errType ErrorType, message string, err error) *Error {
	return &Error{Type: errType, Message: message, Err: err}
}

// FromStatusCode maps a non-success HTTP status to a typed error.
// 404 is deliberately left as a plain HTTP error here; only the listing
// endpoint promotes it to ErrorTypeNotFound.
func FromStatusCode(statusCode int, url string) *Error {
	errType := ErrorTypeHTTP
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		errType = ErrorTypeAuth
	}
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf("unexpected status %d %s for %s", statusCode, http.StatusText(statusCode), url),
		Code:    statusCode,
	}
}

// IsType reports whether err (or anything it wraps) is an *Error of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == errType
	}
	return false
}

// IsNotFound reports whether err signals an unknown profile
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}
