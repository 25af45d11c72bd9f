// Package errors defines stable error codes for the language service.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// DuplicateSymbol indicates two top-level symbols share a name
	DuplicateSymbol ErrorCode = "DUPLICATE_SYMBOL"
	// DocumentNotFound indicates the requested document is not part of the workspace
	DocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"
	// WorkspaceNotReady indicates initial file discovery has not completed
	WorkspaceNotReady ErrorCode = "WORKSPACE_NOT_READY"
	// ParseFailed indicates the parser could not produce a tree
	ParseFailed ErrorCode = "PARSE_FAILED"
	// RenameInvalid indicates rename was requested on a symbol that cannot be renamed
	RenameInvalid ErrorCode = "RENAME_INVALID"
	// SymbolNotFound indicates no symbol exists at the requested position
	SymbolNotFound ErrorCode = "SYMBOL_NOT_FOUND"
	// InternalError indicates an unexpected failure
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// ServiceError is an error with a stable code and an optional cause.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a ServiceError with the given code and message.
func New(code ErrorCode, message string) *ServiceError {
	return &ServiceError{Code: code, Message: message}
}

// Newf creates a ServiceError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *ServiceError {
	return &ServiceError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a ServiceError carrying an underlying cause.
func Wrap(code ErrorCode, message string, cause error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// CodeOf extracts the error code from err, or InternalError for foreign errors.
func CodeOf(err error) ErrorCode {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return InternalError
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
