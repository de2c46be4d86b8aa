package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Diff and plan errors
	ErrDiffRead    ErrorCode = "DIFF_READ"
	ErrPlanInvalid ErrorCode = "PLAN_INVALID"

	// Store errors
	ErrFetch         ErrorCode = "FETCH"
	ErrFetchOrder    ErrorCode = "FETCH_ORDER"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrStoreDisabled ErrorCode = "STORE_DISABLED"

	// FileSystem errors
	ErrFileWrite   ErrorCode = "FILE_WRITE"
	ErrFileRemove  ErrorCode = "FILE_REMOVE"
	ErrSetExec     ErrorCode = "SET_EXEC"
	ErrPathEscapes ErrorCode = "PATH_ESCAPES"
	ErrDirCreate   ErrorCode = "DIR_CREATE"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Manifest errors
	ErrManifestRead  ErrorCode = "MANIFEST_READ"
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"
)

// CheckoutError represents a structured error with code and details
type CheckoutError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CheckoutError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CheckoutError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CheckoutError) Is(target error) bool {
	var targetErr *CheckoutError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CheckoutError with the given code and message
func New(code ErrorCode, message string) *CheckoutError {
	return &CheckoutError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CheckoutError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CheckoutError {
	return &CheckoutError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CheckoutError
func Wrap(err error, code ErrorCode, message string) *CheckoutError {
	if err == nil {
		return nil
	}
	return &CheckoutError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CheckoutError {
	if err == nil {
		return nil
	}
	return &CheckoutError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CheckoutError) WithDetail(key string, value interface{}) *CheckoutError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var checkoutErr *CheckoutError
	if errors.As(err, &checkoutErr) {
		return checkoutErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CheckoutError
func GetErrorCode(err error) ErrorCode {
	var checkoutErr *CheckoutError
	if errors.As(err, &checkoutErr) {
		return checkoutErr.Code
	}
	return ErrUnknown
}
