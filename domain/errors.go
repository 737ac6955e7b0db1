package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents the type of domain error
type ErrorCode string

const (
	// ErrCodeNotFound indicates that a requested resource was not found
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidInput indicates that the input provided is invalid
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeRepository indicates a repository operation error
	ErrCodeRepository ErrorCode = "REPOSITORY_ERROR"

	// ErrCodeTimezone indicates a timezone-related error
	ErrCodeTimezone ErrorCode = "TIMEZONE_ERROR"

	// ErrCodeLocale indicates that a locale tag could not be parsed or is unsupported
	ErrCodeLocale ErrorCode = "LOCALE_ERROR"

	// ErrCodePreference indicates a preference storage error
	ErrCodePreference ErrorCode = "PREFERENCE_ERROR"

	// ErrCodeFileOperation indicates a file operation error
	ErrCodeFileOperation ErrorCode = "FILE_OPERATION_ERROR"

	// ErrCodeUnsupportedPlatform indicates a feature that is unavailable on this OS
	ErrCodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e *DomainError) WithDetails(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// NewDomainErrorWithCause creates a new domain error with an underlying cause
func NewDomainErrorWithCause(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// ErrNotFound creates a not found error
func ErrNotFound(resource string, id string) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithDetails("resource", resource).
		WithDetails("id", id)
}

// ErrInvalidInput creates an invalid input error
func ErrInvalidInput(field string, reason string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason)).
		WithDetails("field", field).
		WithDetails("reason", reason)
}

// ErrRepository creates a repository error
func ErrRepository(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeRepository, fmt.Sprintf("repository error in %s", operation), err).
		WithDetails("operation", operation)
}

// IsErrorCode reports whether err, or any error it wraps, is a DomainError with code
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// GetErrorCode extracts the error code from an error chain
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// Timezone-specific errors

// ErrTimezone creates a timezone error
func ErrTimezone(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeTimezone, fmt.Sprintf("timezone error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrTimezoneDetection creates a timezone detection error
func ErrTimezoneDetection(fallbackLocation string) *DomainError {
	return NewDomainError(ErrCodeTimezone, "failed to detect system timezone, using fallback").
		WithDetails("fallback", fallbackLocation)
}

// ErrTimezoneParse creates a timezone parsing error
func ErrTimezoneParse(timezoneName string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeTimezone, fmt.Sprintf("failed to parse timezone: %s", timezoneName), err).
		WithDetails("timezoneName", timezoneName)
}

// Locale errors

// ErrLocaleParse creates an error for a malformed BCP 47 tag
func ErrLocaleParse(tag string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeLocale, fmt.Sprintf("failed to parse locale: %s", tag), err).
		WithDetails("locale", tag)
}

// ErrLocaleUnsupported creates an error for a well-formed tag with no formatting data
func ErrLocaleUnsupported(tag string) *DomainError {
	return NewDomainError(ErrCodeLocale, fmt.Sprintf("unsupported locale: %s", tag)).
		WithDetails("locale", tag)
}

// Preference errors

// ErrPreference creates a preference store error
func ErrPreference(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodePreference, fmt.Sprintf("preference error in %s", operation), err).
		WithDetails("operation", operation)
}

// File operation errors

// ErrFileOperationWithCause creates a file operation error with cause
func ErrFileOperationWithCause(operation string, path string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeFileOperation, fmt.Sprintf("file operation error in %s", operation), err).
		WithDetails("operation", operation).
		WithDetails("path", path)
}

// ErrFilePermission creates a file permission error
func ErrFilePermission(path string, requiredPermission string) *DomainError {
	return NewDomainError(ErrCodeFileOperation, fmt.Sprintf("insufficient permissions for file: %s", path)).
		WithDetails("path", path).
		WithDetails("requiredPermission", requiredPermission)
}

// ErrUnsupportedPlatform creates an error for a feature missing on the running OS
func ErrUnsupportedPlatform(feature string, goos string) *DomainError {
	return NewDomainError(ErrCodeUnsupportedPlatform, fmt.Sprintf("%s is not available on %s", feature, goos)).
		WithDetails("feature", feature).
		WithDetails("os", goos)
}
