package domain

import "fmt"

// Error codes for domain errors
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeCollectionError   = "COLLECTION_ERROR"
	ErrCodeCacheError        = "CACHE_ERROR"
	ErrCodeValidationError   = "VALIDATION_ERROR"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// DomainError represents a structured error with a code and optional cause
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{Code: code, Message: message, Cause: cause}
}

// NewInvalidInputError creates an error for invalid input
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates an error for a missing file
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewCollectionError creates an error for a failed directory or file read
// during collection. Collection errors are logged and contained; a single
// unreadable directory never aborts the walk.
func NewCollectionError(message string, cause error) error {
	return NewDomainError(ErrCodeCollectionError, message, cause)
}

// NewCacheError creates an error for a missing, stale, or corrupt profile
// cache. Callers treat it as a cache miss and rebuild.
func NewCacheError(message string, cause error) error {
	return NewDomainError(ErrCodeCacheError, message, cause)
}

// NewValidationError creates an error for a target file that could not be
// validated. Per-file validation errors produce a zero-score report and
// never abort the batch.
func NewValidationError(message string, cause error) error {
	return NewDomainError(ErrCodeValidationError, message, cause)
}

// NewConfigError creates an error for invalid configuration. Configuration
// errors are fatal and surfaced before any analysis begins.
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an error for output writing failures
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an error for unknown output formats
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}
