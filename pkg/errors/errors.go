package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"syscall"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad       ErrorCode = "CONFIG_LOAD"
	ErrConfigRead       ErrorCode = "CONFIG_READ"
	ErrConfigParse      ErrorCode = "CONFIG_PARSE"
	ErrInvalidDirective ErrorCode = "INVALID_DIRECTIVE"
	ErrInvalidPattern   ErrorCode = "INVALID_PATTERN"

	// Resolution errors
	ErrAliasNotFound  ErrorCode = "ALIAS_NOT_FOUND"
	ErrTargetNotFound ErrorCode = "TARGET_NOT_FOUND"
	ErrSelfReference  ErrorCode = "SELF_REFERENCE"

	// Recursion errors
	ErrDepthExceeded ErrorCode = "DEPTH_EXCEEDED"

	// Cache errors
	ErrCacheIO      ErrorCode = "CACHE_IO"
	ErrCacheCorrupt ErrorCode = "CACHE_CORRUPT"

	// Process errors
	ErrSpawn   ErrorCode = "SPAWN"
	ErrCharset ErrorCode = "CHARSET"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCreate    ErrorCode = "FILE_CREATE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// AkaError represents a structured error with code and details
type AkaError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *AkaError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AkaError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *AkaError) Is(target error) bool {
	var targetErr *AkaError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new AkaError with the given code and message
func New(code ErrorCode, message string) *AkaError {
	return &AkaError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new AkaError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *AkaError {
	return &AkaError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an AkaError
func Wrap(err error, code ErrorCode, message string) *AkaError {
	if err == nil {
		return nil
	}
	return &AkaError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AkaError {
	if err == nil {
		return nil
	}
	return &AkaError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *AkaError) WithDetail(key string, value interface{}) *AkaError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var akaErr *AkaError
	if errors.As(err, &akaErr) {
		return akaErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an AkaError
func GetErrorCode(err error) ErrorCode {
	var akaErr *AkaError
	if errors.As(err, &akaErr) {
		return akaErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an AkaError
func GetErrorDetails(err error) map[string]interface{} {
	var akaErr *AkaError
	if errors.As(err, &akaErr) {
		return akaErr.Details
	}
	return nil
}

// ExitCode maps an error to the process exit status. Spawn failures carry
// the platform error number when one is available; every other failure is 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if IsErrorCode(err, ErrSpawn) {
		var errno syscall.Errno
		if errors.As(err, &errno) && errno != 0 {
			return int(errno)
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return 127
		}
		if errors.Is(err, fs.ErrPermission) {
			return 126
		}
	}
	return 1
}
