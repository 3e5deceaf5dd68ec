package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation could succeed when repeated.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// ExitStatus returns the CLI exit status for this error.
func (e *AppError) ExitStatus() int { return ExitStatus(e.Code) }

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// ProcessFailed creates an error for an external command that exited with a
// non-zero status. The full argument vector is kept for the failure report.
func ProcessFailed(binary string, args []string, exitCode int) *AppError {
	argv := append([]string{binary}, args...)
	return &AppError{
		Code:    ErrCodeProcessFailed,
		Message: fmt.Sprintf("command %q exited with code %d", strings.Join(argv, " "), exitCode),
		Details: map[string]any{
			"binary":    binary,
			"args":      append([]string(nil), args...),
			"exit_code": exitCode,
		},
	}
}

// MissingBinary creates an error for an external tool that cannot be located.
func MissingBinary(name string, searched []string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingBinary,
		Message: fmt.Sprintf("could not find %s (searched %v and $PATH)", name, searched),
		Details: map[string]any{"binary": name, "searched": searched},
	}
}

// Timeout creates an error for an invocation that exceeded its deadline.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s exceeded its deadline", operation),
		Retryable: true,
		Details:   map[string]any{"operation": operation},
	}
}

// Interrupted creates an error for an operation canceled by a signal.
func Interrupted(operation string) *AppError {
	return &AppError{
		Code: ErrCodeInterrupted, Message: fmt.Sprintf("%s was interrupted", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NotFound creates an error for a file or resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("the requested %s was not found", resource),
		Details: details,
	}
}

// InvalidInput creates an error for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates an error for failed validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// MissingField creates an error for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// Internal creates an error for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Cause: cause,
	}
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is (or wraps) an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// ExitStatusOf maps any error to a CLI exit status. Plain errors exit 1.
func ExitStatusOf(err error) int {
	if err == nil {
		return ExitOK
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr.ExitStatus()
	}
	return ExitFailure
}
