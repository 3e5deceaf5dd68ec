package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeNotFound indicates a required file or resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Execution errors
const (
	// ErrCodeProcessFailed indicates an external command exited non-zero.
	ErrCodeProcessFailed ErrorCode = "PROCESS_FAILED"
	// ErrCodeMissingBinary indicates a required external tool could not be located.
	ErrCodeMissingBinary ErrorCode = "MISSING_BINARY"
	// ErrCodeTimeout indicates an invocation exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInterrupted indicates the run was canceled by a signal.
	ErrCodeInterrupted ErrorCode = "INTERRUPTED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure (I/O, encoding).
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Exit statuses used by the CLI.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:  true,
	ErrCodeInternal: false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Nothing in vpgbench retries; the flag is informational for callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

var exitStatuses = map[ErrorCode]int{
	ErrCodeInvalidInput: ExitUsage,
	ErrCodeMissingField: ExitUsage,
	ErrCodeInterrupted:  ExitInterrupted,
}

// ExitStatus returns the process exit status for an error code.
func ExitStatus(code ErrorCode) int {
	if s, ok := exitStatuses[code]; ok {
		return s
	}
	return ExitFailure
}
