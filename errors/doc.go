// Package errors provides the structured error type shared by every vpgbench
// package. Errors carry a machine-readable code, a human-readable message,
// free-form details (binary, argv, exit code, offending field) and the
// underlying cause, and map onto the process exit status of the CLI.
package errors
