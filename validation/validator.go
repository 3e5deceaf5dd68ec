package validation

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kbukum/vpgbench/errors"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if there are validation errors, nil otherwise.
func (v *Validator) Validate() error {
	if !v.HasErrors() {
		return nil
	}
	return fieldErrors(v.errors)
}

// Required checks if a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// OneOf checks that value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, "must be one of: "+strings.Join(allowed, " "))
	return v
}

// Min checks if a number meets minimum value.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	if value < minVal {
		v.AddError(field, fmt.Sprintf("must be at least %d", minVal))
	}
	return v
}

// Regexp checks that a non-empty value compiles as a regular expression with
// at least the given number of capture groups.
func (v *Validator) Regexp(field, value string, groups int) *Validator {
	if value == "" {
		return v
	}
	re, err := regexp.Compile(value)
	if err != nil {
		v.AddError(field, "must be a valid regular expression")
		return v
	}
	if re.NumSubexp() < groups {
		v.AddError(field, fmt.Sprintf("must have at least %d capture group(s)", groups))
	}
	return v
}

// FileExists checks that path names an existing regular file.
func (v *Validator) FileExists(field, path string) *Validator {
	if path == "" {
		return v
	}
	info, err := os.Stat(path)
	if err != nil {
		v.AddError(field, fmt.Sprintf("file %s does not exist", path))
		return v
	}
	if info.IsDir() {
		v.AddError(field, fmt.Sprintf("%s is a directory", path))
	}
	return v
}

// DirExists checks that path names an existing directory.
func (v *Validator) DirExists(field, path string) *Validator {
	if path == "" {
		return v
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		v.AddError(field, fmt.Sprintf("directory %s does not exist", path))
	}
	return v
}

// Custom adds an error when the condition is false.
func (v *Validator) Custom(field string, ok bool, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

func fieldErrors(errs []FieldError) error {
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{
		"fields": errs,
	}
	return appErr
}
