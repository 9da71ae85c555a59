// Package validation checks synchronization settings before any request is made.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the setting that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Unwrap exposes the collected errors to errors.Is/As.
func (ve Errors) Unwrap() []error {
	return ve
}

// Result contains the outcome of a validation check.
type Result struct {
	// Warnings contains non-fatal validation issues
	Warnings []string
	// Errors contains validation failures that prevent the operation
	Errors []error
}

// Add records err if it is not nil.
func (r *Result) Add(err error) {
	if err != nil {
		r.Errors = append(r.Errors, err)
	}
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Valid returns true if there are no validation errors.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns the combined validation error, or nil.
func (r *Result) Err() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return r.Errors[0]
	default:
		return Errors(r.Errors)
	}
}

// Required fails when value is empty or only whitespace.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &Error{Field: field, Message: "value is required"}
	}
	return nil
}

// ServerURL checks that raw is an absolute http or https URL.
func ServerURL(field, raw string) error {
	if err := Required(field, raw); err != nil {
		return err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &Error{Field: field, Message: "not a valid URL", Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &Error{Field: field, Message: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return &Error{Field: field, Message: "host is missing"}
	}
	return nil
}

// Name checks a project or package name. Names may not contain slashes or
// whitespace.
func Name(field, name string) error {
	if err := Required(field, name); err != nil {
		return err
	}
	if strings.ContainsAny(name, "/ \t\n") {
		return &Error{Field: field, Message: fmt.Sprintf("invalid name %q", name)}
	}
	return nil
}

// Directory checks that path exists and is a directory.
func Directory(field, path string) error {
	if err := Required(field, path); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Error{Field: field, Message: "path does not exist", Err: err}
		}
		return &Error{Field: field, Message: "cannot access path", Err: err}
	}
	if !info.IsDir() {
		return &Error{Field: field, Message: "path is not a directory"}
	}
	return nil
}
