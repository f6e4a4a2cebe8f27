package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryUsage   Category = "usage"
	CategoryContent Category = "content"
	CategoryPublish Category = "publish"
	CategoryHTTP    Category = "http"
)

// SitekitError is a structured error with a code, suggestion and documentation.
type SitekitError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (config, usage, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// File is the config or content file the error relates to, if any.
	File string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *SitekitError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *SitekitError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a SitekitError with the same code.
func (e *SitekitError) Is(target error) bool {
	t, ok := target.(*SitekitError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithFile records the file the error relates to.
func (e *SitekitError) WithFile(file string) *SitekitError {
	e.File = file
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *SitekitError) WithSuggestion(s string) *SitekitError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *SitekitError) WithDetail(d string) *SitekitError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *SitekitError) Wrap(err error) *SitekitError {
	e.Wrapped = err
	return e
}

// New creates a SitekitError from a registered error code.
func New(code string) *SitekitError {
	template, ok := registry[code]
	if !ok {
		return &SitekitError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &SitekitError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new SitekitError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *SitekitError {
	return &SitekitError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a SitekitError.
// An error that already is (or wraps) a SitekitError is returned as is.
func FromError(err error, code string) *SitekitError {
	if err == nil {
		return nil
	}
	var se *SitekitError
	if stderrors.As(err, &se) {
		return se
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is or wraps a SitekitError with the given code.
func HasCode(err error, code string) bool {
	var se *SitekitError
	for err != nil {
		if !stderrors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Wrapped
	}
	return false
}
