package sources

import (
	"errors"
	"fmt"
)

// Common errors that can be returned by source adapters.
var (
	// ErrNotOpen is returned when Read is called before Open.
	ErrNotOpen = errors.New("source not open")

	// ErrAlreadyOpen is returned when Open is called on an already-open source.
	ErrAlreadyOpen = errors.New("source already open")
)

// ErrFileNotFound indicates the path does not name an existing regular file.
type ErrFileNotFound struct {
	Path   string
	Reason string // Set when the path exists but is not a regular file
}

func (e *ErrFileNotFound) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("file not found: %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("file not found: %q", e.Path)
}

// ErrMalformedInput indicates that the file content is not valid JSON, or is
// JSON of the wrong shape.
type ErrMalformedInput struct {
	Source  string // Source adapter name
	Path    string // File path
	Details string // What was wrong
	Offset  int64  // Byte offset of a syntax error, if known
	Err     error  // Underlying error, if any
}

func (e *ErrMalformedInput) Error() string {
	msg := fmt.Sprintf("%s: malformed input %q", e.Source, e.Path)
	if e.Offset > 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrMalformedInput) Unwrap() error {
	return e.Err
}

// ErrMissingField indicates that a required top-level field is absent.
type ErrMissingField struct {
	Source string
	Path   string
	Field  string
}

func (e *ErrMissingField) Error() string {
	return fmt.Sprintf("%s: %q has no %q field", e.Source, e.Path, e.Field)
}

// ErrPermissionDenied indicates a file access permission issue.
type ErrPermissionDenied struct {
	Path string
	Op   string // Operation that failed (read, open, etc.)
	Err  error  // Underlying error
}

func (e *ErrPermissionDenied) Error() string {
	msg := fmt.Sprintf("permission denied: cannot %s %q", e.Op, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrPermissionDenied) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	var notFoundErr *ErrFileNotFound
	return errors.As(err, &notFoundErr)
}

// IsMalformed returns true if the error is a malformed input error.
func IsMalformed(err error) bool {
	var malformedErr *ErrMalformedInput
	return errors.As(err, &malformedErr)
}

// IsMissingField returns true if the error is a missing field error.
func IsMissingField(err error) bool {
	var missingErr *ErrMissingField
	return errors.As(err, &missingErr)
}

// IsPermissionDenied returns true if the error is a permission error.
func IsPermissionDenied(err error) bool {
	var permErr *ErrPermissionDenied
	return errors.As(err, &permErr)
}
