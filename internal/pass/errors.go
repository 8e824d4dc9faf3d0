package pass

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRecordImport indicates that pass failed to insert a single entry.
type ErrRecordImport struct {
	Destination string
	Stderr      string // Trimmed standard error output of pass
	ExitCode    int    // -1 if the process did not exit normally
	Err         error  // Underlying error, if any
}

func (e *ErrRecordImport) Error() string {
	msg := fmt.Sprintf("pass insert %q failed", e.Destination)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (exit status %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrRecordImport) Unwrap() error {
	return e.Err
}

// ErrCommandNotFound indicates that the pass binary could not be located.
type ErrCommandNotFound struct {
	Command string
	Err     error
}

func (e *ErrCommandNotFound) Error() string {
	return fmt.Sprintf("insert command %q not found: %v", e.Command, e.Err)
}

func (e *ErrCommandNotFound) Unwrap() error {
	return e.Err
}

// IsRecordImport returns true if the error is a per-record import error.
func IsRecordImport(err error) bool {
	var importErr *ErrRecordImport
	return errors.As(err, &importErr)
}

// IsCommandNotFound returns true if the pass binary could not be located.
func IsCommandNotFound(err error) bool {
	var notFoundErr *ErrCommandNotFound
	return errors.As(err, &notFoundErr)
}

func trimStderr(b []byte) string {
	return strings.TrimSpace(string(b))
}
