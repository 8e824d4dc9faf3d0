package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Process exit statuses.
const (
	ExitOK          = 0
	ExitInput       = 1
	ExitUsage       = 2
	ExitPartial     = 3
	ExitInterrupted = 130
)

// ErrMissingFilename is returned when no export file is given.
type ErrMissingFilename struct{}

func (e *ErrMissingFilename) Error() string {
	return "missing filename to import, see --help"
}

// UsageError wraps an invalid flag or argument.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ErrImportIncomplete indicates that the run finished with failed accounts.
type ErrImportIncomplete struct {
	Failed int
	Total  int
}

func (e *ErrImportIncomplete) Error() string {
	return fmt.Sprintf("%d of %d accounts were not imported", e.Failed, e.Total)
}

// loggedError marks an error that has already been written to the log.
type loggedError struct {
	err error
}

func (e *loggedError) Error() string {
	return e.err.Error()
}

func (e *loggedError) Unwrap() error {
	return e.err
}

func logged(err error) error {
	return &loggedError{err: err}
}

func isLogged(err error) bool {
	var l *loggedError
	return errors.As(err, &l)
}

// classify maps an error returned by the command to an exit status.
// Errors not listed here stop the run before any account is imported.
func classify(err error) int {
	var (
		usageErr      *UsageError
		missingErr    *ErrMissingFilename
		incompleteErr *ErrImportIncomplete
	)

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &usageErr), errors.As(err, &missingErr):
		return ExitUsage
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &incompleteErr):
		return ExitPartial
	default:
		return ExitInput
	}
}

// requireFilename accepts any number of arguments; the last one is the
// export to import.
func requireFilename(_ *cobra.Command, args []string) error {
	if len(args) == 0 || args[len(args)-1] == "" {
		return &ErrMissingFilename{}
	}
	return nil
}
