// Package pass inserts secrets into the standard unix password manager by
// running its command line.
package pass

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"time"

	"github.com/nvinuesa/fsk2pass/internal/security"
)

// DefaultCommand is the pass binary looked up in PATH.
const DefaultCommand = "pass"

// Inserter stores a multi-line secret under a destination path.
type Inserter interface {
	Insert(ctx context.Context, dest string, lines []string, force bool) error
}

// Store runs `pass insert --multiline` once per entry.
type Store struct {
	// Command is the pass binary. Defaults to DefaultCommand.
	Command string

	// Timeout bounds a single insert. Zero means no timeout.
	Timeout time.Duration
}

// NewStore returns a Store running command, or DefaultCommand if empty.
func NewStore(command string, timeout time.Duration) *Store {
	if command == "" {
		command = DefaultCommand
	}
	return &Store{Command: command, Timeout: timeout}
}

// LookPath checks that the pass binary can be executed.
func (s *Store) LookPath() (string, error) {
	path, err := exec.LookPath(s.command())
	if err != nil {
		return "", &ErrCommandNotFound{Command: s.command(), Err: err}
	}
	return path, nil
}

// Args returns the argument vector for inserting at dest. The secret is
// never part of it.
func Args(dest string, force bool) []string {
	args := []string{"insert", "--multiline"}
	if force {
		args = append(args, "--force")
	}
	return append(args, dest)
}

// Insert runs pass for dest and writes lines to its standard input, one per
// line. It returns an *ErrRecordImport if pass writes to standard error or
// exits with a non-zero status.
func (s *Store) Insert(ctx context.Context, dest string, lines []string, force bool) error {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	payload := security.NewPayload(lines)
	defer payload.Zero()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.command(), Args(dest, force)...)
	cmd.Stdin = bytes.NewReader(payload.Bytes())
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()

	if runErr != nil && (errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist)) {
		return &ErrCommandNotFound{Command: s.command(), Err: runErr}
	}

	msg := trimStderr(stderr.Bytes())
	if runErr == nil && msg == "" {
		return nil
	}

	importErr := &ErrRecordImport{
		Destination: dest,
		Stderr:      msg,
		Err:         runErr,
	}
	if cmd.ProcessState != nil {
		importErr.ExitCode = cmd.ProcessState.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		importErr.Err = ctxErr
	}
	return importErr
}

func (s *Store) command() string {
	if s.Command == "" {
		return DefaultCommand
	}
	return s.Command
}
