package internal

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrHelpRequested is returned by the classifier when -h/--help is present.
var ErrHelpRequested = errors.New("help requested")

// UsageError reports missing or invalid arguments. The caller prints usage.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func (e *UsageError) ExitCode() int {
	return 1
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// IdentityError is returned when the binary is run under its own name
// without --target, so there is no host or group to act on.
type IdentityError struct {
	Name string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf(
		"%s must be invoked through a symlink named after a host or group (or with --target)",
		e.Name,
	)
}

func (e *IdentityError) ExitCode() int {
	return 1
}

// FilesystemError wraps a failed directory or symlink operation.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

func (e *FilesystemError) ExitCode() int {
	return 1
}

// ExitError carries the exit status of the child process.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func (e *ExitError) ExitCode() int {
	return e.Code
}
