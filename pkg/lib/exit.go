package lib

import (
	"errors"
	"fmt"
	"os"
)

// exitError carries a process exit status alongside the error.
type exitError struct {
	err  error
	code int
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }
func (e *exitError) ExitCode() int { return e.code }

// WithExitCode makes Exit terminate with code instead of 1.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &exitError{err: err, code: code}
}

// ExitCode returns the status Exit would use for err.
func ExitCode(err error) int {
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

// Exit prints the error and exits the program with its exit code (1 by default)
func Exit(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(ExitCode(err))
}
