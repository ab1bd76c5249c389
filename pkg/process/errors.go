package process

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	psutil "github.com/shirou/gopsutil/v4/process"
)

var (
	// ErrAccessDenied is returned when the OS refuses to expose or signal a process.
	ErrAccessDenied = errors.New("access denied")
	// ErrNoSuchProcess is returned when a process exited between enumeration and use.
	ErrNoSuchProcess = errors.New("no such process")
	// ErrEmptyCommand is returned by Open when the command has no executable.
	ErrEmptyCommand = errors.New("empty command")
)

// IsTransient reports whether err is a per-process failure that bulk
// operations skip instead of returning.
func IsTransient(err error) bool {
	return errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrNoSuchProcess)
}

// classify maps native gopsutil and syscall errors onto ErrAccessDenied and
// ErrNoSuchProcess. Anything else is returned untouched.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case IsTransient(err):
		return err
	case errors.Is(err, os.ErrPermission),
		errors.Is(err, psutil.ErrorNotPermitted):
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	case errors.Is(err, psutil.ErrorProcessNotRunning),
		errors.Is(err, os.ErrProcessDone),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, syscall.ESRCH):
		return fmt.Errorf("%w: %w", ErrNoSuchProcess, err)
	}
	return err
}
