package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Absolute-Control/Absolute-Control/pkg/container"
	"github.com/Absolute-Control/Absolute-Control/pkg/lib"
	"github.com/Absolute-Control/Absolute-Control/pkg/ports"
	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	"github.com/charmbracelet/huh"
)

// app holds what every command needs. Tests swap the collaborators for fakes.
type app struct {
	cfg    *Config
	mgr    *process.Manager
	out    io.Writer
	errOut io.Writer

	confirm       func(title string) (bool, error)
	containerPIDs func(ctx context.Context, id string) ([]int32, error)
	scanPorts     func(proto string) ([]ports.Listener, error)
}

func newApp() *app {
	return &app{
		mgr:           process.NewManager(process.OS(), process.WithLogger(lib.Logger())),
		out:           os.Stdout,
		errOut:        os.Stderr,
		confirm:       confirmPrompt,
		containerPIDs: container.PIDs,
		scanPorts:     ports.Scan,
	}
}

// confirmPrompt asks a yes/no question on the terminal. Aborting with
// ctrl+c counts as "no".
func confirmPrompt(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Yes").
			Negative("No").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// approve returns true when the action may proceed: skipped prompts count
// as approval.
func (a *app) approve(title string, yes bool) (bool, error) {
	if yes || !a.cfg.Confirm {
		return true, nil
	}
	ok, err := a.confirm(title)
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(a.errOut, "aborted")
	}
	return ok, nil
}
