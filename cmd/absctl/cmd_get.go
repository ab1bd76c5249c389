package main

import (
	"fmt"

	"github.com/Absolute-Control/Absolute-Control/pkg/lib"
	"github.com/spf13/cobra"
)

// exitNotFound is the exit status of `get` when the pid does not exist.
const exitNotFound = 3

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <pid>",
		Short: "Show one process",
		Long:  "Show one process. Exits with status 3 when no live process has the pid.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePID(args[0])
			if err != nil {
				return err
			}
			m, ok, err := a.mgr.FindByID(pid)
			if err != nil {
				return err
			}
			if !ok {
				return lib.WithExitCode(fmt.Errorf("process %d not found", pid), exitNotFound)
			}
			return renderModel(a.out, a.cfg.Output, m)
		},
	}
}
