package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func newOpenCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <command>",
		Short: "Start a process and show its snapshot",
		Long: `Start a process and show its snapshot.

The arguments are joined with spaces and split again with shell word rules,
so quote the whole command to keep arguments that contain spaces:

  ` + appName + ` open "sleep 60"
  ` + appName + ` open 'touch "/tmp/a file"'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.mgr.Open(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return renderModel(a.out, a.cfg.Output, m)
		},
	}
}
