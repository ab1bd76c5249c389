package main

import (
	"github.com/spf13/cobra"
)

func newPortsCommand(a *app) *cobra.Command {
	var flagUDP, flagAll bool

	cmd := &cobra.Command{
		Use:   "ports",
		Short: "List listening ports and the processes that own them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listeners, err := a.scanPorts(resolveProto(flagUDP, flagAll))
			if err != nil {
				return err
			}
			return renderListeners(a.out, a.cfg.Output, listeners)
		},
	}

	cmd.Flags().BoolVar(&flagUDP, "udp", false, "Scan UDP instead of TCP")
	cmd.Flags().BoolVar(&flagAll, "all", false, "Scan TCP and UDP")
	return cmd
}

func resolveProto(udp, all bool) string {
	if all {
		return "all"
	}
	if udp {
		return "udp"
	}
	return "tcp"
}
