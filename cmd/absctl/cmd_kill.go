package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Absolute-Control/Absolute-Control/pkg/ports"
	"github.com/spf13/cobra"
)

// killOptions selects what `kill` targets. Exactly one selector is set.
type killOptions struct {
	pids        []int32
	name        string
	all         bool
	port        uint32
	proto       string
	containerID string
	yes         bool
}

func (o killOptions) validate() error {
	set := 0
	for _, on := range []bool{len(o.pids) > 0, o.name != "", o.all, o.port > 0, o.containerID != ""} {
		if on {
			set++
		}
	}
	switch {
	case set == 0:
		return fmt.Errorf("nothing to kill: give pids or one of --name, --all, --port, --container")
	case set > 1:
		return fmt.Errorf("pids, --name, --all, --port and --container are mutually exclusive")
	}
	return nil
}

func newKillCommand(a *app) *cobra.Command {
	var (
		opts    killOptions
		udp     bool
		allSock bool
	)

	cmd := &cobra.Command{
		Use:   "kill [pid...]",
		Short: "Kill processes by pid, name, listening port or container",
		Long: `Kill processes by pid, name, listening port or container.

Processes the OS refuses to kill, or that already exited, are skipped.
--name and --all ask for confirmation unless --yes is given or confirm is
false in the config. --all spares the names listed under protect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pids, err := parsePIDs(args)
			if err != nil {
				return err
			}
			opts.pids = pids
			opts.proto = resolveProto(udp, allSock)
			return a.kill(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "Kill every process with this exact name")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Kill every visible process")
	cmd.Flags().Uint32VarP(&opts.port, "port", "p", 0, "Kill the processes listening on this port")
	cmd.Flags().BoolVar(&udp, "udp", false, "With --port, look at UDP sockets instead of TCP")
	cmd.Flags().BoolVar(&allSock, "all-protocols", false, "With --port, look at TCP and UDP sockets")
	cmd.Flags().StringVarP(&opts.containerID, "container", "c", "", "Kill the processes running in this Docker container")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *app) kill(ctx context.Context, o killOptions) error {
	if err := o.validate(); err != nil {
		return err
	}

	switch {
	case len(o.pids) > 0:
		live, err := a.livePIDs(o.pids)
		if err != nil || len(live) == 0 {
			return err
		}
		if err := a.mgr.KillByIDs(live...); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "sent kill to %s\n", joinPIDs(live))

	case o.name != "":
		matches, err := a.mgr.FindByName(o.name)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Fprintf(a.out, "no process named %q\n", o.name)
			return nil
		}
		ok, err := a.approve(fmt.Sprintf("Kill %d process(es) named %q?", len(matches), o.name), o.yes)
		if err != nil || !ok {
			return err
		}
		if err := a.mgr.KillByName(o.name); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "sent kill to processes named %q\n", o.name)

	case o.all:
		title := "Kill every visible process?"
		if len(a.cfg.Protect) > 0 {
			title = fmt.Sprintf("Kill every visible process except %s?", strings.Join(a.cfg.Protect, ", "))
		}
		ok, err := a.approve(title, o.yes)
		if err != nil || !ok {
			return err
		}
		if len(a.cfg.Protect) > 0 {
			err = a.mgr.KillAllExcept(a.cfg.Protect...)
		} else {
			err = a.mgr.KillAll()
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "sent kill to every visible process")

	case o.port > 0:
		listeners, err := a.scanPorts(o.proto)
		if err != nil {
			return err
		}
		pids := ports.PIDs(listeners, o.port)
		if len(pids) == 0 {
			fmt.Fprintf(a.out, "nothing listening on port %d\n", o.port)
			return nil
		}
		if err := a.mgr.KillByIDs(pids...); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "sent kill to %s (port %d)\n", joinPIDs(pids), o.port)

	case o.containerID != "":
		pids, err := a.containerPIDs(ctx, o.containerID)
		if err != nil {
			return err
		}
		if len(pids) == 0 {
			fmt.Fprintf(a.out, "no process running in container %s\n", o.containerID)
			return nil
		}
		if err := a.mgr.KillByIDs(pids...); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "sent kill to %s (container %s)\n", joinPIDs(pids), o.containerID)
	}
	return nil
}

// livePIDs returns the pids in pids that belong to a running process and
// reports the others on a.out.
func (a *app) livePIDs(pids []int32) ([]int32, error) {
	found, err := a.mgr.FindByIDs(pids...)
	if err != nil {
		return nil, err
	}
	running := make(map[int32]bool, len(found))
	for _, m := range found {
		running[m.Pid] = true
	}
	live := make([]int32, 0, len(pids))
	for _, pid := range pids {
		if running[pid] {
			live = append(live, pid)
			continue
		}
		fmt.Fprintf(a.out, "no process with pid %d\n", pid)
	}
	return live, nil
}

func joinPIDs(pids []int32) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = fmt.Sprintf("pid %d", pid)
	}
	return strings.Join(parts, ", ")
}
