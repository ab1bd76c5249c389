package main

import (
	"errors"
	"fmt"

	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

func newPickCommand(a *app) *cobra.Command {
	var multi, yes bool

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Fuzzy-find processes and kill the selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			procs, err := a.mgr.List()
			if err != nil {
				return err
			}
			if len(procs) == 0 {
				return fmt.Errorf("no processes found")
			}
			process.Sort(procs, a.cfg.Sort, false)

			selected, err := fzfSelect(procs, multi)
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return nil
			}
			if err != nil {
				return err
			}

			pids := make([]int32, len(selected))
			for i, p := range selected {
				pids[i] = p.Pid
			}
			ok, err := a.approve(fmt.Sprintf("Kill %s?", joinPIDs(pids)), yes)
			if err != nil || !ok {
				return err
			}
			return a.kill(cmd.Context(), killOptions{pids: pids})
		},
	}

	cmd.Flags().BoolVarP(&multi, "multi", "m", false, "Allow selecting several processes (Tab to mark)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// fzfSelect opens go-fuzzyfinder on the terminal with a detail preview of
// the highlighted process.
func fzfSelect(procs []process.Model, multi bool) ([]process.Model, error) {
	label := func(i int) string {
		p := procs[i]
		return fmt.Sprintf("%-7d %-20s %s", p.Pid, p.Name, p.Command())
	}
	opts := []fuzzyfinder.Option{
		fuzzyfinder.WithPromptString("Select process: "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return describeModel(procs[i])
		}),
	}

	var idxs []int
	if multi {
		var err error
		if idxs, err = fuzzyfinder.FindMulti(procs, label, opts...); err != nil {
			return nil, err
		}
	} else {
		idx, err := fuzzyfinder.Find(procs, label, opts...)
		if err != nil {
			return nil, err
		}
		idxs = []int{idx}
	}

	out := make([]process.Model, len(idxs))
	for i, idx := range idxs {
		out[i] = procs[idx]
	}
	return out, nil
}
