package main

import (
	"fmt"

	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	var (
		name        string
		search      string
		containerID string
		limit       int
		desc        bool
	)
	key := newChoiceFlag("pid", process.SortKeys)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "ps"},
		Short:   "List running processes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && containerID != "" {
				return fmt.Errorf("--name and --container are mutually exclusive")
			}

			var (
				models []process.Model
				err    error
			)
			switch {
			case containerID != "":
				pids, perr := a.containerPIDs(cmd.Context(), containerID)
				if perr != nil {
					return perr
				}
				models, err = a.mgr.FindByIDs(pids...)
			case name != "":
				models, err = a.mgr.FindByName(name)
			default:
				models, err = a.mgr.List()
			}
			if err != nil {
				return err
			}

			models = process.Filter(models, search)
			process.Sort(models, sortKey(cmd.Flags(), key, a.cfg.Sort), desc)
			if limit > 0 && len(models) > limit {
				models = models[:limit]
			}
			return renderModels(a.out, a.cfg.Output, models)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Only processes with this exact name")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive search over name, user, command and pid")
	cmd.Flags().StringVarP(&containerID, "container", "c", "", "Only processes running in this Docker container")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Show at most this many processes (0: all)")
	addSortFlags(cmd.Flags(), key, &desc)
	return cmd
}
