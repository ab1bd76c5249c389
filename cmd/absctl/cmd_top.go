package main

import (
	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newTopCommand(a *app) *cobra.Command {
	key := newChoiceFlag("pid", process.SortKeys)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Interactive process table",
		Long: `Interactive process table.

Keys: ↑/↓ navigate, ctrl+k kill the selected process, / search,
s cycle the sort key, r refresh, q quit. The table refreshes on the
interval set by refresh in the config (0 disables it).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(a.topModel(cmd.Flags(), key), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().Var(key, "sort", "Initial sort key (default: sort from the config)")
	return cmd
}

// topModel builds the table sorted by --sort, or by the configured key
// when the flag is not given.
func (a *app) topModel(fs *pflag.FlagSet, key *choiceFlag) topModel {
	return newTopModel(a.mgr, sortKey(fs, key, a.cfg.Sort), a.cfg.Refresh)
}
