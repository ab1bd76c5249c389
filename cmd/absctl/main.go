package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Absolute-Control/Absolute-Control/pkg/lib"
	"github.com/spf13/cobra"
)

func newRootCommand(a *app) *cobra.Command {
	var configPath, logLevel string
	output := newChoiceFlag("table", outputFormats)

	root := &cobra.Command{
		Use:   appName,
		Short: "List, find, kill and start processes",
		Long: appName + ` lists, queries and kills operating-system processes and starts
new ones from a command string.

Configuration is read from <config dir>/config.yml, where the config dir is
$` + envConfigDir + `, $XDG_CONFIG_HOME/` + appName + ` or ~/.config/` + appName + `.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output.String()
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := lib.SetLogLevel(cfg.LogLevel); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: <config dir>/config.yml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level ("+strings.Join(lib.LogLevels, ", ")+")")
	root.PersistentFlags().VarP(output, "output", "o", "output format ("+strings.Join(outputFormats, ", ")+")")

	root.AddCommand(newListCommand(a))
	root.AddCommand(newGetCommand(a))
	root.AddCommand(newKillCommand(a))
	root.AddCommand(newOpenCommand(a))
	root.AddCommand(newPortsCommand(a))
	root.AddCommand(newTopCommand(a))
	root.AddCommand(newPickCommand(a))
	root.AddCommand(newShellCommand(a))

	root.SilenceErrors = true
	root.SilenceUsage = true
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(newApp()).ExecuteContext(ctx); err != nil {
		stop()
		lib.Exit(err)
	}
}
