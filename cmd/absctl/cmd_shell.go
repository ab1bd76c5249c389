package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

// shellCommands maps each REPL command to its help line.
var shellCommands = []struct{ name, help string }{
	{"list", "list [search]        list processes, optionally filtered"},
	{"get", "get <pid>            show one process"},
	{"kill", "kill <pid>...        kill processes by pid"},
	{"killname", "killname <name>      kill every process with this exact name"},
	{"open", "open <command>       start a process"},
	{"ports", "ports                list listening TCP ports"},
	{"help", "help                 show this help"},
	{"exit", "exit                 leave the shell"},
}

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt for list, get, kill and open",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), a)
		},
	}
}

func shellCompleter() *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, len(shellCommands))
	for i, c := range shellCommands {
		items[i] = readline.PcItem(c.name)
	}
	return readline.NewPrefixCompleter(items...)
}

func runShell(ctx context.Context, a *app) error {
	if a.cfg.HistoryFile != "" {
		if err := os.MkdirAll(filepath.Dir(a.cfg.HistoryFile), 0o755); err != nil {
			return fmt.Errorf("creating history directory: %w", err)
		}
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            appName + "> ",
		HistoryFile:       a.cfg.HistoryFile,
		AutoComplete:      shellCompleter(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	// Route command output through readline so the prompt is redrawn cleanly.
	a.out, a.errOut = rl.Stdout(), rl.Stderr()
	sh := &shell{a: a, out: a.out}
	fmt.Fprintln(sh.out, "Type help for the list of commands.")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := sh.dispatch(ctx, line)
		if err != nil {
			fmt.Fprintln(rl.Stderr(), "Error:", err)
		}
		if quit {
			return nil
		}
	}
}

type shell struct {
	a   *app
	out io.Writer
}

// dispatch runs one input line. It reports whether the shell should exit.
func (s *shell) dispatch(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)

	switch cmd {
	case "exit", "quit":
		return true, nil

	case "help":
		for _, c := range shellCommands {
			fmt.Fprintln(s.out, "  "+c.help)
		}
		return false, nil

	case "list":
		models, err := s.a.mgr.List()
		if err != nil {
			return false, err
		}
		models = process.Filter(models, rest)
		process.Sort(models, s.a.cfg.Sort, false)
		return false, renderModels(s.out, "table", models)

	case "get":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: get <pid>")
		}
		pid, err := parsePID(args[0])
		if err != nil {
			return false, err
		}
		m, ok, err := s.a.mgr.FindByID(pid)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, fmt.Errorf("process %d not found", pid)
		}
		return false, renderModel(s.out, "table", m)

	case "kill":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: kill <pid>...")
		}
		pids, err := parsePIDs(args)
		if err != nil {
			return false, err
		}
		return false, s.a.kill(ctx, killOptions{pids: pids})

	case "killname":
		if rest == "" {
			return false, fmt.Errorf("usage: killname <name>")
		}
		return false, s.a.kill(ctx, killOptions{name: rest})

	case "open":
		if rest == "" {
			return false, fmt.Errorf("usage: open <command>")
		}
		m, err := s.a.mgr.Open(rest)
		if err != nil {
			return false, err
		}
		return false, renderModel(s.out, "table", m)

	case "ports":
		listeners, err := s.a.scanPorts("tcp")
		if err != nil {
			return false, err
		}
		return false, renderListeners(s.out, "table", listeners)
	}

	return false, fmt.Errorf("unknown command %q, type help", cmd)
}
