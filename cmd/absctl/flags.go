package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	"github.com/spf13/pflag"
)

// choiceFlag is a string flag restricted to a fixed set of values.
type choiceFlag struct {
	value   string
	choices []string
}

func newChoiceFlag(def string, choices []string) *choiceFlag {
	return &choiceFlag{value: def, choices: choices}
}

func (f *choiceFlag) String() string { return f.value }

func (f *choiceFlag) Set(v string) error {
	if !slices.Contains(f.choices, v) {
		return fmt.Errorf("must be one of %s", strings.Join(f.choices, ", "))
	}
	f.value = v
	return nil
}

func (f *choiceFlag) Type() string { return "string" }

var _ pflag.Value = (*choiceFlag)(nil)

// addSortFlags registers --sort and --desc on fs.
func addSortFlags(fs *pflag.FlagSet, key *choiceFlag, desc *bool) {
	fs.Var(key, "sort", "Sort key ("+strings.Join(process.SortKeys, ", ")+")")
	fs.BoolVar(desc, "desc", false, "Sort in descending order")
}

// sortKey returns the --sort value when set, the configured default otherwise.
func sortKey(fs *pflag.FlagSet, key *choiceFlag, def string) string {
	if fs.Changed("sort") {
		return key.String()
	}
	return def
}

func parsePID(s string) (int32, error) {
	pid, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid %q", s)
	}
	return int32(pid), nil
}

func parsePIDs(args []string) ([]int32, error) {
	pids := make([]int32, 0, len(args))
	for _, arg := range args {
		pid, err := parsePID(arg)
		if err != nil {
			return nil, err
		}
		pids = append(pids, pid)
	}
	return pids, nil
}
