package process

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SortKeys lists the keys accepted by Sort.
var SortKeys = []string{"pid", "name", "user", "cpu", "memory"}

// ValidSortKey reports whether key is one of SortKeys.
func ValidSortKey(key string) bool {
	return slices.Contains(SortKeys, key)
}

// Sort orders models in place by key. Unknown keys sort by pid. Ties keep
// their enumeration order.
func Sort(models []Model, key string, desc bool) {
	compare := func(a, b Model) int {
		switch key {
		case "name":
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case "user":
			return strings.Compare(strings.ToLower(a.Username), strings.ToLower(b.Username))
		case "cpu":
			return cmp.Compare(a.CPUPercent, b.CPUPercent)
		case "memory":
			return cmp.Compare(a.MemoryPercent, b.MemoryPercent)
		default:
			return cmp.Compare(a.Pid, b.Pid)
		}
	}
	slices.SortStableFunc(models, func(a, b Model) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
}

// Filter returns the models whose name, user, command line or pid contain
// search, ignoring case. An empty search returns models unchanged.
func Filter(models []Model, search string) []Model {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return models
	}
	out := make([]Model, 0, len(models))
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), search) ||
			strings.Contains(strings.ToLower(m.Username), search) ||
			strings.Contains(strings.ToLower(strings.Join(m.Cmdline, " ")), search) ||
			strings.Contains(strconv.Itoa(int(m.Pid)), search) {
			out = append(out, m)
		}
	}
	return out
}

// Command returns the command line joined with spaces, or the bracketed
// name when the command line is empty (kernel threads, zombies).
func (m Model) Command() string {
	if len(m.Cmdline) == 0 {
		return fmt.Sprintf("[%s]", m.Name)
	}
	return strings.Join(m.Cmdline, " ")
}
