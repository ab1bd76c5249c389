package process

import (
	"fmt"
	"slices"
)

// Model is a point-in-time snapshot of one OS process. It holds no reference
// to the live process: killing the process later does not change it.
type Model struct {
	Pid           int32    `json:"pid" yaml:"pid"`
	Name          string   `json:"name" yaml:"name"`
	Cmdline       []string `json:"cmdline" yaml:"cmdline"`
	Status        string   `json:"status" yaml:"status"`
	Username      string   `json:"username" yaml:"username"`
	CPUPercent    float64  `json:"cpu_percent" yaml:"cpu_percent"`
	MemoryPercent float64  `json:"memory_percent" yaml:"memory_percent"`
}

// FromProcess copies the observable fields of h into a new Model.
//
// The first field that cannot be read fails the whole snapshot; callers that
// walk many processes should skip errors for which IsTransient is true.
func FromProcess(h Handle) (Model, error) {
	pid := h.PID()
	m := Model{Pid: pid}

	var err error
	if m.Name, err = h.Name(); err != nil {
		return Model{}, fmt.Errorf("pid %d: name: %w", pid, err)
	}
	cmdline, err := h.CmdlineSlice()
	if err != nil {
		return Model{}, fmt.Errorf("pid %d: cmdline: %w", pid, err)
	}
	m.Cmdline = slices.Clone(cmdline)

	status, err := h.Status()
	if err != nil {
		return Model{}, fmt.Errorf("pid %d: status: %w", pid, err)
	}
	if len(status) > 0 {
		m.Status = status[0]
	}

	if m.Username, err = h.Username(); err != nil {
		return Model{}, fmt.Errorf("pid %d: username: %w", pid, err)
	}
	if m.CPUPercent, err = h.CPUPercent(); err != nil {
		return Model{}, fmt.Errorf("pid %d: cpu percent: %w", pid, err)
	}
	mem, err := h.MemoryPercent()
	if err != nil {
		return Model{}, fmt.Errorf("pid %d: memory percent: %w", pid, err)
	}
	m.MemoryPercent = float64(mem)

	return m, nil
}

// Equal reports whether both snapshots carry the same field values.
func (m Model) Equal(other Model) bool {
	return m.Pid == other.Pid &&
		m.Name == other.Name &&
		slices.Equal(m.Cmdline, other.Cmdline) &&
		m.Status == other.Status &&
		m.Username == other.Username &&
		m.CPUPercent == other.CPUPercent &&
		m.MemoryPercent == other.MemoryPercent
}
