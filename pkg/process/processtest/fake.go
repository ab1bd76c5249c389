// Package processtest provides an in-memory process.Source for tests.
package processtest

import (
	"slices"

	"github.com/Absolute-Control/Absolute-Control/pkg/process"
)

// Fields are the values a fake Process reports.
type Fields struct {
	Pid           int32
	Name          string
	Cmdline       []string
	Status        string
	Username      string
	CPUPercent    float64
	MemoryPercent float32
}

// Process is a fake process.Handle. Errs maps an accessor ("name",
// "cmdline", "status", "username", "cpu_percent", "memory_percent") to the
// error it returns. KillErr is returned by every Kill call.
type Process struct {
	Fields  Fields
	Errs    map[string]error
	KillErr error

	kills    int
	released bool
}

// New returns a fake process reporting f.
func New(f Fields) *Process {
	return &Process{Fields: f}
}

// Kills returns how many times Kill was called.
func (p *Process) Kills() int { return p.kills }

// Released reports whether the manager released the handle after Start.
func (p *Process) Released() bool { return p.released }

func (p *Process) PID() int32 { return p.Fields.Pid }

func (p *Process) Name() (string, error) {
	return p.Fields.Name, p.Errs["name"]
}

func (p *Process) CmdlineSlice() ([]string, error) {
	return slices.Clone(p.Fields.Cmdline), p.Errs["cmdline"]
}

func (p *Process) Status() ([]string, error) {
	if p.Fields.Status == "" {
		return nil, p.Errs["status"]
	}
	return []string{p.Fields.Status}, p.Errs["status"]
}

func (p *Process) Username() (string, error) {
	return p.Fields.Username, p.Errs["username"]
}

func (p *Process) CPUPercent() (float64, error) {
	return p.Fields.CPUPercent, p.Errs["cpu_percent"]
}

func (p *Process) MemoryPercent() (float32, error) {
	return p.Fields.MemoryPercent, p.Errs["memory_percent"]
}

func (p *Process) Kill() error {
	p.kills++
	return p.KillErr
}

func (p *Process) Release() { p.released = true }

// Source is a fake process.Source. Processes returns Procs (or ListErr);
// Start records argv and returns Spawn (or StartErr).
type Source struct {
	Procs    []*Process
	ListErr  error
	Spawn    *Process
	StartErr error

	Started [][]string
	Lists   int
}

func (s *Source) Processes() ([]process.Handle, error) {
	s.Lists++
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	handles := make([]process.Handle, len(s.Procs))
	for i, p := range s.Procs {
		handles[i] = p
	}
	return handles, nil
}

func (s *Source) Start(argv []string) (process.Handle, error) {
	s.Started = append(s.Started, slices.Clone(argv))
	if s.StartErr != nil {
		return nil, s.StartErr
	}
	return s.Spawn, nil
}

// Foo returns the fixture used throughout the tests: pid 1, named "foo",
// running /usr/bin/foo bar as root at 1% CPU and memory.
func Foo() *Process {
	return New(Fields{
		Pid:           1,
		Name:          "foo",
		Cmdline:       []string{"/usr/bin/foo", "bar"},
		Status:        "running",
		Username:      "root",
		CPUPercent:    1,
		MemoryPercent: 1,
	})
}
