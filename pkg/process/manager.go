package process

import (
	"errors"
	"fmt"

	"github.com/Absolute-Control/Absolute-Control/pkg/lib"
	"github.com/google/shlex"
	"github.com/kataras/golog"
)

// Manager runs queries and kills against a Source. Every call re-enumerates
// the source; nothing is cached between calls.
type Manager struct {
	src Source
	log *golog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used to report skipped processes.
func WithLogger(l *golog.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// NewManager returns a Manager over src.
func NewManager(src Source, opts ...Option) *Manager {
	m := &Manager{src: src, log: lib.Logger()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// matcher decides whether a handle takes part in an operation.
type matcher func(h Handle) (bool, error)

func matchAll(Handle) (bool, error) { return true, nil }

func matchPID(pids ...int32) matcher {
	set := make(map[int32]struct{}, len(pids))
	for _, pid := range pids {
		set[pid] = struct{}{}
	}
	return func(h Handle) (bool, error) {
		_, ok := set[h.PID()]
		return ok, nil
	}
}

func matchName(name string) matcher {
	return func(h Handle) (bool, error) {
		n, err := h.Name()
		return n == name, err
	}
}

func matchNameNotIn(names ...string) matcher {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(h Handle) (bool, error) {
		n, err := h.Name()
		if err != nil {
			return false, err
		}
		_, protected := set[n]
		return !protected, nil
	}
}

// snapshot enumerates the source and snapshots every matching handle, in
// enumeration order. Transient per-process failures are skipped.
func (m *Manager) snapshot(match matcher) ([]Model, error) {
	handles, err := m.src.Processes()
	if err != nil {
		return nil, err
	}
	models := make([]Model, 0, len(handles))
	for _, h := range handles {
		ok, err := match(h)
		if err == nil && ok {
			var model Model
			if model, err = FromProcess(h); err == nil {
				models = append(models, model)
				continue
			}
		}
		if err == nil {
			continue
		}
		if !IsTransient(err) {
			return nil, err
		}
		m.log.Debugf("skipping pid %d: %v", h.PID(), err)
	}
	return models, nil
}

// kill enumerates the source and kills every matching handle. Transient
// failures are suppressed so one process cannot stop the rest of the batch.
func (m *Manager) kill(match matcher) error {
	handles, err := m.src.Processes()
	if err != nil {
		return err
	}
	for _, h := range handles {
		ok, err := match(h)
		if err == nil && ok {
			if err = h.Kill(); err == nil {
				m.log.Infof("killed pid %d", h.PID())
				continue
			}
		}
		if err == nil {
			continue
		}
		if !IsTransient(err) {
			return fmt.Errorf("kill pid %d: %w", h.PID(), err)
		}
		m.log.Debugf("could not kill pid %d: %v", h.PID(), err)
	}
	return nil
}

// List returns a snapshot of every visible process.
func (m *Manager) List() ([]Model, error) {
	return m.snapshot(matchAll)
}

// FindByID returns the process with the given pid. ok is false when no live
// process has that pid.
func (m *Manager) FindByID(pid int32) (model Model, ok bool, err error) {
	models, err := m.snapshot(matchPID(pid))
	if err != nil || len(models) == 0 {
		return Model{}, false, err
	}
	return models[0], true, nil
}

// FindByIDs returns the live processes among pids, in enumeration order.
func (m *Manager) FindByIDs(pids ...int32) ([]Model, error) {
	return m.snapshot(matchPID(pids...))
}

// FindByName returns every process whose name equals name.
func (m *Manager) FindByName(name string) ([]Model, error) {
	return m.snapshot(matchName(name))
}

// KillAll kills every process visible to the caller, including the caller's
// own ancestry when the OS allows it.
func (m *Manager) KillAll() error {
	return m.kill(matchAll)
}

// KillAllExcept kills every process whose name is not in names. Processes
// whose name cannot be read are left alone.
func (m *Manager) KillAllExcept(names ...string) error {
	return m.kill(matchNameNotIn(names...))
}

// KillByID kills the process with the given pid. A pid that matches nothing
// is not an error.
func (m *Manager) KillByID(pid int32) error {
	return m.kill(matchPID(pid))
}

// KillByIDs kills every live process among pids.
func (m *Manager) KillByIDs(pids ...int32) error {
	if len(pids) == 0 {
		return nil
	}
	return m.kill(matchPID(pids...))
}

// KillByName kills every process whose name equals name.
func (m *Manager) KillByName(name string) error {
	return m.kill(matchName(name))
}

// Open splits command using shell word rules, starts it and returns a
// snapshot of the new process. Spawn failures are returned as is; there is
// no retry.
func (m *Manager) Open(command string) (Model, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return Model{}, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return Model{}, ErrEmptyCommand
	}
	h, err := m.src.Start(argv)
	if err != nil {
		if errors.Is(err, ErrEmptyCommand) {
			return Model{}, err
		}
		return Model{}, fmt.Errorf("start %s: %w", argv[0], err)
	}
	if r, ok := h.(releaser); ok {
		defer r.Release()
	}
	model, err := FromProcess(h)
	if err != nil {
		return Model{}, err
	}
	m.log.Infof("started pid %d: %s", model.Pid, command)
	return model, nil
}
