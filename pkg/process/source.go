package process

import (
	"errors"
	"fmt"
	"os/exec"
	"os/user"
	"strconv"

	psutil "github.com/shirou/gopsutil/v4/process"
)

// Handle is a live OS process as seen by this package.
type Handle interface {
	PID() int32
	Name() (string, error)
	CmdlineSlice() ([]string, error)
	Status() ([]string, error)
	Username() (string, error)
	CPUPercent() (float64, error)
	MemoryPercent() (float32, error)
	Kill() error
}

// Source enumerates and spawns processes.
type Source interface {
	Processes() ([]Handle, error)
	Start(argv []string) (Handle, error)
}

// releaser is implemented by handles that own OS resources once snapshotted,
// such as the child of Start that still needs reaping.
type releaser interface {
	Release()
}

// OS returns the Source backed by the host process table.
func OS() Source {
	return osSource{}
}

type osSource struct{}

func (osSource) Processes() ([]Handle, error) {
	procs, err := psutil.Processes()
	if err != nil {
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}
	handles := make([]Handle, len(procs))
	for i, p := range procs {
		handles[i] = osHandle{p}
	}
	return handles, nil
}

func (osSource) Start(argv []string) (Handle, error) {
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	p, err := psutil.NewProcess(int32(cmd.Process.Pid))
	if err != nil {
		go cmd.Wait()
		return nil, classify(err)
	}
	return &childHandle{osHandle: osHandle{p}, cmd: cmd}, nil
}

// osHandle adapts *psutil.Process to Handle and classifies its errors.
type osHandle struct {
	*psutil.Process
}

func (h osHandle) PID() int32 { return h.Pid }

func (h osHandle) Name() (string, error) {
	name, err := h.Process.Name()
	return name, classify(err)
}

func (h osHandle) CmdlineSlice() ([]string, error) {
	args, err := h.Process.CmdlineSlice()
	return args, classify(err)
}

func (h osHandle) Status() ([]string, error) {
	status, err := h.Process.Status()
	return status, classify(err)
}

// Username falls back to the numeric uid when it has no passwd entry, which
// is common for processes running inside containers.
func (h osHandle) Username() (string, error) {
	name, err := h.Process.Username()
	var unknown user.UnknownUserIdError
	if errors.As(err, &unknown) {
		return strconv.Itoa(int(unknown)), nil
	}
	return name, classify(err)
}

func (h osHandle) CPUPercent() (float64, error) {
	pct, err := h.Process.CPUPercent()
	return pct, classify(err)
}

func (h osHandle) MemoryPercent() (float32, error) {
	pct, err := h.Process.MemoryPercent()
	return pct, classify(err)
}

func (h osHandle) Kill() error {
	return classify(h.Process.Kill())
}

// childHandle is a process spawned by osSource.Start. It is reaped in the
// background once released so it never lingers as a zombie.
type childHandle struct {
	osHandle
	cmd *exec.Cmd
}

func (h *childHandle) Release() {
	go h.cmd.Wait()
}
