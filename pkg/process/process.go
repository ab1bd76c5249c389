// Package process lists, queries, kills and starts operating-system processes.
//
// Snapshots are plain Model values copied off live handles. All operations
// re-read the process table on every call. Per-process access-denied and
// no-such-process failures never abort a bulk operation.
package process

var std = NewManager(OS())

// List returns a snapshot of every visible process.
func List() ([]Model, error) { return std.List() }

// FindByID returns the process with the given pid, if any.
func FindByID(pid int32) (Model, bool, error) { return std.FindByID(pid) }

// FindByName returns every process whose name equals name.
func FindByName(name string) ([]Model, error) { return std.FindByName(name) }

// KillAll kills every visible process.
func KillAll() error { return std.KillAll() }

// KillByID kills the process with the given pid.
func KillByID(pid int32) error { return std.KillByID(pid) }

// KillByName kills every process whose name equals name.
func KillByName(name string) error { return std.KillByName(name) }

// Open starts command and returns a snapshot of the new process.
func Open(command string) (Model, error) { return std.Open(command) }
