package process_test

import (
	"errors"
	"testing"

	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	"github.com/Absolute-Control/Absolute-Control/pkg/process/processtest"
	"github.com/google/go-cmp/cmp"
)

func newManager(procs ...*processtest.Process) (*process.Manager, *processtest.Source) {
	src := &processtest.Source{Procs: procs}
	return process.NewManager(src), src
}

func mustSnapshot(t *testing.T, p *processtest.Process) process.Model {
	t.Helper()
	m, err := process.FromProcess(p)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return m
}

func named(pid int32, name string) *processtest.Process {
	p := processtest.Foo()
	p.Fields.Pid = pid
	p.Fields.Name = name
	return p
}

func TestList(t *testing.T) {
	foo := processtest.Foo()
	mgr, _ := newManager(foo)

	got, err := mgr.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []process.Model{mustSnapshot(t, foo)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestList_KeepsEnumerationOrder(t *testing.T) {
	mgr, _ := newManager(named(30, "c"), named(10, "a"), named(20, "b"))

	got, err := mgr.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var pids []int32
	for _, m := range got {
		pids = append(pids, m.Pid)
	}
	if diff := cmp.Diff([]int32{30, 10, 20}, pids); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestList_SkipsTransientFailures(t *testing.T) {
	denied := named(2, "denied")
	denied.Errs = map[string]error{"username": process.ErrAccessDenied}
	gone := named(3, "gone")
	gone.Errs = map[string]error{"cmdline": process.ErrNoSuchProcess}
	mgr, _ := newManager(processtest.Foo(), denied, gone, named(4, "bar"))

	got, err := mgr.List()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Pid != 1 || got[1].Pid != 4 {
		t.Fatalf("expected pids 1 and 4, got %+v", got)
	}
}

func TestList_PropagatesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	broken := named(2, "broken")
	broken.Errs = map[string]error{"status": boom}
	mgr, _ := newManager(processtest.Foo(), broken)

	if _, err := mgr.List(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestList_EnumerationError(t *testing.T) {
	boom := errors.New("boom")
	mgr := process.NewManager(&processtest.Source{ListErr: boom})

	if _, err := mgr.List(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestList_ReEnumeratesEveryCall(t *testing.T) {
	mgr, src := newManager(processtest.Foo())
	for i := 0; i < 3; i++ {
		if _, err := mgr.List(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if src.Lists != 3 {
		t.Fatalf("expected 3 enumerations, got %d", src.Lists)
	}
}

func TestFindByID(t *testing.T) {
	foo := processtest.Foo()
	mgr, _ := newManager(named(5, "other"), foo)

	t.Run("match", func(t *testing.T) {
		got, ok, err := mgr.FindByID(1)
		if err != nil || !ok {
			t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
		}
		if diff := cmp.Diff(mustSnapshot(t, foo), got); diff != "" {
			t.Fatalf("FindByID mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no match", func(t *testing.T) {
		got, ok, err := mgr.FindByID(2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			t.Fatalf("expected no match, got %+v", got)
		}
	})
}

func TestFindByIDs(t *testing.T) {
	mgr, _ := newManager(named(1, "a"), named(2, "b"), named(3, "c"))

	got, err := mgr.FindByIDs(3, 1, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Pid != 1 || got[1].Pid != 3 {
		t.Fatalf("expected pids 1 and 3 in enumeration order, got %+v", got)
	}
}

func TestFindByName(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		mgr, _ := newManager(processtest.Foo(), named(2, "foobar"), named(3, "foo"))
		got, err := mgr.FindByName("foo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0].Pid != 1 || got[1].Pid != 3 {
			t.Fatalf("expected exact matches 1 and 3, got %+v", got)
		}
	})

	t.Run("empty enumeration", func(t *testing.T) {
		mgr, _ := newManager()
		got, err := mgr.FindByName("foo")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("expected an empty non-nil slice, got %#v", got)
		}
	})
}

func TestKillAll(t *testing.T) {
	foo := processtest.Foo()
	mgr, _ := newManager(foo)

	if err := mgr.KillAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if foo.Kills() != 1 {
		t.Fatalf("expected one kill, got %d", foo.Kills())
	}
}

func TestKillAll_SuppressesTransientFailures(t *testing.T) {
	for _, killErr := range []error{process.ErrAccessDenied, process.ErrNoSuchProcess} {
		t.Run(killErr.Error(), func(t *testing.T) {
			first := named(1, "first")
			first.KillErr = killErr
			second := named(2, "second")
			mgr, _ := newManager(first, second)

			if err := mgr.KillAll(); err != nil {
				t.Fatalf("expected the failure to be suppressed, got %v", err)
			}
			if first.Kills() != 1 || second.Kills() != 1 {
				t.Fatalf("expected one kill attempt each, got %d and %d", first.Kills(), second.Kills())
			}
		})
	}
}

func TestKillAll_PropagatesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	first := named(1, "first")
	first.KillErr = boom
	mgr, _ := newManager(first, named(2, "second"))

	err := mgr.KillAll()
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestKillAllExcept(t *testing.T) {
	keep := named(1, "sshd")
	unreadable := named(2, "hidden")
	unreadable.Errs = map[string]error{"name": process.ErrAccessDenied}
	victim := named(3, "foo")
	mgr, _ := newManager(keep, unreadable, victim)

	if err := mgr.KillAllExcept("sshd"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keep.Kills() != 0 || unreadable.Kills() != 0 || victim.Kills() != 1 {
		t.Fatalf("unexpected kills: keep=%d unreadable=%d victim=%d", keep.Kills(), unreadable.Kills(), victim.Kills())
	}
}

func TestKillByID(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		foo := processtest.Foo()
		other := named(5, "other")
		mgr, _ := newManager(foo, other)
		if err := mgr.KillByID(1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if foo.Kills() != 1 || other.Kills() != 0 {
			t.Fatalf("unexpected kills: foo=%d other=%d", foo.Kills(), other.Kills())
		}
	})

	t.Run("no match", func(t *testing.T) {
		foo := processtest.Foo()
		mgr, _ := newManager(foo)
		if err := mgr.KillByID(2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if foo.Kills() != 0 {
			t.Fatalf("expected no kill, got %d", foo.Kills())
		}
	})

	t.Run("access denied", func(t *testing.T) {
		foo := processtest.Foo()
		foo.KillErr = process.ErrAccessDenied
		mgr, _ := newManager(foo)
		if err := mgr.KillByID(1); err != nil {
			t.Fatalf("expected suppression, got %v", err)
		}
	})
}

func TestKillByIDs(t *testing.T) {
	a, b, c := named(1, "a"), named(2, "b"), named(3, "c")
	mgr, src := newManager(a, b, c)

	if err := mgr.KillByIDs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Lists != 0 {
		t.Fatal("an empty pid set must not enumerate")
	}

	if err := mgr.KillByIDs(1, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Kills() != 1 || b.Kills() != 0 || c.Kills() != 1 {
		t.Fatalf("unexpected kills: a=%d b=%d c=%d", a.Kills(), b.Kills(), c.Kills())
	}
}

func TestKillByName(t *testing.T) {
	t.Run("match", func(t *testing.T) {
		foo := processtest.Foo()
		foo2 := named(7, "foo")
		bar := named(8, "bar")
		mgr, _ := newManager(foo, bar, foo2)
		if err := mgr.KillByName("foo"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if foo.Kills() != 1 || foo2.Kills() != 1 || bar.Kills() != 0 {
			t.Fatalf("unexpected kills: foo=%d foo2=%d bar=%d", foo.Kills(), foo2.Kills(), bar.Kills())
		}
	})

	t.Run("no match", func(t *testing.T) {
		foo := processtest.Foo()
		mgr, _ := newManager(foo)
		if err := mgr.KillByName("bar"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if foo.Kills() != 0 {
			t.Fatalf("expected no kill, got %d", foo.Kills())
		}
	})

	t.Run("access denied keeps going", func(t *testing.T) {
		first := processtest.Foo()
		first.KillErr = process.ErrAccessDenied
		second := named(9, "foo")
		mgr, _ := newManager(first, second)
		if err := mgr.KillByName("foo"); err != nil {
			t.Fatalf("expected suppression, got %v", err)
		}
		if second.Kills() != 1 {
			t.Fatal("expected the batch to continue after an access-denied kill")
		}
	})
}

func TestOpen(t *testing.T) {
	spawned := processtest.Foo()
	src := &processtest.Source{Spawn: spawned}
	mgr := process.NewManager(src)

	got, err := mgr.Open("foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mustSnapshot(t, spawned).Equal(got) {
		t.Fatalf("Open returned %+v, want the snapshot of the spawned handle", got)
	}
	if !spawned.Released() {
		t.Fatal("expected the spawned handle to be released after snapshotting")
	}
	if diff := cmp.Diff([][]string{{"foo"}}, src.Started); diff != "" {
		t.Fatalf("argv mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_SplitsShellWords(t *testing.T) {
	src := &processtest.Source{Spawn: processtest.Foo()}
	mgr := process.NewManager(src)

	if _, err := mgr.Open(`/usr/bin/foo --title "hello world" 'a b'`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"/usr/bin/foo", "--title", "hello world", "a b"}}
	if diff := cmp.Diff(want, src.Started); diff != "" {
		t.Fatalf("argv mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Run("empty command", func(t *testing.T) {
		src := &processtest.Source{Spawn: processtest.Foo()}
		mgr := process.NewManager(src)
		if _, err := mgr.Open("   "); !errors.Is(err, process.ErrEmptyCommand) {
			t.Fatalf("expected ErrEmptyCommand, got %v", err)
		}
		if len(src.Started) != 0 {
			t.Fatal("nothing should be spawned for an empty command")
		}
	})

	t.Run("spawn failure", func(t *testing.T) {
		notFound := errors.New("executable file not found")
		src := &processtest.Source{StartErr: notFound}
		mgr := process.NewManager(src)
		if _, err := mgr.Open("missing-binary"); !errors.Is(err, notFound) {
			t.Fatalf("expected the spawn error, got %v", err)
		}
		if len(src.Started) != 1 {
			t.Fatalf("expected exactly one spawn attempt, got %d", len(src.Started))
		}
	})

	t.Run("snapshot failure", func(t *testing.T) {
		spawned := processtest.Foo()
		spawned.Errs = map[string]error{"name": process.ErrNoSuchProcess}
		mgr := process.NewManager(&processtest.Source{Spawn: spawned})
		if _, err := mgr.Open("foo"); !errors.Is(err, process.ErrNoSuchProcess) {
			t.Fatalf("expected ErrNoSuchProcess, got %v", err)
		}
		if !spawned.Released() {
			t.Fatal("expected the handle to be released even when the snapshot fails")
		}
	})
}
