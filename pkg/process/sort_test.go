package process_test

import (
	"testing"

	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	"github.com/google/go-cmp/cmp"
)

func pids(models []process.Model) []int32 {
	out := make([]int32, len(models))
	for i, m := range models {
		out[i] = m.Pid
	}
	return out
}

func TestSort(t *testing.T) {
	models := func() []process.Model {
		return []process.Model{
			{Pid: 3, Name: "bravo", Username: "root", CPUPercent: 5, MemoryPercent: 1},
			{Pid: 1, Name: "Alpha", Username: "bob", CPUPercent: 9, MemoryPercent: 3},
			{Pid: 2, Name: "charlie", Username: "alice", CPUPercent: 1, MemoryPercent: 2},
		}
	}

	tests := []struct {
		key  string
		desc bool
		want []int32
	}{
		{"pid", false, []int32{1, 2, 3}},
		{"pid", true, []int32{3, 2, 1}},
		{"name", false, []int32{1, 3, 2}},
		{"user", false, []int32{2, 1, 3}},
		{"cpu", true, []int32{1, 3, 2}},
		{"memory", false, []int32{3, 2, 1}},
		{"bogus", false, []int32{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := models()
			process.Sort(got, tt.key, tt.desc)
			if diff := cmp.Diff(tt.want, pids(got)); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	models := []process.Model{
		{Pid: 10, Name: "nginx", Username: "www-data", Cmdline: []string{"nginx", "-g", "daemon off;"}},
		{Pid: 42, Name: "postgres", Username: "postgres", Cmdline: []string{"/usr/lib/postgresql/bin/postgres"}},
		{Pid: 421, Name: "bash", Username: "root"},
	}

	tests := []struct {
		search string
		want   []int32
	}{
		{"", []int32{10, 42, 421}},
		{"NGINX", []int32{10}},
		{"www", []int32{10}},
		{"postgresql", []int32{42}},
		{"42", []int32{42, 421}},
		{"nothing", []int32{}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, pids(process.Filter(models, tt.search))); diff != "" {
				t.Fatalf("filter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModelCommand(t *testing.T) {
	if got := (process.Model{Name: "kthreadd"}).Command(); got != "[kthreadd]" {
		t.Fatalf("got %q", got)
	}
	if got := (process.Model{Cmdline: []string{"/bin/sh", "-c", "true"}}).Command(); got != "/bin/sh -c true" {
		t.Fatalf("got %q", got)
	}
}
