// Package ports lists listening sockets together with the process that owns them.
package ports

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

type Listener struct {
	Proto       string `json:"proto" yaml:"proto"`
	LocalAddr   string `json:"local_addr" yaml:"local_addr"`
	Port        uint32 `json:"port" yaml:"port"`
	Pid         int32  `json:"pid" yaml:"pid"`
	ProcessName string `json:"process" yaml:"process"`
}

// Kinds returns the gopsutil connection kinds scanned for proto: "tcp"
// (default), "udp" or "all".
func Kinds(proto string) []string {
	switch proto {
	case "udp":
		return []string{"udp"}
	case "all":
		return []string{"tcp", "udp"}
	default:
		return []string{"tcp"}
	}
}

// Scan returns listening connections for the given protocol.
func Scan(proto string) ([]Listener, error) {
	var results []Listener
	for _, kind := range Kinds(proto) {
		conns, err := net.Connections(kind)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		results = append(results, fromConnections(kind, conns, processName)...)
	}
	return results, nil
}

// fromConnections keeps the listening entries of conns. UDP has no LISTEN
// state, so any bound UDP socket counts.
func fromConnections(kind string, conns []net.ConnectionStat, name func(pid int32) string) []Listener {
	var out []Listener
	for _, conn := range conns {
		isListening := conn.Status == "LISTEN" || (kind == "udp" && conn.Laddr.Port > 0)
		if !isListening {
			continue
		}
		out = append(out, Listener{
			Proto:       strings.ToUpper(kind),
			LocalAddr:   fmt.Sprintf("%s:%d", conn.Laddr.IP, conn.Laddr.Port),
			Port:        conn.Laddr.Port,
			Pid:         conn.Pid,
			ProcessName: name(conn.Pid),
		})
	}
	return out
}

func processName(pid int32) string {
	if pid <= 0 {
		return "unknown"
	}
	p, err := process.NewProcess(pid)
	if err != nil {
		return "unknown"
	}
	name, err := p.Name()
	if err != nil {
		return "unknown"
	}
	return name
}

// PIDs returns the distinct owner pids of the listeners bound to port, in
// scan order. Sockets with no visible owner are ignored.
func PIDs(listeners []Listener, port uint32) []int32 {
	var pids []int32
	for _, l := range listeners {
		if l.Port != port || l.Pid <= 0 || slices.Contains(pids, l.Pid) {
			continue
		}
		pids = append(pids, l.Pid)
	}
	return pids
}
