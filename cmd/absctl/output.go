package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Absolute-Control/Absolute-Control/pkg/ports"
	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleCell = lipgloss.NewStyle().Padding(0, 1)

	styleBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	styleLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
)

func renderModels(w io.Writer, format string, models []process.Model) error {
	if models == nil {
		// [] rather than null in JSON.
		models = []process.Model{}
	}
	switch format {
	case "json":
		return writeJSON(w, models)
	case "yaml":
		return writeYAML(w, models)
	}
	if len(models) == 0 {
		_, err := fmt.Fprintln(w, "no processes found")
		return err
	}
	wide := format == "wide"
	rows := make([][]string, len(models))
	for i, m := range models {
		rows[i] = modelRow(m, wide)
	}
	return writeTable(w, modelHeaders(wide), rows)
}

func renderModel(w io.Writer, format string, m process.Model) error {
	switch format {
	case "json":
		return writeJSON(w, m)
	case "yaml":
		return writeYAML(w, m)
	}
	_, err := fmt.Fprintln(w, describeModel(m))
	return err
}

func renderListeners(w io.Writer, format string, listeners []ports.Listener) error {
	if listeners == nil {
		listeners = []ports.Listener{}
	}
	switch format {
	case "json":
		return writeJSON(w, listeners)
	case "yaml":
		return writeYAML(w, listeners)
	}
	if len(listeners) == 0 {
		_, err := fmt.Fprintln(w, "no listening ports")
		return err
	}
	rows := make([][]string, len(listeners))
	for i, l := range listeners {
		rows[i] = []string{l.Proto, l.LocalAddr, strconv.Itoa(int(l.Pid)), l.ProcessName}
	}
	return writeTable(w, []string{"PROTO", "ADDRESS", "PID", "PROCESS"}, rows)
}

func modelHeaders(wide bool) []string {
	h := []string{"PID", "NAME", "STATUS", "USER", "CPU%", "MEM%"}
	if wide {
		h = append(h, "COMMAND")
	}
	return h
}

func modelRow(m process.Model, wide bool) []string {
	row := []string{
		strconv.Itoa(int(m.Pid)),
		m.Name,
		m.Status,
		m.Username,
		fmt.Sprintf("%.1f", m.CPUPercent),
		fmt.Sprintf("%.1f", m.MemoryPercent),
	}
	if wide {
		row = append(row, m.Command())
	}
	return row
}

// describeModel renders one snapshot as aligned "label: value" lines.
func describeModel(m process.Model) string {
	fields := [][2]string{
		{"PID", strconv.Itoa(int(m.Pid))},
		{"Name", m.Name},
		{"Status", m.Status},
		{"User", m.Username},
		{"CPU", fmt.Sprintf("%.1f%%", m.CPUPercent)},
		{"Memory", fmt.Sprintf("%.1f%%", m.MemoryPercent)},
		{"Command", m.Command()},
	}
	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = styleLabel.Render(fmt.Sprintf("%-8s", f[0]+":")) + " " + f[1]
	}
	return strings.Join(lines, "\n")
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
