package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Absolute-Control/Absolute-Control/pkg/process"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type appState int

const (
	stateList appState = iota
	stateSearch
	stateConfirm
	stateResult
)

var (
	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleOverlay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3).
			MarginLeft(2)

	styleOverlayTitle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("214"))

	styleKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Padding(0, 1)

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
)

type tickMsg time.Time

type topModel struct {
	table    table.Model
	search   textinput.Model
	mgr      *process.Manager
	procs    []process.Model
	sortKey  string
	interval time.Duration
	state    appState
	loadErr  error

	resultMsg string
	resultErr error
}

func newTopModel(mgr *process.Manager, sortKey string, interval time.Duration) topModel {
	columns := []table.Column{
		{Title: "PID", Width: 8},
		{Title: "NAME", Width: 22},
		{Title: "STATUS", Width: 9},
		{Title: "USER", Width: 12},
		{Title: "CPU%", Width: 6},
		{Title: "MEM%", Width: 6},
		{Title: "COMMAND", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	in := textinput.New()
	in.Prompt = "/ "
	in.Placeholder = "name, user, command or pid"
	in.CharLimit = 64

	m := topModel{
		table:    t,
		search:   in,
		mgr:      mgr,
		sortKey:  sortKey,
		interval: interval,
		state:    stateList,
	}
	m.refresh()
	return m
}

// refresh re-reads the process table and reapplies the search and sort.
func (m *topModel) refresh() {
	procs, err := m.mgr.List()
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	procs = process.Filter(procs, m.search.Value())
	process.Sort(procs, m.sortKey, m.sortKey == "cpu" || m.sortKey == "memory")
	m.procs = procs
	m.table.SetRows(toRows(procs))
	if c := m.table.Cursor(); c >= len(procs) && len(procs) > 0 {
		m.table.SetCursor(len(procs) - 1)
	}
}

func toRows(procs []process.Model) []table.Row {
	rows := make([]table.Row, len(procs))
	for i, p := range procs {
		rows[i] = table.Row(modelRow(p, true))
	}
	return rows
}

func (m topModel) selected() (process.Model, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.procs) {
		return process.Model{}, false
	}
	return m.procs[idx], true
}

func (m topModel) tick() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m topModel) Init() tea.Cmd {
	return m.tick()
}

func (m topModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tickMsg); ok {
		// Do not move rows under the user while a dialog is open.
		if m.state == stateList {
			m.refresh()
		}
		return m, m.tick()
	}
	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateSearch:
		return m.updateSearch(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case stateResult:
		return m.updateResult(msg)
	}
	return m, nil
}

func (m topModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "ctrl+k":
			if len(m.procs) > 0 {
				m.state = stateConfirm
			}
			return m, nil
		case "r":
			m.refresh()
			return m, nil
		case "s":
			m.sortKey = nextSortKey(m.sortKey)
			m.refresh()
			return m, nil
		case "/":
			m.state = stateSearch
			m.table.Blur()
			return m, m.search.Focus()
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m topModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			m.state = stateList
			m.search.Blur()
			m.table.Focus()
			m.refresh()
			return m, nil
		case "esc", "ctrl+c":
			m.state = stateList
			m.search.SetValue("")
			m.search.Blur()
			m.table.Focus()
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m topModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch strings.ToLower(msg.String()) {
		case "y":
			if p, ok := m.selected(); ok {
				err := m.mgr.KillByID(p.Pid)
				m.resultErr = err
				if err == nil {
					m.resultMsg = fmt.Sprintf("Sent kill to %s (PID %d).", p.Name, p.Pid)
				} else {
					m.resultMsg = fmt.Sprintf("Kill PID %d failed: %v", p.Pid, err)
				}
			}
			m.state = stateResult
			return m, nil
		case "n", "esc", "q":
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m topModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "enter", "r":
			m.refresh()
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m topModel) View() string {
	title := styleTitle.Render(fmt.Sprintf("%s  [%d processes, sort: %s]", strings.ToUpper(appName), len(m.procs), m.sortKey))
	tableView := styleBase.Render(m.table.View())

	switch m.state {
	case stateSearch:
		return title + "\n" + tableView + "\n" + m.search.View() + "\n" +
			styleHelp.Render("Enter  apply    Esc  clear")

	case stateConfirm:
		var target string
		if p, ok := m.selected(); ok {
			target = fmt.Sprintf("%s  (PID %d)", p.Name, p.Pid)
		}
		overlay := styleOverlay.Render(
			styleOverlayTitle.Render("Kill "+target+" ?") + "\n\n" +
				styleKey.Render("y") + " confirm    " +
				styleKey.Render("n") + " cancel",
		)
		return title + "\n" + tableView + "\n" + overlay

	case stateResult:
		var msg string
		if m.resultErr != nil {
			msg = styleErr.Render(m.resultMsg)
		} else {
			msg = styleOK.Render(m.resultMsg)
		}
		help := styleHelp.Render("Enter / r  continue    q  quit")
		return title + "\n" + tableView + "\n" + msg + "\n" + help

	default:
		var status string
		if m.loadErr != nil {
			status = styleErr.Render("refresh failed: "+m.loadErr.Error()) + "\n"
		}
		if q := m.search.Value(); q != "" {
			status += styleHelp.Render("filter: "+q) + "\n"
		}
		var help string
		if len(m.procs) == 0 {
			help = styleHelp.Render("No processes.  /  search    r  refresh    q  quit")
		} else {
			help = styleHelp.Render("↑/↓  navigate    ctrl+k  kill    /  search    s  sort    r  refresh    q  quit")
		}
		return title + "\n" + tableView + "\n" + status + help
	}
}

func nextSortKey(current string) string {
	i := slices.Index(process.SortKeys, current)
	return process.SortKeys[(i+1)%len(process.SortKeys)]
}
