// Package ui renders batch progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cutesy/internal/driver"
)

const (
	maxRows     = 12
	statusWidth = 12
)

// stages maps a driver stage to its row label and to the share of a file's
// work done once the stage starts.
var stages = map[driver.Stage]struct {
	label string
	share float64
}{
	driver.StageRead:  {"reading", 0.1},
	driver.StageLint:  {"linting", 0.4},
	driver.StageWrite: {"writing", 0.9},
}

var statusColors = map[driver.Status]lipgloss.Color{
	driver.StatusWorking: "6",
	driver.StatusDone:    "2",
	driver.StatusSkipped: "3",
	driver.StatusError:   "1",
}

type fileItem struct {
	path   string
	stage  driver.Stage
	status driver.Status
}

func (it fileItem) label() string {
	if it.status == driver.StatusWorking {
		return stages[it.stage].label
	}
	return string(it.status)
}

func (it fileItem) share() float64 {
	switch {
	case it.status.Final():
		return 1
	case it.status == driver.StatusWorking:
		return stages[it.stage].share
	}
	return 0
}

func (it fileItem) render(nameWidth int) string {
	color, ok := statusColors[it.status]
	if !ok {
		color = "7"
	}
	status := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("%*s", statusWidth, it.label()))
	return fmt.Sprintf("  %s %s", status, truncate(it.path, nameWidth))
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	items   []fileItem
	index   map[string]int
	order   []int // finished items by completion
	width   int
	done    bool
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that shows which files are
// being read, linted or written. The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(statusColors[driver.StatusWorking])

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		items:   make([]fileItem, len(files)),
		index:   make(map[string]int, len(files)),
		width:   80,
	}
	for i, file := range files {
		m.items[i] = fileItem{path: file, status: driver.StatusQueued}
		m.index[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	var b strings.Builder
	header := fmt.Sprintf("%s %s", m.spinner.View(), m.title)
	if m.done {
		header = "done: " + m.title
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	fmt.Fprintf(&b, " %d/%d\n\n", len(m.order), len(m.items))

	nameWidth := max(m.width-statusWidth-4, 20)
	shown, hidden := m.visible()
	for _, item := range shown {
		b.WriteString(item.render(nameWidth))
		b.WriteString("\n")
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "  %*s %d more\n", statusWidth, "", hidden)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// visible picks the rows to draw: all of them for small batches, otherwise
// files in progress first, then the most recently finished.
func (m *progressModel) visible() ([]fileItem, int) {
	if len(m.items) <= maxRows {
		return m.items, 0
	}
	rows := make([]fileItem, 0, maxRows)
	for _, item := range m.items {
		if len(rows) == maxRows {
			break
		}
		if item.status == driver.StatusWorking {
			rows = append(rows, item)
		}
	}
	for i := len(m.order) - 1; i >= 0 && len(rows) < maxRows; i-- {
		rows = append(rows, m.items[m.order[i]])
	}
	return rows, len(m.items) - len(rows)
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// apply records ev on its file and moves the bar.
func (m *progressModel) apply(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if ev.Status.Final() && !item.status.Final() {
		m.order = append(m.order, idx)
	}
	item.stage, item.status = ev.Stage, ev.Status
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		total += item.share()
	}
	return total / float64(len(m.items))
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
