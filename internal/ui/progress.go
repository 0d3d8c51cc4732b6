package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"jsreport/internal/driver"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	labelStyles = map[string]lipgloss.Style{
		"done":      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"error":     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"reading":   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"linting":   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		"reporting": lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
	queuedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))

	stageWords = map[driver.Stage]string{
		driver.StageRead:   "reading",
		driver.StageLint:   "linting",
		driver.StageReport: "reporting",
	}
	// share of a file's work considered finished once a stage has started
	stageShare = map[driver.Stage]float64{
		driver.StageRead:   0.1,
		driver.StageLint:   0.5,
		driver.StageReport: 0.9,
	}
)

const labelWidth = 10

// fileRow is the last known state of one file.
type fileRow struct {
	path   string
	stage  driver.Stage
	status driver.Status
	err    error
}

func (r fileRow) failed() bool { return r.status == driver.StatusError }

// settled reports whether the file reached report:done or failed.
func (r fileRow) settled() bool {
	return r.failed() || (r.stage == driver.StageReport && r.status == driver.StatusDone)
}

func (r fileRow) label() string {
	switch {
	case r.failed():
		return "error"
	case r.settled():
		return "done"
	case r.stage == "" || r.status == driver.StatusQueued:
		return "queued"
	}
	return stageWords[r.stage]
}

func (r fileRow) fraction() float64 {
	if r.settled() {
		return 1
	}
	return stageShare[r.stage]
}

type eventMsg driver.Event
type doneMsg struct{}

type progressModel struct {
	title  string
	events <-chan driver.Event

	spin spinner.Model
	bar  progress.Model

	rows   []fileRow
	byPath map[string]int
	failed int
	width  int
	closed bool
}

// NewProgressModel renders per-file lint progress until events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:  title,
		events: events,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("6")))),
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		byPath: make(map[string]int, len(files)),
		width:  80,
	}
	for _, f := range files {
		m.byPath[f] = len(m.rows)
		m.rows = append(m.rows, fileRow{path: f})
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.listenForEvent())
	case doneMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		next, cmd := m.bar.Update(msg)
		m.bar = next.(progress.Model)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	}
	return m, nil
}

func (m *progressModel) header() string {
	h := fmt.Sprintf("%s (%d/%d)", m.title, m.finished(), len(m.rows))
	if m.failed > 0 {
		h += fmt.Sprintf(", %d failed", m.failed)
	}
	if m.closed {
		return "done: " + h
	}
	return m.spin.View() + " " + h
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	nameWidth := max(m.width-labelWidth-4, 20)
	lines := []string{headerStyle.Render(m.header()), ""}
	for _, r := range m.rows {
		label := r.label()
		style, ok := labelStyles[label]
		if !ok {
			style = queuedStyle
		}
		line := "  " + style.Render(fmt.Sprintf("%*s", labelWidth, label)) + " " + truncate(r.path, nameWidth)
		if r.err != nil {
			line += "  " + labelStyles["error"].Render(truncate(r.err.Error(), nameWidth))
		}
		lines = append(lines, line)
	}
	bar := m.bar.View()
	if m.closed {
		bar = m.bar.ViewAs(1)
	}
	lines = append(lines, "", bar)
	return strings.Join(lines, "\n") + "\n"
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

// applyEvent updates the row of ev.File. Events for unknown files and
// events after a failure are ignored.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok || m.rows[i].failed() {
		return nil
	}
	r := &m.rows[i]
	r.stage, r.status = ev.Stage, ev.Status
	if r.failed() {
		r.err = ev.Err
		m.failed++
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) finished() int {
	n := 0
	for _, r := range m.rows {
		if r.settled() {
			n++
		}
	}
	return n
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.fraction()
	}
	return sum / float64(len(m.rows))
}

// truncate cuts value to width display cells, marking the cut with "...".
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
