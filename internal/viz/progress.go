package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/covkin/internal/sweep"
)

// EventMsg carries a sweep event into the program, typically via
// (*tea.Program).Send from the runner's observer.
type EventMsg sweep.Event

// FinishedMsg ends the program once the runner returns.
type FinishedMsg struct{}

type TickMsg time.Time

type caseRow struct {
	label   string
	status  sweep.Status
	started bool
	err     error
	elapsed time.Duration
}

// Progress is a Bubble Tea model listing every sweep case with its state.
type Progress struct {
	title    string
	rows     []caseRow
	finished int
	frame    int
	width    int
	done     bool
	canceled bool
}

func NewProgress(title string, labels []string) Progress {
	rows := make([]caseRow, len(labels))
	for i, l := range labels {
		rows[i] = caseRow{label: l}
	}
	return Progress{title: title, rows: rows, width: 40}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/10, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Progress) Init() tea.Cmd { return tick() }

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = min(max(msg.Width-30, 10), 60)
	case EventMsg:
		m = m.apply(sweep.Event(msg))
	case FinishedMsg:
		m.done = true
		return m, tea.Quit
	case TickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	}
	return m, nil
}

func (m Progress) apply(ev sweep.Event) Progress {
	if ev.Index < 0 || ev.Index >= len(m.rows) {
		return m
	}
	rows := make([]caseRow, len(m.rows))
	copy(rows, m.rows)

	r := &rows[ev.Index]
	r.status, r.err, r.elapsed = ev.Status, ev.Err, ev.Elapsed
	switch ev.Status {
	case sweep.StatusStarted:
		r.started = true
	case sweep.StatusDone, sweep.StatusFailed:
		m.finished++
	}
	m.rows = rows
	return m
}

// Finished counts cases that completed or failed.
func (m Progress) Finished() int { return m.finished }

// Canceled reports whether the user quit before the sweep finished.
func (m Progress) Canceled() bool { return m.canceled && !m.done }

func (m Progress) View() string {
	var b strings.Builder
	b.WriteString(Title.Render(m.title))
	b.WriteString("\n\n")

	frac := 0.0
	if len(m.rows) > 0 {
		frac = float64(m.finished) / float64(len(m.rows))
	}
	fmt.Fprintf(&b, "%s %d/%d\n\n", ProgressBar(frac, m.width), m.finished, len(m.rows))

	for _, r := range m.rows {
		var mark string
		switch {
		case !r.started:
			mark = Subtle.Render("·")
		case r.status == sweep.StatusStarted:
			mark = StatusRunning.Render(Spinner(m.frame))
		case r.status == sweep.StatusDone:
			mark = StatusDone.Render("✓")
		default:
			mark = StatusFailed.Render("✗")
		}
		line := fmt.Sprintf("%s %-22s", mark, r.label)
		if r.status != sweep.StatusStarted {
			line += Subtle.Render(r.elapsed.Round(time.Millisecond).String())
		}
		if r.err != nil {
			line += " " + StatusFailed.Render(r.err.Error())
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if !m.done {
		b.WriteString("\n")
		b.WriteString(KeyHint.Render("q to cancel"))
		b.WriteString("\n")
	}
	return b.String()
}
