package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-yantra/internal/instrument"
	"github.com/litescript/ls-yantra/internal/state"
)

// Styles for the readout panel
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("60"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Event colors
var eventColors = map[state.EventType]lipgloss.Color{
	state.EventInstrument: "39",
	state.EventSunrise:    "229",
	state.EventSunset:     "208",
	state.EventSignChange: "135",
	state.EventStarRise:   "255",
	state.EventStarSet:    "244",
}

const maxPanelEvents = 8

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// ReadoutModel shows the current readout as text with its history and
// recent events.
type ReadoutModel struct {
	width    int
	height   int
	offset   int
	snapshot state.Snapshot
}

// NewReadoutModel creates a new readout panel.
func NewReadoutModel() ReadoutModel {
	return ReadoutModel{}
}

// Init implements the Bubble Tea model interface.
func (m ReadoutModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m ReadoutModel) SetSize(width, height int) ReadoutModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m ReadoutModel) UpdateData(snapshot state.Snapshot) ReadoutModel {
	if snapshot.Kind != m.snapshot.Kind {
		m.offset = 0
	}
	m.snapshot = snapshot
	return m
}

// Update handles messages.
func (m ReadoutModel) Update(msg tea.Msg) (ReadoutModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		lines := len(m.textLines())
		switch msg.String() {
		case "up", "k":
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.offset < lines-1 {
				m.offset++
			}
		case "home":
			m.offset = 0
		}
	}
	return m, nil
}

func (m ReadoutModel) textLines() []string {
	if m.snapshot.Readout == nil {
		return nil
	}
	var b strings.Builder
	if err := instrument.WriteText(&b, m.snapshot.Readout); err != nil {
		return []string{err.Error()}
	}
	return strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
}

// View renders the panel.
func (m ReadoutModel) View() string {
	var b strings.Builder

	if m.snapshot.LastError != nil {
		b.WriteString(errorStyle.Render("Error: " + m.snapshot.LastError.Error()))
		b.WriteString("\n\n")
	}
	if m.snapshot.Readout == nil {
		if m.snapshot.LastError == nil {
			b.WriteString("Waiting for readout...\n")
		}
		return b.String()
	}

	b.WriteString(m.renderText())
	b.WriteString("\n")
	b.WriteString(m.renderHistory())
	b.WriteString("\n")
	b.WriteString(m.renderEvents())
	return b.String()
}

func (m ReadoutModel) renderText() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Readout"))
	b.WriteString("\n")

	lines := m.textLines()
	maxRows := m.height - 14 // history and events below
	if maxRows < 5 {
		maxRows = 5
	}
	start := m.offset
	if start >= len(lines) {
		start = 0
	}
	end := start + maxRows
	if end > len(lines) {
		end = len(lines)
	}
	for _, l := range lines[start:end] {
		b.WriteString(rowStyle.Render("  " + l))
		b.WriteString("\n")
	}
	if len(lines) > maxRows {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  Showing %d-%d of %d lines", start+1, end, len(lines))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ReadoutModel) renderHistory() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("History: " + state.SeriesLabel(m.snapshot.Kind)))
	b.WriteString("\n")

	values := make([]float64, len(m.snapshot.History))
	for i, p := range m.snapshot.History {
		values[i] = p.Value
	}
	if len(values) == 0 {
		b.WriteString(dimStyle.Render("  No samples"))
		b.WriteString("\n")
		return b.String()
	}

	width := m.width - 30
	if width < 10 {
		width = 10
	}
	lo, hi := bounds(values)
	last := m.snapshot.History[len(m.snapshot.History)-1]
	fmt.Fprintf(&b, "  %s  %s\n",
		lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Render(sparkline(values, width)),
		dimStyle.Render(fmt.Sprintf("%.3f..%.3f", lo, hi)))
	b.WriteString(rowStyle.Render(fmt.Sprintf("  latest %.4f @ %s", last.Value, last.At)))
	b.WriteString("\n")
	return b.String()
}

func (m ReadoutModel) renderEvents() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString(dimStyle.Render("  No events"))
		b.WriteString("\n")
		return b.String()
	}
	if len(events) > maxPanelEvents {
		events = events[len(events)-maxPanelEvents:]
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		style := lipgloss.NewStyle().Foreground(eventColors[e.Type])
		line := fmt.Sprintf("  %s  %-11s %-12s %s",
			e.Timestamp.Format("15:04:05"), e.Type, truncate(e.Subject, 12), e.Detail)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// sparkline renders the last width values as block characters scaled
// between their minimum and maximum.
func sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := bounds(values)
	out := make([]rune, len(values))
	for i, v := range values {
		idx := len(sparkChars) / 2
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		}
		out[i] = sparkChars[idx]
	}
	return string(out)
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
