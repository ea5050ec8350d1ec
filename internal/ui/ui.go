// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-yantra/internal/astro"
	"github.com/litescript/ls-yantra/internal/instrument"
	"github.com/litescript/ls-yantra/internal/state"
	"github.com/litescript/ls-yantra/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewDial ViewMode = iota
	ViewReadout
)

const computeTimeout = 5 * time.Second

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// ReadoutMsg carries the result of one computation.
	ReadoutMsg struct {
		Readout  instrument.Readout
		Duration time.Duration
		Err      error
	}
)

// Observer is the site and instrument size the UI evaluates.
type Observer struct {
	Latitude  float64
	Longitude float64
	ScaleM    float64
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state    *state.Manager
	computer *instrument.Computer
	observer Observer

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	// Evaluated time. When live it follows the zone clock, otherwise it
	// is the zone wall time in at.
	live      bool
	at        time.Time
	computing bool
	now       func() time.Time

	// Sub-models
	dialView DialViewModel
	panel    ReadoutModel

	// Data snapshot (updated on ReadoutMsg)
	snapshot state.Snapshot
}

// New creates a new root UI model. A zero start follows the zone clock;
// otherwise the view is fixed at start, read as zone wall time.
func New(stateMgr *state.Manager, computer *instrument.Computer, obs Observer, kind instrument.Kind, start time.Time) Model {
	m := Model{
		state:    stateMgr,
		computer: computer,
		observer: obs,
		viewMode: ViewDial,
		live:     start.IsZero(),
		at:       start,
		now:      time.Now,
		dialView: NewDialViewModel(),
		panel:    NewReadoutModel(),
	}
	stateMgr.Select(kind, m.request())
	m.snapshot = stateMgr.Snapshot()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
		m.dialView.Init(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "2", "3", "4", "5":
			kind := instrument.Kinds()[key[0]-'1']
			cmds = append(cmds, m.selectKind(kind))

		case "tab":
			m.viewMode = (m.viewMode + 1) % 2
		case "d":
			m.viewMode = ViewDial
		case "r":
			m.viewMode = ViewReadout

		case "[", "]", "{", "}", ",", ".":
			cmds = append(cmds, m.step(timeSteps[key]))
		case "n":
			m.live = true
			m.statusMsg = ""
			cmds = append(cmds, m.refresh())

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Header takes ~6 lines, footer ~2 lines
		contentHeight := msg.Height - 8
		m.dialView = m.dialView.SetSize(msg.Width, contentHeight)
		m.panel = m.panel.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		if m.due(time.Time(msg)) {
			cmds = append(cmds, m.refresh())
		}

	case AnimTickMsg:
		m.animTick++
		cmds = append(cmds, animTickCmd())

	case ReadoutMsg:
		// A result for a previous instrument is superseded by the
		// computation started on switching.
		if kind, _ := m.state.Selection(); msg.Readout != nil && msg.Readout.Kind() != kind {
			break
		}
		m.computing = false
		m.state.Update(msg.Readout, msg.Duration, msg.Err)
		m.snapshot = m.state.Snapshot()
		m.dialView = m.dialView.UpdateData(m.snapshot)
		m.panel = m.panel.UpdateData(m.snapshot)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewDial:
		m.dialView, cmd = m.dialView.Update(msg)
	case ViewReadout:
		m.panel, cmd = m.panel.Update(msg)
	}
	return cmd
}

var timeSteps = map[string]time.Duration{
	"[": -time.Hour,
	"]": time.Hour,
	"{": -24 * time.Hour,
	"}": 24 * time.Hour,
	",": -10 * time.Minute,
	".": 10 * time.Minute,
}

// step leaves live mode and moves the evaluated time by d.
func (m *Model) step(d time.Duration) tea.Cmd {
	m.at = m.clock().Add(d)
	m.live = false
	m.statusMsg = "clock paused, press n to follow it again"
	return m.refresh()
}

func (m *Model) selectKind(kind instrument.Kind) tea.Cmd {
	m.state.Select(kind, m.request())
	m.snapshot = m.state.Snapshot()
	m.dialView = m.dialView.UpdateData(m.snapshot)
	m.panel = m.panel.UpdateData(m.snapshot)
	return m.refresh()
}

// clock returns the zone wall time being evaluated.
func (m Model) clock() time.Time {
	if m.live {
		return instrument.ZoneTime(m.now(), m.computer.Meridian())
	}
	return m.at
}

func (m Model) request() instrument.Request {
	t := m.clock()
	return instrument.NewRequest(m.observer.Latitude, m.observer.Longitude, m.observer.ScaleM,
		t.Format(astro.DateLayout), t.Format(astro.ClockLayout))
}

// due reports whether a live view should be recomputed at now.
func (m Model) due(now time.Time) bool {
	if m.computing {
		return false
	}
	if m.snapshot.LastCompute.IsZero() {
		return true
	}
	return m.live && now.Sub(m.snapshot.LastCompute) >= m.state.RefreshInterval()
}

// refresh starts a computation for the current selection.
func (m *Model) refresh() tea.Cmd {
	kind, _ := m.state.Selection()
	req := m.request()
	m.state.Select(kind, req)
	m.computing = true
	return computeCmd(m.computer, kind, req)
}

func computeCmd(c *instrument.Computer, kind instrument.Kind, req instrument.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), computeTimeout)
		defer cancel()
		start := time.Now()
		r, err := c.Compute(ctx, kind, req)
		return ReadoutMsg{Readout: r, Duration: time.Since(start), Err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewDial:
		content = m.dialView.View()
	case ViewReadout:
		content = m.panel.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	word := "  ls-yantra"
	runes := []rune(word)

	var b strings.Builder
	b.WriteString("\n")
	for col, r := range runes {
		color := gradientColor(col, 0, len(runes), 1)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
		b.WriteString(style.Render(string(r)))
	}
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  ·  Jantar Mantar instruments"))
	b.WriteString("\n")
	b.WriteString(muted.Render(fmt.Sprintf("  (c) 2025 litescript.net | v%s | %.4f, %.4f | scale %.2f m",
		version.Version, m.observer.Latitude, m.observer.Longitude, m.observer.ScaleM)))
	b.WriteString("\n\n")
	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient.
// Creates a vibrant nebula effect: blue -> purple -> magenta -> pink
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	if xRatio < 0.33 {
		// Blue to Purple
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		// Purple to Magenta
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		// Magenta to Pink
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	// Vertical fade: brighter at top, darker toward bottom
	f := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*f), clampByte(g*f), clampByte(b*f))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return int(v)
}

func (m Model) renderTabs() string {
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, name := range []string{"Dial", "Readout"} {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+name))
		} else {
			parts = append(parts, dimStyle.Render("  "+name))
		}
	}

	kind := m.snapshot.Kind
	var kinds []string
	for i, k := range instrument.Kinds() {
		label := fmt.Sprintf("[%d] %s", i+1, strings.TrimSuffix(k.Info().Name, " Yantra"))
		if k == kind {
			kinds = append(kinds, activeStyle.Render(label))
		} else {
			kinds = append(kinds, dimStyle.Render(label))
		}
	}
	return "  " + strings.Join(parts, "  ") + "   " + strings.Join(kinds, " ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	clock := m.clock().Format("2006-01-02 15:04")
	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case m.computing && !m.state.HasData():
		status = accentStyle.Render(spinner) + dimStyle.Render(" computing "+clock)
	case m.live:
		countdown := (m.state.RefreshInterval() - m.now().Sub(m.snapshot.LastCompute)).Round(time.Second)
		if countdown < 0 {
			countdown = 0
		}
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" live %s | refresh in %ds", clock, int(countdown.Seconds())))
	default:
		status = accentStyle.Render("⏸") + dimStyle.Render(" fixed at "+clock)
	}
	if m.snapshot.ComputeDuration > 0 {
		status += dimStyle.Render(" (" + m.snapshot.ComputeDuration.Round(time.Microsecond).String() + ")")
	}

	var help string
	switch m.viewMode {
	case ViewReadout:
		help = dimStyle.Render("1-5: instrument | [/]: hour | {/}: day | ,/.: 10 min | n: now | ↑↓: scroll")
	default:
		help = dimStyle.Render("1-5: instrument | [/]: hour | {/}: day | ,/.: 10 min | n: now | +/-: zoom | l: labels")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
