package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-yantra/internal/astro"
	"github.com/litescript/ls-yantra/internal/instrument"
	"github.com/litescript/ls-yantra/internal/state"
)

const (
	// Zoom animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	minZoom  = 0.5
	maxZoom  = 4.0
	zoomStep = 1.25

	// Mark glyphs
	glyphSun    = '☉'
	glyphStar   = '✶'
	glyphPole   = '✦'
	glyphShadow = '●'
	glyphLine   = '·'
	glyphBright = '•'
	glyphRing   = '∙'
	glyphCentre = '+'

	colorSun       = "229" // bright gold
	colorStar      = "255"
	colorPole      = "#d0c8ff"
	colorShadow    = "244"
	colorNorth     = "252"
	colorLine      = "60" // muted purple
	colorHighlight = "135"
	colorRing      = "238"
	colorLabel     = "#d0c8ff"
	colorCanvas    = "236"
)

// LabelMode controls which labels are drawn on the dial.
type LabelMode int

const (
	LabelNone  LabelMode = iota // No labels
	LabelMarks                  // Sun, stars and pole
	LabelAll                    // Marks and hour lines
)

// DialViewModel renders the face of the current instrument.
type DialViewModel struct {
	width  int
	height int

	dial    instrument.Dial
	hasDial bool

	labelMode LabelMode

	zoom        float64
	animating   bool
	animFrom    float64
	animTarget  float64
	animStarted time.Time
}

// NewDialViewModel creates a new dial view model.
func NewDialViewModel() DialViewModel {
	return DialViewModel{
		labelMode: LabelMarks,
		zoom:      1,
	}
}

// SetSize updates the viewport size.
func (m DialViewModel) SetSize(width, height int) DialViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData replaces the dial with the current readout's face.
func (m DialViewModel) UpdateData(snapshot state.Snapshot) DialViewModel {
	if snapshot.Readout == nil {
		m.hasDial = false
		return m
	}
	m.dial = snapshot.Readout.Dial()
	m.hasDial = true
	return m
}

// animTickMsg is sent during the zoom animation.
type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Init implements the Bubble Tea model interface.
func (m DialViewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DialViewModel) Update(msg tea.Msg) (DialViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "+", "=":
			return m.zoomTo(m.targetZoom() * zoomStep)
		case "-", "_":
			return m.zoomTo(m.targetZoom() / zoomStep)
		case "0":
			return m.zoomTo(1)
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}
	return m, nil
}

func (m DialViewModel) targetZoom() float64 {
	if m.animating {
		return m.animTarget
	}
	return m.zoom
}

func (m DialViewModel) zoomTo(z float64) (DialViewModel, tea.Cmd) {
	z = math.Max(minZoom, math.Min(maxZoom, z))
	if z == m.targetZoom() {
		return m, nil
	}
	m.animating = true
	m.animFrom = m.zoom
	m.animTarget = z
	m.animStarted = time.Now()
	return m, animTick()
}

func (m DialViewModel) updateAnimation() (DialViewModel, tea.Cmd) {
	t := float64(time.Since(m.animStarted)) / float64(animDuration)
	if t >= 1 {
		m.animating = false
		m.zoom = m.animTarget
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)
	m.zoom = lerp(m.animFrom, m.animTarget, t)
	return m, animTick()
}

// View renders the dial view.
func (m DialViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Dial view requires larger terminal"
	}
	if !m.hasDial {
		return "No readout yet"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas(m.width, m.height-4).String())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m DialViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))

	var labelStr string
	switch m.labelMode {
	case LabelNone:
		labelStr = dimStyle.Render("Labels: off")
	case LabelMarks:
		labelStr = accentStyle.Render("Labels: marks")
	case LabelAll:
		labelStr = accentStyle.Render("Labels: all")
	}

	return fmt.Sprintf("%s | %s | %s | %s",
		titleStyle.Render(m.dial.Title),
		dimStyle.Render(string(m.dial.Mode)),
		labelStr,
		dimStyle.Render(fmt.Sprintf("r %.2f m  x%.2f", m.dial.Radius, m.zoom)))
}

func (m DialViewModel) renderStatus() string {
	var names []string
	for _, mk := range m.dial.Marks {
		if mk.Kind == instrument.MarkSun || mk.Kind == instrument.MarkPole {
			names = append(names, fmt.Sprintf("%s r=%.2f m", mk.Label, mk.At.Radius()))
		}
	}
	stars := 0
	for _, mk := range m.dial.Marks {
		if mk.Kind == instrument.MarkStar {
			stars++
		}
	}
	line := fmt.Sprintf(">>> %d lines | %d stars", len(m.dial.Lines), stars)
	if len(names) > 0 {
		line += " | " + strings.Join(names, " | ")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colorSun)).Render(line)
}

// canvas is a grid of glyphs with a colour per cell.
type canvas struct {
	width, height int
	cells         [][]rune
	colors        [][]lipgloss.Color
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	c.cells = make([][]rune, height)
	c.colors = make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		c.cells[y] = make([]rune, width)
		c.colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			c.cells[y][x] = ' '
			c.colors[y][x] = colorCanvas
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, color lipgloss.Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = r
	c.colors[y][x] = color
}

func (c *canvas) at(x, y int) rune {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0
	}
	return c.cells[y][x]
}

// text writes s starting at (x, y), clipped to the canvas.
func (c *canvas) text(x, y int, s string, color lipgloss.Color) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, color)
	}
}

// String renders the canvas with colours.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			style := lipgloss.NewStyle().Foreground(c.colors[y][x])
			b.WriteString(style.Render(string(c.cells[y][x])))
		}
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// plain returns the glyphs without styling.
func (c *canvas) plain() string {
	lines := make([]string, c.height)
	for y := range c.cells {
		lines[y] = string(c.cells[y])
	}
	return strings.Join(lines, "\n")
}

// cellScale returns terminal columns per metre. Rows are taken as twice
// the height of columns.
func (m DialViewModel) cellScale(width, height int) float64 {
	radius := m.dial.Radius
	if radius <= 0 {
		radius = 1
	}
	fit := math.Min(float64(width-2)/2, float64(height-2))
	return fit / radius * m.zoom
}

// projectToCell maps a dial point to a canvas cell, centre in the middle
// and +y up.
func (m DialViewModel) projectToCell(p astro.Point, width, height int) (int, int) {
	k := m.cellScale(width, height)
	x := width/2 + int(math.Round(p.X*k))
	y := height/2 - int(math.Round(p.Y*k/2))
	return x, y
}

func (m DialViewModel) renderCanvas(width, height int) *canvas {
	c := newCanvas(width, height)

	for _, r := range m.dial.Rings {
		m.drawRing(c, r)
	}
	for _, l := range m.dial.Lines {
		glyph, color := glyphLine, lipgloss.Color(colorLine)
		if l.Highlight {
			glyph, color = glyphBright, colorHighlight
		}
		m.drawSegment(c, l.From, l.To, glyph, color)
	}

	cx, cy := m.projectToCell(astro.Point{}, width, height)
	c.set(cx, cy, glyphCentre, colorRing)

	if m.labelMode == LabelAll {
		for _, l := range m.dial.Lines {
			if l.Label == "" {
				continue
			}
			x, y := m.projectToCell(l.To, width, height)
			c.text(x+1, y, l.Label, colorLine)
		}
	}

	// Sun and pole marks go last so they stay on top.
	for _, pass := range [][]instrument.MarkKind{
		{instrument.MarkShadow, instrument.MarkStar, instrument.MarkNorth},
		{instrument.MarkPole, instrument.MarkSun},
	} {
		for _, mk := range m.dial.Marks {
			if !hasKind(pass, mk.Kind) {
				continue
			}
			m.drawMark(c, mk)
		}
	}
	return c
}

func hasKind(kinds []instrument.MarkKind, k instrument.MarkKind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

func (m DialViewModel) drawMark(c *canvas, mk instrument.DialMark) {
	x, y := m.projectToCell(mk.At, c.width, c.height)
	glyph, color := markGlyph(mk.Kind)
	if mk.Kind == instrument.MarkNorth {
		c.set(x, y, 'N', color)
		return
	}
	c.set(x, y, glyph, color)

	if m.labelMode == LabelNone || mk.Label == "" || mk.Kind == instrument.MarkShadow {
		return
	}
	// Label to the right with a one cell gap, skipped when it would hide
	// another mark.
	start := x + 2
	for i := range []rune(mk.Label) {
		if isMarkGlyph(c.at(start+i, y)) {
			return
		}
	}
	c.text(start, y, mk.Label, lipgloss.Color(colorLabel))
}

func markGlyph(k instrument.MarkKind) (rune, lipgloss.Color) {
	switch k {
	case instrument.MarkSun:
		return glyphSun, colorSun
	case instrument.MarkStar:
		return glyphStar, colorStar
	case instrument.MarkPole:
		return glyphPole, colorPole
	case instrument.MarkShadow:
		return glyphShadow, colorShadow
	default:
		return 'N', colorNorth
	}
}

func isMarkGlyph(r rune) bool {
	switch r {
	case glyphSun, glyphStar, glyphPole, glyphShadow:
		return true
	}
	return false
}

// drawSegment plots the cells along a dial segment.
func (m DialViewModel) drawSegment(c *canvas, from, to astro.Point, glyph rune, color lipgloss.Color) {
	x0, y0 := m.projectToCell(from, c.width, c.height)
	x1, y1 := m.projectToCell(to, c.width, c.height)
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		c.set(x0, y0, glyph, color)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(lerp(float64(x0), float64(x1), t)))
		y := int(math.Round(lerp(float64(y0), float64(y1), t)))
		c.set(x, y, glyph, color)
	}
}

// drawRing plots a circle of radius r metres about the centre.
func (m DialViewModel) drawRing(c *canvas, r float64) {
	k := m.cellScale(c.width, c.height)
	n := int(2*math.Pi*r*k) + 8
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		p := astro.Point{X: r * math.Sin(theta), Y: r * math.Cos(theta)}
		x, y := m.projectToCell(p, c.width, c.height)
		c.set(x, y, glyphRing, colorRing)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// lerp linear interpolation
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
