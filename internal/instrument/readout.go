package instrument

import (
	"github.com/litescript/ls-yantra/internal/astro"
)

// Readout is the computed state of one instrument.
type Readout interface {
	Kind() Kind
	Meta() Header
	// Dial returns the instrument face as projected geometry.
	Dial() Dial
}

// Header carries the request echo shared by every readout.
type Header struct {
	kind       Kind
	YantraType string  `json:"yantra_type"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	ScaleM     float64 `json:"scale_m"`
	Date       string  `json:"date"`
	Time       string  `json:"time,omitempty"`
}

func newHeader(kind Kind, obs astro.Observer, inst astro.Instant, scale float64) Header {
	return Header{
		kind:       kind,
		YantraType: kind.YantraType(),
		Latitude:   obs.LatDeg,
		Longitude:  obs.LonDeg,
		ScaleM:     scale,
		Date:       inst.DateString(),
		Time:       inst.ClockString(),
	}
}

// Kind returns the instrument that produced the readout.
func (h Header) Kind() Kind { return h.kind }

// Meta returns the header itself.
func (h Header) Meta() Header { return h }

// Radius is a component described only by its radius.
type Radius struct {
	RadiusM float64 `json:"radius_m"`
}

// Gnomon is the shadow-casting element of a dial.
type Gnomon struct {
	HeightM float64 `json:"height_m"`
	TiltDeg float64 `json:"tilt_deg"`
	TopYM   float64 `json:"top_y_m,omitempty"`
}

// HourLine is a labelled line from the dial centre.
type HourLine struct {
	Time     string      `json:"time"`
	T        float64     `json:"t"`
	AngleDeg float64     `json:"angle_deg"`
	Start    astro.Point `json:"start"`
	End      astro.Point `json:"end"`
}

// MarkKind classifies a point drawn on a dial.
type MarkKind int

const (
	MarkSun MarkKind = iota
	MarkStar
	MarkPole
	MarkShadow
	MarkNorth
)

// DialLine is a segment on the dial face.
type DialLine struct {
	Label     string
	From, To  astro.Point
	Highlight bool
}

// DialMark is a labelled point on the dial face.
type DialMark struct {
	Label string
	At    astro.Point
	Kind  MarkKind
}

// Dial is the drawable geometry of a readout, in metres about the dial
// centre with +y towards the top of the face.
type Dial struct {
	Title  string
	Radius float64
	Mode   astro.ProjectionMode
	Rings  []float64
	Lines  []DialLine
	Marks  []DialMark
}
