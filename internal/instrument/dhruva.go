package instrument

import (
	"fmt"
	"math"

	"github.com/litescript/ls-yantra/internal/astro"
)

// siderealDayHours is the length of a sidereal day in solar hours.
const siderealDayHours = 23.93447

var declinationCircles = []float64{30, 45, 60, 75, 85}

// DhruvaReadout is the pole-star tracker for one instant.
type DhruvaReadout struct {
	Header
	LSTHours     float64          `json:"local_sidereal_time_hours"`
	Polaris      PolarisData      `json:"polaris_data"`
	Components   DhruvaComponents `json:"components"`
	VisibleStars []StarMarker     `json:"visible_stars"`
	Astronomical DhruvaAstronomy  `json:"astronomical_data"`
	LSTIndicator LSTIndicator     `json:"lst_indicator"`
}

// PolarisData is the pole star's place in the sky and on the dial.
type PolarisData struct {
	RAHours        float64     `json:"right_ascension_hours"`
	DecDeg         float64     `json:"declination_deg"`
	AltDeg         float64     `json:"altitude_deg"`
	AzDeg          float64     `json:"azimuth_deg"`
	HourAngleHours float64     `json:"hour_angle_hours"`
	Position       astro.Point `json:"position"`
}

// StarMarker is a star above the horizon placed on a dial.
type StarMarker struct {
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	Constellation string      `json:"constellation,omitempty"`
	Mag           float64     `json:"magnitude"`
	AltDeg        float64     `json:"altitude_deg"`
	AzDeg         float64     `json:"azimuth_deg"`
	RAHours       float64     `json:"right_ascension_hours"`
	DecDeg        float64     `json:"declination_deg"`
	Position      astro.Point `json:"position"`
}

// DhruvaComponents is the physical layout of the chakra.
type DhruvaComponents struct {
	Yantra             Radius              `json:"yantra"`
	CentralPole        Gnomon              `json:"central_pole"`
	InnerCircle        Radius              `json:"inner_circle"`
	OuterRing          Radius              `json:"outer_ring"`
	DeclinationCircles []DeclinationCircle `json:"declination_circles"`
	HourAngleLines     []SiderealHourLine  `json:"hour_angle_lines"`
}

// DeclinationCircle is a ring of constant declination.
type DeclinationCircle struct {
	DecDeg  float64 `json:"declination_deg"`
	RadiusM float64 `json:"radius_m"`
}

// SiderealHourLine is one of the 24 hour-circle spokes.
type SiderealHourLine struct {
	Hour         int         `json:"hour"`
	Label        string      `json:"label"`
	SiderealHour float64     `json:"sidereal_hour"`
	AngleDeg     float64     `json:"angle_deg"`
	End          astro.Point `json:"end"`
	Current      bool        `json:"current"`
}

// LSTIndicator is the hand pointing at the current sidereal hour.
type LSTIndicator struct {
	AngleDeg float64     `json:"angle_deg"`
	End      astro.Point `json:"end"`
}

// DhruvaAstronomy carries the time quantities behind the readout.
type DhruvaAstronomy struct {
	DaysSinceJ2000          float64 `json:"days_since_J2000"`
	GMSTHours               float64 `json:"greenwich_mean_sidereal_time"`
	LSTHours                float64 `json:"local_sidereal_time"`
	PrecessionCorrectionDeg float64 `json:"precession_correction_deg"`
	VisibleCircumpolarStars int     `json:"visible_circumpolar_stars"`
}

func (c *Computer) dhruva(obs astro.Observer, inst astro.Instant, scale float64) (*DhruvaReadout, error) {
	st, err := astro.ComputeSiderealTime(obs, inst)
	if err != nil {
		return nil, err
	}
	centuries := inst.CenturiesSinceJ2000()

	polaris, err := c.catalog.Lookup(astro.Polaris().Name)
	if err != nil {
		return nil, err
	}
	pp, err := astro.StellarPositionAt(polaris, st.LSTHours, obs.LatDeg, centuries)
	if err != nil {
		return nil, fmt.Errorf("polaris: %w", err)
	}

	positions, err := astro.ComputeStellarPositions(obs, inst, c.catalog.Group(astro.GroupCircumpolar))
	if err != nil {
		return nil, err
	}
	visible := astro.VisibleOnly(positions)

	r := &DhruvaReadout{
		Header:   newHeader(KindDhruva, obs, inst, scale),
		LSTHours: st.LSTHours,
		Polaris: PolarisData{
			RAHours:        polaris.RAHours,
			DecDeg:         pp.DecDeg,
			AltDeg:         pp.AltDeg,
			AzDeg:          pp.AzDeg,
			HourAngleHours: pp.HourAngleHrs,
			Position:       astro.ProjectPolar(pp.AltDeg, pp.AzDeg, scale),
		},
		VisibleStars: starMarkers(c.catalog, visible, scale),
		Astronomical: DhruvaAstronomy{
			DaysSinceJ2000:          inst.DaysSinceJ2000(),
			GMSTHours:               st.GMSTHours,
			LSTHours:                st.LSTHours,
			PrecessionCorrectionDeg: pp.DecDeg - polaris.DecDeg,
			VisibleCircumpolarStars: len(visible),
		},
	}

	comp := &r.Components
	comp.Yantra = Radius{RadiusM: scale}
	comp.CentralPole = Gnomon{HeightM: 1.2 * scale, TiltDeg: obs.LatDeg}
	comp.InnerCircle = Radius{RadiusM: 0.1 * scale}
	comp.OuterRing = Radius{RadiusM: 0.9 * scale}
	for _, dec := range declinationCircles {
		comp.DeclinationCircles = append(comp.DeclinationCircles, DeclinationCircle{
			DecDeg:  dec,
			RadiusM: astro.DeclinationRadius(dec, scale),
		})
	}
	comp.HourAngleLines = siderealHourLines(st.LSTHours, scale)

	angle := st.LSTHours*15 - 90
	r.LSTIndicator = LSTIndicator{AngleDeg: angle, End: astro.AnglePoint(angle, 0.8*scale)}
	return r, nil
}

func siderealHourLines(lstHours, radius float64) []SiderealHourLine {
	lines := make([]SiderealHourLine, 24)
	for h := range lines {
		angle := float64(h)*15 - 90
		hf := float64(h)
		lines[h] = SiderealHourLine{
			Hour:         h,
			Label:        fmt.Sprintf("%02dh", h),
			SiderealHour: hf * siderealDayHours / 24,
			AngleDeg:     angle,
			End:          astro.AnglePoint(angle, radius),
			Current:      math.Abs(hf-lstHours) < 0.5 || math.Abs(hf-lstHours+24) < 0.5,
		}
	}
	return lines
}

// starMarkers projects visible stars onto a polar dial of the given radius.
func starMarkers(cat *astro.Catalog, visible []astro.StellarPosition, radius float64) []StarMarker {
	out := make([]StarMarker, 0, len(visible))
	for _, p := range visible {
		m := StarMarker{
			Name:          p.Name,
			Type:          "star",
			Constellation: p.Constellation,
			Mag:           p.Mag,
			AltDeg:        p.AltDeg,
			AzDeg:         p.AzDeg,
			DecDeg:        p.DecDeg,
			Position:      astro.ProjectPolar(p.AltDeg, p.AzDeg, radius),
		}
		if b, err := cat.Lookup(p.Name); err == nil {
			m.RAHours = b.RAHours
		}
		out = append(out, m)
	}
	return out
}

// Dial implements Readout.
func (r *DhruvaReadout) Dial() Dial {
	radius := r.Components.Yantra.RadiusM
	d := Dial{
		Title:  fmt.Sprintf("Dhruva-Protha-Chakra  LST %s", astro.FormatClock(r.LSTHours)),
		Radius: radius,
		Mode:   astro.ProjectionPolar,
		Rings:  []float64{radius, r.Components.OuterRing.RadiusM, r.Components.InnerCircle.RadiusM},
	}
	for _, dc := range r.Components.DeclinationCircles {
		d.Rings = append(d.Rings, dc.RadiusM)
	}
	for _, l := range r.Components.HourAngleLines {
		label := ""
		if l.Hour%6 == 0 || l.Current {
			label = l.Label
		}
		d.Lines = append(d.Lines, DialLine{Label: label, To: l.End, Highlight: l.Current})
	}
	d.Lines = append(d.Lines, DialLine{Label: "LST", To: r.LSTIndicator.End, Highlight: true})
	for _, s := range r.VisibleStars {
		d.Marks = append(d.Marks, DialMark{Label: s.Name, At: s.Position, Kind: MarkStar})
	}
	d.Marks = append(d.Marks, DialMark{Label: "Polaris", At: r.Polaris.Position, Kind: MarkPole})
	return d
}
