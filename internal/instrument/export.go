package instrument

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-yantra/internal/astro"
)

// WriteJSON writes the readout as indented JSON.
func WriteJSON(w io.Writer, r Readout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a human summary of the readout.
func WriteText(w io.Writer, r Readout) error {
	h := r.Meta()
	var b strings.Builder

	fmt.Fprintf(&b, "%s @ %s %s\n", r.Kind().Info().Name, h.Date, h.Time)
	fmt.Fprintf(&b, "Observer: lat %.1s  lon %.1s  scale %.2f m\n",
		fmtDeg(h.Latitude), fmtDeg(h.Longitude), h.ScaleM)
	b.WriteString(strings.Repeat("─", 60))
	b.WriteByte('\n')

	switch v := r.(type) {
	case *SamratReadout:
		fmt.Fprintf(&b, "Solar time at clock noon: %s\n", v.SolarTimeHighlighted)
		fmt.Fprintf(&b, "Local solar noon:         %s\n", v.LocalSolarNoon)
		fmt.Fprintf(&b, "Equation of time:         %+.2f min\n", v.EoTMinutes)
		fmt.Fprintf(&b, "Solar declination:        %.1s\n", fmtDeg(v.DeclinationDeg))
		if v.Daylight.Sunrise != nil {
			fmt.Fprintf(&b, "Sunrise / sunset (UTC):   %s / %s\n",
				v.Daylight.Sunrise.Format("15:04"), v.Daylight.Sunset.Format("15:04"))
		}
		for _, l := range v.Components.HourLines {
			fmt.Fprintf(&b, "  %s  %8.3f°\n", l.Time, l.AngleDeg)
		}

	case *RasivalayaReadout:
		fmt.Fprintf(&b, "Zodiac sign:       %s\n", v.CurrentZodiacSign)
		fmt.Fprintf(&b, "Solar longitude:   %.1s\n", fmtDeg(v.SolarLongitude))
		fmt.Fprintf(&b, "Solar declination: %.1s\n", fmtDeg(v.SolarDeclination))
		fmt.Fprintf(&b, "Solar time:        %s\n", v.SolarTimeHighlighted)
		fmt.Fprintf(&b, "Shadow length:     %.3f m\n", v.Components.Shadow.LengthM)

	case *DhruvaReadout:
		fmt.Fprintf(&b, "GMST: %.0s  LST: %.0s\n",
			sexa.FmtTime(unit.TimeFromHour(v.Astronomical.GMSTHours)),
			sexa.FmtTime(unit.TimeFromHour(v.LSTHours)))
		fmt.Fprintf(&b, "Polaris: RA %.0s  Dec %.1s\n",
			sexa.FmtRA(unit.RAFromHour(v.Polaris.RAHours)), fmtDeg(v.Polaris.DecDeg))
		fmt.Fprintf(&b, "         alt %.1s  az %.1s  HA %+.3fh\n",
			fmtDeg(v.Polaris.AltDeg), fmtDeg(v.Polaris.AzDeg), v.Polaris.HourAngleHours)
		fmt.Fprintf(&b, "Visible circumpolar stars: %d\n", len(v.VisibleStars))
		for _, s := range v.VisibleStars {
			writeStar(&b, s)
		}

	case *RamaReadout:
		writeSolar(&b, v.Solar)
		fmt.Fprintf(&b, "LST: %.0s\n", sexa.FmtTime(unit.TimeFromHour(v.LSTHours)))
		fmt.Fprintf(&b, "Visible objects: %d\n", v.Measurements.TotalVisibleObjects)
		for _, s := range v.VisibleBodies {
			writeStar(&b, s)
		}
		for _, p := range v.SunPaths {
			fmt.Fprintf(&b, "  %-16s %2d points  daylight %.2fh\n",
				p.Name, len(p.Points), p.Daylight.Set-p.Daylight.Rise)
		}

	case *DigamsaReadout:
		fmt.Fprintf(&b, "Magnetic declination: %.1s\n", fmtDeg(v.MagneticDeclinationDeg))
		writeSolar(&b, v.Solar)
		if v.Shadow.AzimuthDeg != nil {
			fmt.Fprintf(&b, "Shadow: %s az %.1s  length %.3f m\n",
				v.Shadow.Direction, fmtDeg(*v.Shadow.AzimuthDeg), *v.Shadow.LengthM)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeStar writes one visible body with its altitude tier.
func writeStar(b *strings.Builder, s StarMarker) {
	fmt.Fprintf(b, "  %-10s alt %6.2f°  az %6.2f°  %s\n", s.Name, s.AltDeg, s.AzDeg, astro.GetElevationTier(s.AltDeg))
}

func writeSolar(b *strings.Builder, s SolarData) {
	if s.AltDeg == nil {
		fmt.Fprintln(b, "Sun below horizon")
	} else {
		fmt.Fprintf(b, "Sun: alt %.1s  az %.1s", fmtDeg(*s.AltDeg), fmtDeg(*s.AzDeg))
		if s.Direction != nil {
			fmt.Fprintf(b, "  (%s)", *s.Direction)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(b, "Declination %.1s  hour angle %+.2f°  EoT %+.2f min\n",
		fmtDeg(s.DecDeg), s.HourAngleDeg, s.EoTMinutes)
}

func fmtDeg(deg float64) *sexa.Angle {
	return sexa.FmtAngle(unit.AngleFromDeg(deg))
}
