package instrument

import (
	"fmt"
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/litescript/ls-yantra/internal/astro"
)

// SamratReadout is the equatorial sundial for one date.
type SamratReadout struct {
	Header
	DayOfYear            int              `json:"day_of_year"`
	SolarTimeHighlighted string           `json:"solar_time_highlighted"`
	LocalSolarNoon       string           `json:"local_solar_noon"`
	EoTMinutes           float64          `json:"equation_of_time_min"`
	DeclinationDeg       float64          `json:"solar_declination"`
	Daylight             SunTimes         `json:"daylight"`
	Components           SamratComponents `json:"components"`
}

// SunTimes holds sunrise and sunset in UTC. Both are nil when the Sun does
// not cross the horizon that day.
type SunTimes struct {
	Sunrise *time.Time `json:"sunrise_utc"`
	Sunset  *time.Time `json:"sunset_utc"`
	Hours   float64    `json:"daylight_hours"`
}

// SamratComponents is the physical layout of the dial.
type SamratComponents struct {
	Platform       Radius         `json:"platform"`
	Gnomon         Gnomon         `json:"gnomon"`
	HourLines      []HourLine     `json:"hour_lines"`
	FractionalLine FractionalLine `json:"fractional_line"`
}

// FractionalLine is the hour line of apparent solar time at clock noon.
type FractionalLine struct {
	THours   float64     `json:"t_hours"`
	AngleDeg float64     `json:"angle_deg"`
	End      astro.Point `json:"end"`
}

func (c *Computer) samrat(obs astro.Observer, inst astro.Instant, scale float64) (*SamratReadout, error) {
	doy := inst.DayOfYear()
	eot := astro.EquationOfTime(doy)
	solarNoon := astro.TrueSolarTime(12, obs.LonDeg, eot, c.meridian)

	r := &SamratReadout{
		Header:               newHeader(KindSamrat, obs, inst, scale),
		DayOfYear:            doy,
		SolarTimeHighlighted: astro.FormatClock(solarNoon),
		LocalSolarNoon:       astro.FormatClock(astro.LocalSolarNoon(doy, obs.LonDeg, c.meridian)),
		EoTMinutes:           eot,
		DeclinationDeg:       astro.SolarDeclination(doy),
		Daylight:             sunTimes(obs, inst.Date()),
	}

	r.Components.Platform = Radius{RadiusM: scale}
	r.Components.Gnomon = Gnomon{
		HeightM: scale,
		TiltDeg: obs.LatDeg,
		TopYM:   scale * math.Tan(obs.LatDeg*math.Pi/180),
	}
	r.Components.HourLines = hourLines(obs.LatDeg, scale, 0)

	ha := 15 * (solarNoon - 12)
	r.Components.FractionalLine = FractionalLine{
		THours:   solarNoon,
		AngleDeg: astro.HourLineAngle(ha, obs.LatDeg),
		End:      astro.ProjectLinear(ha, obs.LatDeg, scale),
	}
	return r, nil
}

// hourLines returns the 13 lines for 06:00 to 18:00 ending at radius, each
// rotated by offsetDeg.
func hourLines(latDeg, radius, offsetDeg float64) []HourLine {
	lines := make([]HourLine, 0, 13)
	for t := -6; t <= 6; t++ {
		angle := astro.HourLineAngle(15*float64(t), latDeg) + offsetDeg
		lines = append(lines, HourLine{
			Time:     fmt.Sprintf("%02d:00", 12+t),
			T:        float64(12 + t),
			AngleDeg: angle,
			End:      astro.LinePoint(angle, radius),
		})
	}
	return lines
}

func sunTimes(obs astro.Observer, date time.Time) SunTimes {
	rise, set := sunrise.SunriseSunset(obs.LatDeg, obs.LonDeg, date.Year(), date.Month(), date.Day())
	if rise.IsZero() || set.IsZero() {
		return SunTimes{}
	}
	rise, set = rise.UTC(), set.UTC()
	return SunTimes{Sunrise: &rise, Sunset: &set, Hours: set.Sub(rise).Hours()}
}

// Dial implements Readout.
func (r *SamratReadout) Dial() Dial {
	d := Dial{
		Title:  fmt.Sprintf("Samrat Yantra  solar time %s", r.SolarTimeHighlighted),
		Radius: r.Components.Platform.RadiusM,
		Mode:   astro.ProjectionLinear,
		Rings:  []float64{r.Components.Platform.RadiusM},
	}
	for _, l := range r.Components.HourLines {
		d.Lines = append(d.Lines, DialLine{Label: l.Time[:2], From: l.Start, To: l.End})
	}
	d.Lines = append(d.Lines, DialLine{
		Label:     r.SolarTimeHighlighted,
		To:        r.Components.FractionalLine.End,
		Highlight: true,
	})
	return d
}
