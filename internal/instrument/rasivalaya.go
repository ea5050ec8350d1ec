package instrument

import (
	"context"
	"fmt"
	"math"

	"github.com/litescript/ls-yantra/internal/astro"
)

const (
	rasivalayaHourRadius   = 0.6 // fraction of the dial radius
	rasivalayaCurveRadius  = 0.5
	rasivalayaSignInner    = 0.7
	rasivalayaGnomonFactor = 0.8 // gnomon height per metre of scale
	eclipticCorrection     = 0.1 // degrees of line rotation per degree of solar longitude
	seasonalSamples        = 50
)

// Season is a reference declination of the Sun.
type Season struct {
	Name           string  `json:"season"`
	DeclinationDeg float64 `json:"declination_deg"`
	Color          string  `json:"color"`
	DayOfYear      int     `json:"day_of_year,omitempty"`
}

var rasivalayaSeasons = []Season{
	{Name: "Summer Solstice", DeclinationDeg: 23.45, Color: "orange"},
	{Name: "Equinox", DeclinationDeg: 0, Color: "green"},
	{Name: "Winter Solstice", DeclinationDeg: -23.45, Color: "blue"},
}

// RasivalayaReadout is the zodiac dial for one date.
type RasivalayaReadout struct {
	Header
	DayOfYear            int                  `json:"day_of_year"`
	CurrentZodiacSign    string               `json:"current_zodiac_sign"`
	SolarLongitude       float64              `json:"solar_longitude"`
	SolarDeclination     float64              `json:"solar_declination"`
	SolarTimeHighlighted string               `json:"solar_time_highlighted"`
	EoTMinutes           float64              `json:"equation_of_time_minutes"`
	Components           RasivalayaComponents `json:"components"`
	Astronomical         RasivalayaAstronomy  `json:"astronomical_data"`
}

// RasivalayaComponents is the physical layout of the dial.
type RasivalayaComponents struct {
	Yantra             Radius                `json:"yantra"`
	PlatformThicknessM float64               `json:"platform_thickness_m"`
	Gnomon             Gnomon                `json:"gnomon"`
	ZodiacSegments     []astro.ZodiacSegment `json:"zodiac_segments"`
	HourLines          []HourLine            `json:"hour_lines"`
	SeasonalCurves     []SeasonalCurve       `json:"seasonal_curves"`
	CurrentSun         SunMarker             `json:"current_sun_position"`
	Shadow             Shadow                `json:"shadow"`
}

// SeasonalCurve is the hour-line trace of a reference season.
type SeasonalCurve struct {
	Season
	Points []astro.Point `json:"points"`
}

// SunMarker is the Sun's place on a linear dial.
type SunMarker struct {
	AngleDeg float64     `json:"angle_deg"`
	Position astro.Point `json:"position"`
}

// Shadow is the gnomon shadow on a dial.
type Shadow struct {
	LengthM float64     `json:"shadow_length_m"`
	End     astro.Point `json:"end"`
}

// RasivalayaAstronomy repeats the solar quantities of the readout.
type RasivalayaAstronomy struct {
	SolarLongitudeDeg float64 `json:"solar_longitude_deg"`
	DeclinationDeg    float64 `json:"declination_deg"`
	EoTMinutes        float64 `json:"equation_of_time_min"`
	LocalSolarTime    string  `json:"local_solar_time"`
	ZodiacPosition    string  `json:"zodiac_position"`
}

func (c *Computer) rasivalaya(ctx context.Context, obs astro.Observer, inst astro.Instant, scale float64) (*RasivalayaReadout, error) {
	sign, err := astro.ComputeZodiacSign(inst)
	if err != nil {
		return nil, err
	}

	doy := inst.DayOfYear()
	eot := astro.EquationOfTime(doy)
	solarNoon := astro.TrueSolarTime(12, obs.LonDeg, eot, c.meridian)
	clock := astro.FormatClock(solarNoon)

	r := &RasivalayaReadout{
		Header:               newHeader(KindRasivalaya, obs, inst, scale),
		DayOfYear:            doy,
		CurrentZodiacSign:    sign.Sign,
		SolarLongitude:       sign.SolarLongitudeDeg,
		SolarDeclination:     sign.DeclinationDeg,
		SolarTimeHighlighted: clock,
		EoTMinutes:           eot,
		Astronomical: RasivalayaAstronomy{
			SolarLongitudeDeg: sign.SolarLongitudeDeg,
			DeclinationDeg:    sign.DeclinationDeg,
			EoTMinutes:        eot,
			LocalSolarTime:    clock,
			ZodiacPosition:    "Sun in " + sign.Sign,
		},
	}

	comp := &r.Components
	comp.Yantra = Radius{RadiusM: scale}
	comp.PlatformThicknessM = 0.1 * scale
	comp.Gnomon = Gnomon{HeightM: rasivalayaGnomonFactor * scale, TiltDeg: obs.LatDeg}
	comp.ZodiacSegments = astro.ZodiacSegments()

	// The hour lines are offset by the Sun's own longitude, so the ecliptic
	// correction cancels and they coincide with the plain hour lines.
	hourRadius := rasivalayaHourRadius * scale
	comp.HourLines = hourLines(obs.LatDeg, hourRadius, rasivalayaOffset(sign.SolarLongitudeDeg, sign.SolarLongitudeDeg))

	curves, err := c.seasonalCurves(ctx, obs.LatDeg, sign.SolarLongitudeDeg, rasivalayaCurveRadius*scale)
	if err != nil {
		return nil, err
	}
	comp.SeasonalCurves = curves

	theta := astro.HourLineAngle(15*(solarNoon-12), obs.LatDeg) +
		rasivalayaOffset(sign.SolarLongitudeDeg, sign.SolarLongitudeDeg)
	comp.CurrentSun = SunMarker{AngleDeg: theta, Position: astro.LinePoint(theta, hourRadius)}

	length := comp.Gnomon.HeightM / math.Tan((90-math.Abs(sign.DeclinationDeg))*math.Pi/180)
	comp.Shadow = Shadow{LengthM: length, End: astro.LinePoint(theta, length)}
	return r, nil
}

// rasivalayaOffset is the ecliptic rotation of a line, in degrees.
func rasivalayaOffset(solarLonDeg, offsetDeg float64) float64 {
	return eclipticCorrection * (solarLonDeg - offsetDeg)
}

// seasonalCurves traces each reference season across t = -6..+6 hours.
func (c *Computer) seasonalCurves(ctx context.Context, latDeg, solarLonDeg, radius float64) ([]SeasonalCurve, error) {
	ts := linspace(-6, 6, seasonalSamples)
	n := len(rasivalayaSeasons) * len(ts)

	points, err := sampleParallel(ctx, c.workers, n, func(i int) (astro.Point, error) {
		t := ts[i%len(ts)]
		angle := astro.HourLineAngle(15*t, latDeg) + rasivalayaOffset(solarLonDeg, 0)
		return astro.LinePoint(angle, radius), nil
	})
	if err != nil {
		return nil, fmt.Errorf("seasonal curves: %w", err)
	}

	curves := make([]SeasonalCurve, len(rasivalayaSeasons))
	for s, season := range rasivalayaSeasons {
		curves[s] = SeasonalCurve{
			Season: season,
			Points: points[s*len(ts) : (s+1)*len(ts)],
		}
	}
	return curves, nil
}

// Dial implements Readout.
func (r *RasivalayaReadout) Dial() Dial {
	radius := r.Components.Yantra.RadiusM
	d := Dial{
		Title:  fmt.Sprintf("Rasivalaya Yantra  %s  %s", r.CurrentZodiacSign, r.SolarTimeHighlighted),
		Radius: radius,
		Mode:   astro.ProjectionLinear,
		Rings:  []float64{radius, rasivalayaSignInner * radius},
	}
	for _, seg := range r.Components.ZodiacSegments {
		d.Lines = append(d.Lines, DialLine{
			From: astro.AnglePoint(seg.StartAngleDeg, rasivalayaSignInner*radius),
			To:   astro.AnglePoint(seg.StartAngleDeg, radius),
		})
	}
	for _, l := range r.Components.HourLines {
		d.Lines = append(d.Lines, DialLine{Label: l.Time[:2], From: l.Start, To: l.End})
	}
	d.Lines = append(d.Lines, DialLine{To: r.Components.Shadow.End, Highlight: true})
	d.Marks = append(d.Marks, DialMark{Label: "Sun", At: r.Components.CurrentSun.Position, Kind: MarkSun})
	return d
}
