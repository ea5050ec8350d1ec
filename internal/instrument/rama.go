package instrument

import (
	"context"
	"errors"
	"fmt"

	"github.com/litescript/ls-yantra/internal/astro"
)

var sixteenWinds = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

var ramaSeasons = []Season{
	{Name: "Summer Solstice", DeclinationDeg: 23.45, Color: "#FF6B6B", DayOfYear: 172},
	{Name: "Spring Equinox", DeclinationDeg: 0, Color: "#4ECDC4", DayOfYear: 80},
	{Name: "Winter Solstice", DeclinationDeg: -23.45, Color: "#45B7D1", DayOfYear: 355},
	{Name: "Autumn Equinox", DeclinationDeg: 0, Color: "#96CEB4", DayOfYear: 266},
}

// RamaReadout is the altitude-azimuth dial for one instant.
type RamaReadout struct {
	Header
	LSTHours      float64          `json:"local_sidereal_time"`
	Solar         SolarData        `json:"solar_data"`
	SunOnDial     *astro.Point     `json:"sun_position,omitempty"`
	Components    RamaComponents   `json:"components"`
	SunPaths      []SunPath        `json:"seasonal_sun_paths"`
	VisibleBodies []StarMarker     `json:"visible_celestial_bodies"`
	Measurements  RamaMeasurements `json:"measurements"`
}

// SolarData is the Sun's position as reported by an instrument. Altitude,
// azimuth and direction are nil when the instrument only reports a Sun
// above the horizon.
type SolarData struct {
	AltDeg       *float64 `json:"altitude_deg"`
	AzDeg        *float64 `json:"azimuth_deg"`
	DecDeg       float64  `json:"declination_deg"`
	HourAngleDeg float64  `json:"hour_angle_deg"`
	EoTMinutes   float64  `json:"equation_of_time_min"`
	Direction    *string  `json:"direction,omitempty"`
}

func solarData(s astro.SolarPosition) SolarData {
	alt, az := s.AltDeg, s.AzDeg
	return SolarData{
		AltDeg:       &alt,
		AzDeg:        &az,
		DecDeg:       s.DecDeg,
		HourAngleDeg: s.HourAngleDeg,
		EoTMinutes:   s.EoTMinutes,
	}
}

// RamaComponents is the physical layout of the dial.
type RamaComponents struct {
	Yantra           Radius            `json:"yantra"`
	CentralPillar    Gnomon            `json:"central_pillar"`
	BaseThicknessM   float64           `json:"base_thickness_m"`
	AltitudeScale    []AltitudeRing    `json:"altitude_scale"`
	AzimuthDivisions []AzimuthDivision `json:"azimuth_divisions"`
}

// AltitudeRing is a ring of constant altitude on the floor of the dial.
type AltitudeRing struct {
	AltDeg  float64 `json:"altitude_deg"`
	RadiusM float64 `json:"radius_m"`
	Type    string  `json:"type"`
}

// AzimuthDivision is a bearing spoke of the dial.
type AzimuthDivision struct {
	Direction string      `json:"direction"`
	AngleDeg  float64     `json:"angle_deg"`
	End       astro.Point `json:"end"`
}

// SunPath is the Sun's projected track on a reference day.
type SunPath struct {
	Season
	Points   []astro.Point        `json:"points"`
	Daylight astro.DaylightWindow `json:"daylight"`
}

// RamaMeasurements summarises what the dial can currently measure.
type RamaMeasurements struct {
	SunVisible          bool   `json:"sun_visible"`
	TotalVisibleObjects int    `json:"total_visible_objects"`
	Precision           string `json:"measurement_precision"`
	AltitudeRange       string `json:"altitude_range"`
	AzimuthRange        string `json:"azimuth_range"`
}

func (c *Computer) rama(ctx context.Context, obs astro.Observer, inst astro.Instant, scale float64) (*RamaReadout, error) {
	sun, err := c.solar(obs, inst)
	if err != nil {
		return nil, err
	}

	positions, err := astro.ComputeStellarPositions(obs, inst, c.catalog.Group(astro.GroupBright))
	if err != nil {
		return nil, err
	}
	visible := starMarkers(c.catalog, astro.VisibleOnly(positions), scale)

	paths, err := c.sunPaths(ctx, obs.LatDeg, scale)
	if err != nil {
		return nil, err
	}

	r := &RamaReadout{
		Header:        newHeader(KindRama, obs, inst, scale),
		LSTHours:      astro.LST(inst, obs.LonDeg),
		Solar:         solarData(sun),
		SunPaths:      paths,
		VisibleBodies: visible,
		Measurements: RamaMeasurements{
			SunVisible:          sun.AboveHorizon(),
			TotalVisibleObjects: len(visible),
			Precision:           "1 degree",
			AltitudeRange:       "0-90 degrees",
			AzimuthRange:        "0-360 degrees",
		},
	}
	if sun.AboveHorizon() {
		p := astro.ProjectPolar(sun.AltDeg, sun.AzDeg, scale)
		r.SunOnDial = &p
		r.Measurements.TotalVisibleObjects++
	}

	comp := &r.Components
	comp.Yantra = Radius{RadiusM: scale}
	comp.CentralPillar = Gnomon{HeightM: 1.5 * scale}
	comp.BaseThicknessM = 0.1 * scale
	comp.AltitudeScale = altitudeScale(scale)
	for i, name := range sixteenWinds {
		az := float64(i) * 22.5
		comp.AzimuthDivisions = append(comp.AzimuthDivisions, AzimuthDivision{
			Direction: name,
			AngleDeg:  az,
			End:       astro.ProjectBearing(az, scale),
		})
	}
	return r, nil
}

// altitudeScale returns major rings every 10 degrees followed by minor rings
// on the odd fives.
func altitudeScale(radius float64) []AltitudeRing {
	var rings []AltitudeRing
	for alt := 0; alt <= 90; alt += 10 {
		rings = append(rings, AltitudeRing{AltDeg: float64(alt), RadiusM: radius * float64(90-alt) / 90, Type: "major"})
	}
	for alt := 5; alt < 90; alt += 10 {
		rings = append(rings, AltitudeRing{AltDeg: float64(alt), RadiusM: radius * float64(90-alt) / 90, Type: "minor"})
	}
	return rings
}

type pathPoint struct {
	point astro.Point
	ok    bool
}

// sunPaths traces each season from 06:00 to 18:00 apparent solar time,
// keeping only samples above the horizon. Seasons with no such sample are
// left out.
func (c *Computer) sunPaths(ctx context.Context, latDeg, radius float64) ([]SunPath, error) {
	ts := linspace(6, 18, seasonalSamples)
	n := len(ramaSeasons) * len(ts)

	samples, err := sampleParallel(ctx, c.workers, n, func(i int) (pathPoint, error) {
		season := ramaSeasons[i/len(ts)]
		pos, err := astro.HorizontalFromHourAngle(15*(ts[i%len(ts)]-12), season.DeclinationDeg, latDeg)
		if err != nil {
			if errors.Is(err, astro.ErrDomain) {
				return pathPoint{}, nil
			}
			return pathPoint{}, err
		}
		if !pos.AboveHorizon() {
			return pathPoint{}, nil
		}
		return pathPoint{point: astro.ProjectPolar(pos.AltDeg, pos.AzDeg, radius), ok: true}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sun paths: %w", err)
	}

	var paths []SunPath
	for s, season := range ramaSeasons {
		var pts []astro.Point
		for _, pp := range samples[s*len(ts) : (s+1)*len(ts)] {
			if pp.ok {
				pts = append(pts, pp.point)
			}
		}
		if len(pts) == 0 {
			continue
		}
		window, err := astro.Daylight(astro.SunPath(latDeg, season.DeclinationDeg, 0, 24, 97))
		if err != nil {
			return nil, fmt.Errorf("daylight for %s: %w", season.Name, err)
		}
		paths = append(paths, SunPath{Season: season, Points: pts, Daylight: window})
	}
	return paths, nil
}

// Dial implements Readout.
func (r *RamaReadout) Dial() Dial {
	radius := r.Components.Yantra.RadiusM
	title := "Rama Yantra  Sun below horizon"
	if r.Solar.AltDeg != nil && r.SunOnDial != nil {
		title = fmt.Sprintf("Rama Yantra  Sun alt %.1f° az %.1f°", *r.Solar.AltDeg, *r.Solar.AzDeg)
	}
	d := Dial{
		Title:  title,
		Radius: radius,
		Mode:   astro.ProjectionPolar,
	}
	for _, ring := range r.Components.AltitudeScale {
		if ring.Type == "major" && ring.AltDeg < 90 && int(ring.AltDeg)%30 == 0 {
			d.Rings = append(d.Rings, ring.RadiusM)
		}
	}
	for i, div := range r.Components.AzimuthDivisions {
		label := ""
		if i%4 == 0 {
			label = div.Direction
		}
		d.Lines = append(d.Lines, DialLine{Label: label, To: div.End})
	}
	for _, b := range r.VisibleBodies {
		d.Marks = append(d.Marks, DialMark{Label: b.Name, At: b.Position, Kind: MarkStar})
	}
	if r.SunOnDial != nil {
		d.Marks = append(d.Marks, DialMark{Label: "Sun", At: *r.SunOnDial, Kind: MarkSun})
	}
	return d
}
