package instrument

import (
	"fmt"
	"math"

	"github.com/litescript/ls-yantra/internal/astro"
)

// DigamsaReadout is the azimuth dial for one instant.
type DigamsaReadout struct {
	Header
	MagneticDeclinationDeg float64             `json:"magnetic_declination_deg"`
	Solar                  SolarData           `json:"solar_data"`
	Shadow                 DigamsaShadow       `json:"shadow_data"`
	MagneticNorth          astro.Point         `json:"magnetic_north"`
	Components             DigamsaComponents   `json:"components"`
	Directions             DirectionSystems    `json:"direction_systems"`
	AzimuthScale           []ScaleMark         `json:"azimuth_scale"`
	Measurements           DigamsaMeasurements `json:"measurements"`
}

// DigamsaShadow is the gnomon shadow used for direction finding. Azimuth,
// length and end are nil while the Sun is down.
type DigamsaShadow struct {
	AzimuthDeg *float64     `json:"shadow_azimuth_deg"`
	LengthM    *float64     `json:"shadow_length_m"`
	End        *astro.Point `json:"end,omitempty"`
	Direction  string       `json:"direction,omitempty"`
	GnomonM    float64      `json:"gnomon_height_m"`
}

// DigamsaComponents is the physical layout of the dial.
type DigamsaComponents struct {
	Yantra         Radius `json:"yantra"`
	InnerCompass   Radius `json:"inner_compass"`
	CentralPost    Radius `json:"central_post"`
	DirectionLines Radius `json:"direction_lines"`
}

// DirectionSystems lists the two direction tables engraved on the dial.
type DirectionSystems struct {
	Compass []CompassPoint   `json:"compass_directions"`
	Vedic   []VedicDirection `json:"vedic_directions"`
}

// DigamsaMeasurements summarises what the dial can currently measure.
type DigamsaMeasurements struct {
	PrecisionDeg          float64 `json:"precision_deg"`
	AzimuthRange          string  `json:"azimuth_range"`
	MagneticCorrection    bool    `json:"magnetic_correction_available"`
	ShadowMeasurement     bool    `json:"shadow_measurement_available"`
	VedicSystemIntegrated bool    `json:"vedic_system_integrated"`
}

func (c *Computer) digamsa(obs astro.Observer, inst astro.Instant, scale float64) (*DigamsaReadout, error) {
	magDec, err := astro.MagneticDeclination(obs)
	if err != nil {
		return nil, err
	}
	sun, err := c.solar(obs, inst)
	if err != nil {
		return nil, err
	}

	gnomon := 0.3 * scale
	r := &DigamsaReadout{
		Header:                 newHeader(KindDigamsa, obs, inst, scale),
		MagneticDeclinationDeg: magDec,
		Solar: SolarData{
			DecDeg:       sun.DecDeg,
			HourAngleDeg: sun.HourAngleDeg,
			EoTMinutes:   sun.EoTMinutes,
		},
		Shadow:        DigamsaShadow{GnomonM: gnomon},
		MagneticNorth: astro.ProjectBearing(magDec, 1.1*scale),
		Components: DigamsaComponents{
			Yantra:         Radius{RadiusM: scale},
			InnerCompass:   Radius{RadiusM: 0.8 * scale},
			CentralPost:    Radius{RadiusM: 0.02 * scale},
			DirectionLines: Radius{RadiusM: 0.9 * scale},
		},
		Directions: DirectionSystems{
			Compass: CompassRose(),
			Vedic:   VedicDirections(),
		},
		AzimuthScale: azimuthScale(scale),
		Measurements: DigamsaMeasurements{
			PrecisionDeg:          1,
			AzimuthRange:          "0-360 degrees",
			MagneticCorrection:    true,
			ShadowMeasurement:     sun.AboveHorizon(),
			VedicSystemIntegrated: true,
		},
	}

	if sun.AboveHorizon() {
		r.Solar = solarData(sun)
		dir, _ := NearestCompassPoint(sun.AzDeg)
		r.Solar.Direction = &dir.Name

		az := astro.Normalize360(sun.AzDeg + 180)
		length := math.Min(gnomon/math.Tan(sun.AltDeg*math.Pi/180), 0.8*scale)
		end := astro.ProjectBearing(az, length)
		shadowDir, _ := NearestCompassPoint(az)
		r.Shadow.AzimuthDeg = &az
		r.Shadow.LengthM = &length
		r.Shadow.End = &end
		r.Shadow.Direction = shadowDir.Name
	}
	return r, nil
}

// azimuthScale returns major marks every 10 degrees followed by minor marks
// on the odd fives.
func azimuthScale(radius float64) []ScaleMark {
	marks := make([]ScaleMark, 0, 72)
	for a := 0; a < 360; a += 10 {
		marks = append(marks, ScaleMark{
			AngleDeg: float64(a),
			Type:     "major",
			LengthM:  0.05 * radius,
			Label:    fmt.Sprintf("%d°", a),
		})
	}
	for a := 5; a < 360; a += 10 {
		marks = append(marks, ScaleMark{AngleDeg: float64(a), Type: "minor", LengthM: 0.03 * radius})
	}
	return marks
}

// Dial implements Readout.
func (r *DigamsaReadout) Dial() Dial {
	radius := r.Components.Yantra.RadiusM
	title := "Digamsa Yantra  Sun below horizon"
	if r.Solar.Direction != nil {
		title = fmt.Sprintf("Digamsa Yantra  Sun %s %.1f°", *r.Solar.Direction, *r.Solar.AzDeg)
	}
	d := Dial{
		Title:  title,
		Radius: radius,
		Mode:   astro.ProjectionBearing,
		Rings:  []float64{radius, r.Components.InnerCompass.RadiusM},
	}
	for _, p := range r.Directions.Compass {
		if p.Type != "cardinal" && p.Type != "intercardinal" {
			continue
		}
		d.Lines = append(d.Lines, DialLine{
			Label: p.Name,
			To:    astro.ProjectBearing(p.AngleDeg, r.Components.DirectionLines.RadiusM),
		})
	}
	if r.Shadow.End != nil {
		d.Lines = append(d.Lines, DialLine{Label: "shadow", To: *r.Shadow.End, Highlight: true})
		d.Marks = append(d.Marks, DialMark{
			Label: "Sun",
			At:    astro.ProjectBearing(*r.Solar.AzDeg, r.Components.InnerCompass.RadiusM),
			Kind:  MarkSun,
		})
	}
	d.Marks = append(d.Marks, DialMark{Label: "mN", At: r.MagneticNorth, Kind: MarkNorth})
	return d
}
