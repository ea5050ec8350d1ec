package astro

import "errors"

// StellarPosition is a catalogued body placed in the observer's sky.
type StellarPosition struct {
	Name          string  `json:"name"`
	Constellation string  `json:"constellation,omitempty"`
	Mag           float64 `json:"magnitude"`
	DecDeg        float64 `json:"declination_deg"`
	HourAngleHrs  float64 `json:"hour_angle_hours"` // signed, (-12, 12]
	AltDeg        float64 `json:"altitude_deg"`
	AzDeg         float64 `json:"azimuth_deg"`
}

// AboveHorizon reports whether the body is strictly above the horizon.
func (p StellarPosition) AboveHorizon() bool {
	return p.AltDeg > 0
}

// StellarPositionAt places a single body for a known local sidereal time.
func StellarPositionAt(b Body, lstHours, latDeg, centuries float64) (StellarPosition, error) {
	dec := b.CorrectedDec(centuries)
	pos, err := HorizontalFromHourAngle(HourAngleFromRA(lstHours, b.RAHours), dec, latDeg)
	if err != nil {
		return StellarPosition{}, err
	}
	return StellarPosition{
		Name:          b.Name,
		Constellation: b.Constellation,
		Mag:           b.Mag,
		DecDeg:        dec,
		HourAngleHrs:  SignedHourAngleHours(lstHours, b.RAHours),
		AltDeg:        pos.AltDeg,
		AzDeg:         pos.AzDeg,
	}, nil
}

// ComputeStellarPositions places each body in the observer's sky at the
// instant, preserving input order. Bodies below the horizon are kept; use
// AboveHorizon to filter. Bodies whose azimuth is undefined (zenith or nadir,
// polar observer) are dropped and logged.
func ComputeStellarPositions(obs Observer, inst Instant, bodies []Body) ([]StellarPosition, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	lst := LST(inst, obs.LonDeg)
	centuries := inst.CenturiesSinceJ2000()

	out := make([]StellarPosition, 0, len(bodies))
	for _, b := range bodies {
		p, err := StellarPositionAt(b, lst, obs.LatDeg, centuries)
		if err != nil {
			if errors.Is(err, ErrDomain) {
				engineLogger().Warn("dropping %s: %v", b.Name, err)
				continue
			}
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// VisibleOnly returns the positions strictly above the horizon.
func VisibleOnly(positions []StellarPosition) []StellarPosition {
	out := make([]StellarPosition, 0, len(positions))
	for _, p := range positions {
		if p.AboveHorizon() {
			out = append(out, p)
		}
	}
	return out
}
