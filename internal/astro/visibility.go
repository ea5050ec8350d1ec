package astro

import (
	"errors"
	"math"
)

// PathSample is one point on the Sun's diurnal path.
type PathSample struct {
	SolarHour float64 `json:"solar_hour"` // apparent solar time, hours
	AltDeg    float64 `json:"altitude_deg"`
	AzDeg     float64 `json:"azimuth_deg"`
}

// DaylightWindow is the rise-transit-set cycle found in a sampled path.
// Hours are apparent solar time.
type DaylightWindow struct {
	Rise        float64 `json:"rise_hour"`
	Transit     float64 `json:"transit_hour"`
	Set         float64 `json:"set_hour"`
	MaxAltitude float64 `json:"max_altitude_deg"`
	RiseFound   bool    `json:"rise_found"`
	SetFound    bool    `json:"set_found"`
	AlwaysUp    bool    `json:"always_up"` // above the horizon for every sample
	NeverUp     bool    `json:"never_up"`  // below the horizon for every sample
}

// MinAltitude is the horizon threshold. No refraction allowance is made.
const MinAltitude = 0.0

var ErrInsufficientSamples = errors.New("insufficient samples for daylight calculation")

// SunPath samples the Sun's path at a fixed declination from startHour to
// endHour solar time inclusive, n samples evenly spaced. Samples where the
// azimuth is undefined are skipped and logged.
func SunPath(latDeg, decDeg, startHour, endHour float64, n int) []PathSample {
	if n < 2 {
		n = 2
	}
	step := (endHour - startHour) / float64(n-1)
	out := make([]PathSample, 0, n)
	for i := 0; i < n; i++ {
		t := startHour + float64(i)*step
		pos, err := HorizontalFromHourAngle(15*(t-12), decDeg, latDeg)
		if err != nil {
			engineLogger().Debug("sun path sample at %.3fh skipped: %v", t, err)
			continue
		}
		out = append(out, PathSample{SolarHour: t, AltDeg: pos.AltDeg, AzDeg: pos.AzDeg})
	}
	return out
}

// Daylight finds rise, transit and set in a chronologically ordered path
// using linear interpolation between samples for the horizon crossings.
func Daylight(samples []PathSample) (DaylightWindow, error) {
	if len(samples) < 3 {
		return DaylightWindow{}, ErrInsufficientSamples
	}

	minAlt, maxAlt := 90.0, -90.0
	maxIdx := 0
	for i, s := range samples {
		if s.AltDeg < minAlt {
			minAlt = s.AltDeg
		}
		if s.AltDeg > maxAlt {
			maxAlt = s.AltDeg
			maxIdx = i
		}
	}

	if minAlt > MinAltitude {
		transit, peak := refineMaxAltitude(samples, maxIdx)
		return DaylightWindow{Transit: transit, MaxAltitude: peak, AlwaysUp: true}, nil
	}
	if maxAlt <= MinAltitude {
		return DaylightWindow{MaxAltitude: maxAlt, NeverUp: true}, nil
	}

	w := DaylightWindow{}
	w.Transit, w.MaxAltitude = refineMaxAltitude(samples, maxIdx)

	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if !w.RiseFound && prev.AltDeg <= MinAltitude && curr.AltDeg > MinAltitude {
			w.Rise = interpolateCrossing(prev.SolarHour, curr.SolarHour, prev.AltDeg, curr.AltDeg, MinAltitude)
			w.RiseFound = true
		}
		if prev.AltDeg > MinAltitude && curr.AltDeg <= MinAltitude {
			w.Set = interpolateCrossing(prev.SolarHour, curr.SolarHour, prev.AltDeg, curr.AltDeg, MinAltitude)
			w.SetFound = true
		}
	}
	return w, nil
}

// refineMaxAltitude fits a parabola through the peak sample and its
// neighbours and returns the vertex.
func refineMaxAltitude(samples []PathSample, idx int) (float64, float64) {
	peak := samples[idx]
	if idx == 0 || idx == len(samples)-1 {
		return peak.SolarHour, peak.AltDeg
	}

	// Normalized time: t = -1 (prev), t = 0 (peak), t = +1 (next)
	y0 := samples[idx-1].AltDeg
	y1 := peak.AltDeg
	y2 := samples[idx+1].AltDeg

	c := y1
	a := (y0+y2)/2 - c
	b := (y2 - y0) / 2
	if a >= 0 {
		return peak.SolarHour, peak.AltDeg
	}

	tMax := math.Max(-1, math.Min(1, -b/(2*a)))
	dt := peak.SolarHour - samples[idx-1].SolarHour
	return peak.SolarHour + dt*tMax, a*tMax*tMax + b*tMax + c
}

// interpolateCrossing finds the hour at which altitude crosses a threshold.
func interpolateCrossing(t1, t2, alt1, alt2, threshold float64) float64 {
	if math.Abs(alt2-alt1) < 0.0001 {
		return t1
	}
	fraction := (threshold - alt1) / (alt2 - alt1)
	fraction = math.Max(0, math.Min(1, fraction))
	return t1 + (t2-t1)*fraction
}

// ElevationTier categorizes altitude for display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // Below horizon
	ElevationLow                         // 0-15 degrees
	ElevationMedium                      // 15-45 degrees
	ElevationHigh                        // 45+ degrees
)

func (t ElevationTier) String() string {
	switch t {
	case ElevationLow:
		return "low"
	case ElevationMedium:
		return "medium"
	case ElevationHigh:
		return "high"
	default:
		return "below horizon"
	}
}

// GetElevationTier returns the tier for a given altitude.
func GetElevationTier(altDeg float64) ElevationTier {
	switch {
	case altDeg <= 0:
		return ElevationNone
	case altDeg < 15:
		return ElevationLow
	case altDeg < 45:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}
