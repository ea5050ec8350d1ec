// Package astro is the astronomical position engine: time conversion, solar
// ephemeris, horizontal coordinates, the star catalog, zodiac mapping and the
// instrument projections. Every function here is pure.
package astro

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/soniakeys/unit"

	"github.com/litescript/ls-yantra/internal/logging"
)

// degenerateEps is the threshold below which cos(lat) or cos(alt) is treated
// as zero and the azimuth as undefined.
const degenerateEps = 1e-9

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 `json:"latitude"`  // Latitude in degrees (north positive)
	LonDeg float64 `json:"longitude"` // Longitude in degrees (east positive)
	Name   string  `json:"name,omitempty"`
}

// Validate checks that the observer lies on the globe.
func (o Observer) Validate() error {
	if math.IsNaN(o.LatDeg) || o.LatDeg < -90 || o.LatDeg > 90 {
		return &ValidationError{Field: "latitude", Message: fmt.Sprintf("%v outside [-90, 90]", o.LatDeg)}
	}
	if math.IsNaN(o.LonDeg) || o.LonDeg < -180 || o.LonDeg > 180 {
		return &ValidationError{Field: "longitude", Message: fmt.Sprintf("%v outside [-180, 180]", o.LonDeg)}
	}
	return nil
}

// HorizontalPosition is a body's altitude and azimuth for one observer.
// Azimuth: 0° = North, 90° = East, 180° = South, 270° = West.
type HorizontalPosition struct {
	AltDeg float64 `json:"altitude_deg"`
	AzDeg  float64 `json:"azimuth_deg"`
}

// AboveHorizon reports whether the position is strictly above the horizon.
func (h HorizontalPosition) AboveHorizon() bool {
	return h.AltDeg > 0
}

// HorizontalFromHourAngle converts an hour angle and declination to altitude
// and azimuth for an observer at latDeg.
//
// When the azimuth is undefined (observer at a pole, body at the zenith or
// nadir) a *DomainError is returned instead of a NaN azimuth.
func HorizontalFromHourAngle(haDeg, decDeg, latDeg float64) (HorizontalPosition, error) {
	lat := degToRad(latDeg)
	dec := degToRad(decDeg)
	ha := degToRad(haDeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	sinAlt, err := clampUnit("altitude", sinAlt)
	if err != nil {
		return HorizontalPosition{}, err
	}
	alt := math.Asin(sinAlt)

	cosLat := math.Cos(lat)
	cosAlt := math.Cos(alt)
	if math.Abs(cosLat) < degenerateEps {
		return HorizontalPosition{}, &DomainError{
			Op:     "horizontal transform",
			Detail: fmt.Sprintf("azimuth undefined for observer at latitude %v", latDeg),
		}
	}
	if math.Abs(cosAlt) < degenerateEps {
		return HorizontalPosition{}, &DomainError{
			Op:     "horizontal transform",
			Detail: fmt.Sprintf("azimuth undefined for body at altitude %.6f", radToDeg(alt)),
		}
	}

	cosAz := (math.Sin(dec) - math.Sin(lat)*sinAlt) / (cosLat * cosAlt)
	cosAz, err = clampUnit("azimuth", cosAz)
	if err != nil {
		return HorizontalPosition{}, err
	}
	az := math.Acos(cosAz)

	// Positive hour angle: body is west of the meridian
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return HorizontalPosition{
		AltDeg: radToDeg(alt),
		AzDeg:  Normalize360(radToDeg(az)),
	}, nil
}

// HourAngleFromRA returns the hour angle in degrees [0, 360) of a body with
// right ascension raHours at local sidereal time lstHours.
func HourAngleFromRA(lstHours, raHours float64) float64 {
	return Normalize360(15 * (lstHours - raHours))
}

// SignedHourAngleHours returns LST - RA in hours, normalized to (-12, 12].
func SignedHourAngleHours(lstHours, raHours float64) float64 {
	h := Normalize24(lstHours - raHours)
	if h > 12 {
		h -= 24
	}
	return h
}

// Normalize360 wraps an angle into [0, 360).
func Normalize360(deg float64) float64 {
	r := unit.PMod(deg, 360)
	if r >= 360 {
		r = 0
	}
	return r
}

// Normalize24 wraps an hour value into [0, 24).
func Normalize24(h float64) float64 {
	r := unit.PMod(h, 24)
	if r >= 24 {
		r = 0
	}
	return r
}

// clampUnit clamps an inverse-trig argument to [-1, 1]. Clamping that changes
// the value is logged. NaN cannot be clamped and yields a *DomainError.
func clampUnit(what string, x float64) (float64, error) {
	if math.IsNaN(x) {
		return 0, &DomainError{Op: "clamp " + what, Detail: "argument is NaN"}
	}
	if x > 1 || x < -1 {
		c := math.Max(-1, math.Min(1, x))
		engineLogger().Debug("clamped %s argument %.17g to %v", what, x, c)
		return c, nil
	}
	return x, nil
}

var logger atomic.Pointer[logging.Logger]

// SetLogger sets the logger used for clamp diagnostics. It is intended to be
// called once at startup; the default discards output.
func SetLogger(l *logging.Logger) {
	if l == nil {
		l = logging.Discard()
	}
	logger.Store(l)
}

func engineLogger() *logging.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return logging.Discard()
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
