package astro

import (
	"fmt"
	"math"
)

// Point is a position on an instrument face in the instrument's length unit
// (metres). +y points north (toward the noon line) and +x east.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Radius returns the distance from the dial centre.
func (p Point) Radius() float64 {
	return math.Hypot(p.X, p.Y)
}

// ProjectionMode names how an instrument lays positions onto its face.
type ProjectionMode string

const (
	// ProjectionLinear maps hour angle to a line from the centre (sundials).
	ProjectionLinear ProjectionMode = "linear"
	// ProjectionPolar maps altitude to radius and azimuth to angle.
	ProjectionPolar ProjectionMode = "polar"
	// ProjectionBearing maps azimuth to a compass bearing on a fixed ring.
	ProjectionBearing ProjectionMode = "bearing"
)

// HourLineAngle returns the angle of a sundial hour line from the noon line,
// in degrees: atan(sin(lat) tan(H)). At H = ±90 (mod 180) the tangent is
// unbounded and the line lies at ±90.
func HourLineAngle(haDeg, latDeg float64) float64 {
	h := degToRad(haDeg)
	if math.Abs(math.Cos(h)) < degenerateEps {
		if math.Sin(h) > 0 {
			return 90
		}
		return -90
	}
	return radToDeg(math.Atan(math.Sin(degToRad(latDeg)) * math.Tan(h)))
}

// LinePoint returns the end of a line of length r at thetaDeg from the +y
// axis, measured toward +x.
func LinePoint(thetaDeg, r float64) Point {
	t := degToRad(thetaDeg)
	return Point{X: r * math.Sin(t), Y: r * math.Cos(t)}
}

// ProjectLinear returns the end point of the hour line for hour angle haDeg
// on a horizontal dial of the given radius.
func ProjectLinear(haDeg, latDeg, radius float64) Point {
	return LinePoint(HourLineAngle(haDeg, latDeg), radius)
}

// ProjectPolar maps an altitude and azimuth onto a dial with the zenith at
// the centre and the horizon at radius. Azimuth 0 (north) lies on +y and
// azimuth 90 (east) on +x.
func ProjectPolar(altDeg, azDeg, radius float64) Point {
	r := radius * (90 - altDeg) / 90
	theta := degToRad(90 - azDeg)
	return Point{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// InversePolar recovers altitude and azimuth from a dial point produced by
// ProjectPolar. At the centre the azimuth is undefined and reported as 0.
func InversePolar(p Point, radius float64) (HorizontalPosition, error) {
	if radius <= 0 || math.IsNaN(radius) {
		return HorizontalPosition{}, &ValidationError{Field: "radius", Message: fmt.Sprintf("%v must be positive", radius)}
	}
	r := p.Radius()
	alt := 90 - 90*r/radius
	if r == 0 {
		return HorizontalPosition{AltDeg: alt}, nil
	}
	az := Normalize360(90 - radToDeg(math.Atan2(p.Y, p.X)))
	return HorizontalPosition{AltDeg: alt, AzDeg: az}, nil
}

// ProjectBearing places a compass bearing on a ring of radius r.
func ProjectBearing(azDeg, r float64) Point {
	return LinePoint(azDeg, r)
}

// AnglePoint returns the point at mathematical angle angleDeg (counter-
// clockwise from +x) and distance r.
func AnglePoint(angleDeg, r float64) Point {
	t := degToRad(angleDeg)
	return Point{X: r * math.Cos(t), Y: r * math.Sin(t)}
}

// DeclinationRadius is the dial radius of a declination circle on a polar
// dial centred on the celestial pole.
func DeclinationRadius(decDeg, radius float64) float64 {
	return radius * (90 - decDeg) / 90
}
