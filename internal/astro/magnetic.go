package astro

// Bounds of the regional fit used for the Indian subcontinent.
const (
	regionalLatMin = 6.0
	regionalLatMax = 38.0
	regionalLonMin = 68.0
	regionalLonMax = 98.0
)

// MagneticDeclination returns a coarse estimate of magnetic declination in
// degrees (east positive). It is a linear fit, not a geomagnetic field model,
// and is good to a few degrees at best.
func MagneticDeclination(obs Observer) (float64, error) {
	if err := obs.Validate(); err != nil {
		return 0, err
	}
	lat, lon := obs.LatDeg, obs.LonDeg
	if InRegionalBand(lat, lon) {
		return -1.2 + 0.03*(lat-20) - 0.01*(lon-77), nil
	}
	return -11.5 + 0.4*lat - 0.02*lon, nil
}

// InRegionalBand reports whether the regional fit applies at a location.
func InRegionalBand(latDeg, lonDeg float64) bool {
	return latDeg >= regionalLatMin && latDeg <= regionalLatMax &&
		lonDeg >= regionalLonMin && lonDeg <= regionalLonMax
}
