package astro

import (
	"fmt"
	"math"
)

// StandardMeridianIST is the reference meridian of Indian Standard Time in
// degrees east. Callers pass a meridian explicitly; this is the default.
const StandardMeridianIST = 82.5

// SolarPosition is the Sun's apparent place for one observer and instant.
type SolarPosition struct {
	AltDeg         float64 `json:"altitude_deg"`
	AzDeg          float64 `json:"azimuth_deg"`
	DecDeg         float64 `json:"declination_deg"`
	HourAngleDeg   float64 `json:"hour_angle_deg"`
	EoTMinutes     float64 `json:"equation_of_time_min"`
	SolarTimeHours float64 `json:"solar_time_hours"`
}

// AboveHorizon reports whether the Sun is strictly above the horizon.
func (s SolarPosition) AboveHorizon() bool {
	return s.AltDeg > 0
}

// EquationOfTime returns apparent minus mean solar time in minutes for a day
// of year (Spencer's Fourier series).
func EquationOfTime(doy int) float64 {
	b := 2 * math.Pi * float64(doy-1) / 365
	return 229.18 * (0.000075 +
		0.001868*math.Cos(b) - 0.032077*math.Sin(b) -
		0.014615*math.Cos(2*b) - 0.040849*math.Sin(2*b))
}

// SolarDeclination returns the Sun's declination in degrees (Cooper).
func SolarDeclination(doy int) float64 {
	return 23.45 * math.Sin(degToRad(360*float64(284+doy)/365))
}

// SolarEclipticLongitude returns the Sun's mean ecliptic longitude in degrees
// [0, 360).
func SolarEclipticLongitude(doy int) float64 {
	return Normalize360(280.460 + 0.9856474*float64(doy))
}

// TrueSolarTime converts a standard clock hour to apparent solar time in
// hours, using the longitude offset from the zone meridian and the equation
// of time. The result is not wrapped.
func TrueSolarTime(clockHour, lonDeg, eotMinutes, meridianDeg float64) float64 {
	return clockHour + (4*(lonDeg-meridianDeg)+eotMinutes)/60
}

// SolarHourAngle returns the Sun's hour angle in degrees, negative before
// apparent noon.
func SolarHourAngle(clockHour, lonDeg, eotMinutes, meridianDeg float64) float64 {
	return 15 * (TrueSolarTime(clockHour, lonDeg, eotMinutes, meridianDeg) - 12)
}

// LocalSolarNoon returns the standard clock hour at which the Sun transits
// the local meridian.
func LocalSolarNoon(doy int, lonDeg, meridianDeg float64) float64 {
	return 12 - (4*(lonDeg-meridianDeg)+EquationOfTime(doy))/60
}

// ComputeSolarPosition returns the Sun's position for an observer using the
// IST meridian.
func ComputeSolarPosition(obs Observer, inst Instant) (SolarPosition, error) {
	return ComputeSolarPositionAt(obs, inst, StandardMeridianIST)
}

// ComputeSolarPositionAt is ComputeSolarPosition with an explicit zone
// meridian. The instant's clock is read as standard time of that zone.
func ComputeSolarPositionAt(obs Observer, inst Instant, meridianDeg float64) (SolarPosition, error) {
	if err := obs.Validate(); err != nil {
		return SolarPosition{}, err
	}

	doy := inst.DayOfYear()
	eot := EquationOfTime(doy)
	dec := SolarDeclination(doy)
	solarTime := TrueSolarTime(inst.FractionalHour(), obs.LonDeg, eot, meridianDeg)
	ha := SolarHourAngle(inst.FractionalHour(), obs.LonDeg, eot, meridianDeg)

	pos, err := HorizontalFromHourAngle(ha, dec, obs.LatDeg)
	if err != nil {
		return SolarPosition{}, fmt.Errorf("solar position: %w", err)
	}

	return SolarPosition{
		AltDeg:         pos.AltDeg,
		AzDeg:          pos.AzDeg,
		DecDeg:         dec,
		HourAngleDeg:   ha,
		EoTMinutes:     eot,
		SolarTimeHours: solarTime,
	}, nil
}

// FormatClock formats an hour value as "HH:MM", wrapping into [0, 24) and
// truncating seconds.
func FormatClock(hours float64) string {
	total := int(Normalize24(hours) * 3600)
	h := total / 3600
	m := (total % 3600) / 60
	return fmt.Sprintf("%02d:%02d", h, m)
}
