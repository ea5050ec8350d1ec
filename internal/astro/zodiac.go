package astro

import "strconv"

// ZodiacSign is a sidereal sign with its day-of-year interval. An interval
// with StartDay > EndDay wraps across the new year.
type ZodiacSign struct {
	Name     string `json:"name"`
	StartDay int    `json:"start_day"`
	EndDay   int    `json:"end_day"`
	Color    string `json:"color"`
}

// Contains reports whether the day of year falls in the sign's interval.
func (z ZodiacSign) Contains(doy int) bool {
	if z.StartDay <= z.EndDay {
		return doy >= z.StartDay && doy <= z.EndDay
	}
	return doy >= z.StartDay || doy <= z.EndDay
}

// zodiacSigns is in dial order, starting at the vernal equinox.
var zodiacSigns = [12]ZodiacSign{
	{"Mesha (Aries)", 80, 110, "#FF6B6B"},
	{"Vrishabha (Taurus)", 111, 141, "#4ECDC4"},
	{"Mithuna (Gemini)", 142, 172, "#45B7D1"},
	{"Karka (Cancer)", 173, 203, "#96CEB4"},
	{"Simha (Leo)", 204, 234, "#FFEAA7"},
	{"Kanya (Virgo)", 235, 265, "#DDA0DD"},
	{"Tula (Libra)", 266, 296, "#98D8C8"},
	{"Vrishchika (Scorpio)", 297, 327, "#F7DC6F"},
	{"Dhanus (Sagittarius)", 328, 358, "#BB8FCE"},
	{"Makara (Capricorn)", 359, 19, "#85C1E9"},
	{"Kumbha (Aquarius)", 20, 50, "#F8C471"},
	{"Meena (Pisces)", 51, 79, "#82E0AA"},
}

// SignForDay returns the sign containing the day of year. The intervals cover
// 1..366, so a *LookupError here means the table itself is broken.
func SignForDay(doy int) (ZodiacSign, error) {
	for _, z := range zodiacSigns {
		if z.Contains(doy) {
			return z, nil
		}
	}
	return ZodiacSign{}, &LookupError{Table: "zodiac", Key: strconv.Itoa(doy)}
}

// ZodiacReading is the Sun's sign and place for a calendar date.
type ZodiacReading struct {
	Sign              string  `json:"name"`
	Color             string  `json:"color"`
	DayOfYear         int     `json:"day_of_year"`
	SolarLongitudeDeg float64 `json:"solar_longitude_deg"`
	DeclinationDeg    float64 `json:"declination_deg"`
}

// ComputeZodiacSign returns the Sun's sign, mean ecliptic longitude and
// declination for the instant's date.
func ComputeZodiacSign(inst Instant) (ZodiacReading, error) {
	doy := inst.DayOfYear()
	z, err := SignForDay(doy)
	if err != nil {
		return ZodiacReading{}, err
	}
	return ZodiacReading{
		Sign:              z.Name,
		Color:             z.Color,
		DayOfYear:         doy,
		SolarLongitudeDeg: SolarEclipticLongitude(doy),
		DeclinationDeg:    SolarDeclination(doy),
	}, nil
}

// ZodiacSegment is one 30-degree sector of a zodiac dial. Angles are
// mathematical (counter-clockwise from +x), starting at -90.
type ZodiacSegment struct {
	Sign          string  `json:"sign"`
	Color         string  `json:"color"`
	StartAngleDeg float64 `json:"start_angle"`
	EndAngleDeg   float64 `json:"end_angle"`
	CenterDeg     float64 `json:"center_angle"`
}

const zodiacSegmentDeg = 30.0

// ZodiacSegments returns the twelve dial sectors in sign order.
func ZodiacSegments() []ZodiacSegment {
	out := make([]ZodiacSegment, len(zodiacSigns))
	for i, z := range zodiacSigns {
		start := float64(i)*zodiacSegmentDeg - 90
		out[i] = ZodiacSegment{
			Sign:          z.Name,
			Color:         z.Color,
			StartAngleDeg: start,
			EndAngleDeg:   start + zodiacSegmentDeg,
			CenterDeg:     start + zodiacSegmentDeg/2,
		}
	}
	return out
}
