package astro

import (
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

const (
	// DateLayout is the accepted calendar date format.
	DateLayout = "2006-01-02"
	// ClockLayout is the accepted 24-hour clock format.
	ClockLayout = "15:04"

	daysPerCentury = 36525.0
)

// Instant is a parsed calendar date with an optional UTC clock time.
type Instant struct {
	date    time.Time // 00:00 UTC of the calendar date
	hour    float64   // fractional hour of day, [0, 24)
	hasTime bool
}

// ParseInstant parses a "YYYY-MM-DD" date and an optional "HH:MM" clock time.
// An empty clock string means no time was given.
func ParseInstant(date, clock string) (Instant, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	d, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return Instant{}, &FormatError{Field: "date", Value: date, Err: err}
	}
	inst := Instant{date: d}
	if clock == "" {
		return inst, nil
	}

	c, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return Instant{}, &FormatError{Field: "time", Value: clock, Err: err}
	}
	inst.hour = float64(c.Hour()) + float64(c.Minute())/60
	inst.hasTime = true
	return inst, nil
}

// Date returns 00:00 UTC of the instant's calendar date.
func (i Instant) Date() time.Time { return i.date }

// HasTime reports whether a clock time was supplied.
func (i Instant) HasTime() bool { return i.hasTime }

// FractionalHour returns the hour of day in [0, 24); 0 when no time was given.
func (i Instant) FractionalHour() float64 { return i.hour }

// Time returns the instant as a UTC time value.
func (i Instant) Time() time.Time {
	return i.date.Add(time.Duration(i.hour * float64(time.Hour)))
}

// DayOfYear returns the day of year, 1..366.
func (i Instant) DayOfYear() int { return i.date.YearDay() }

// DateString returns the date in DateLayout.
func (i Instant) DateString() string { return i.date.Format(DateLayout) }

// ClockString returns the clock in ClockLayout, or "" when no time was given.
func (i Instant) ClockString() string {
	if !i.hasTime {
		return ""
	}
	return i.Time().Format(ClockLayout)
}

// DaysSinceJ2000 returns the signed days from 2000-01-01T12:00:00 UTC.
func (i Instant) DaysSinceJ2000() float64 {
	return julian.TimeToJD(i.Time()) - base.J2000
}

// CenturiesSinceJ2000 returns DaysSinceJ2000 / 36525.
func (i Instant) CenturiesSinceJ2000() float64 {
	return i.DaysSinceJ2000() / daysPerCentury
}

// SiderealTime holds Greenwich and local mean sidereal time in hours.
type SiderealTime struct {
	GMSTHours float64 `json:"gmst_hours"`
	LSTHours  float64 `json:"lst_hours"`
}

// GMST returns Greenwich Mean Sidereal Time in hours [0, 24).
func GMST(i Instant) float64 {
	gmst0 := Normalize24(18.697374558 + 24.06570982441908*i.DaysSinceJ2000())
	return Normalize24(gmst0 + 1.00273790935*i.hour)
}

// LST returns Local Sidereal Time in hours [0, 24) at east longitude lonDeg.
func LST(i Instant, lonDeg float64) float64 {
	return Normalize24(GMST(i) + lonDeg/15)
}

// ComputeSiderealTime returns GMST and LST for an observer and instant.
func ComputeSiderealTime(obs Observer, i Instant) (SiderealTime, error) {
	if err := obs.Validate(); err != nil {
		return SiderealTime{}, err
	}
	gmst := GMST(i)
	return SiderealTime{
		GMSTHours: gmst,
		LSTHours:  Normalize24(gmst + obs.LonDeg/15),
	}, nil
}
