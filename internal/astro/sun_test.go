package astro

import (
	"errors"
	"math"
	"testing"
)

var delhi = Observer{LatDeg: 28.6139, LonDeg: 77.2090, Name: "New Delhi"}

func TestEquationOfTime(t *testing.T) {
	tests := []struct {
		name string
		doy  int
		want float64
		tol  float64
	}{
		{"mid January", 15, -9.0, 0.5},
		{"early February minimum", 42, -14.2, 0.6},
		{"early November maximum", 305, 16.38, 0.01},
		{"new year", 1, -2.9042, 0.001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EquationOfTime(tt.doy); math.Abs(got-tt.want) > tt.tol {
				t.Errorf("EquationOfTime(%d) = %v, want %v ± %v", tt.doy, got, tt.want, tt.tol)
			}
		})
	}
}

func TestSolarDeclination(t *testing.T) {
	tests := []struct {
		name string
		doy  int
		want float64
		tol  float64
	}{
		{"summer solstice 2024", 173, 23.44, 0.05},
		{"winter solstice", 355, -23.45, 0.01},
		{"mid January", 15, -21.2695, 0.001},
		{"spring equinox", 80, 0, 0.5},
		{"autumn equinox", 266, 0, 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SolarDeclination(tt.doy); math.Abs(got-tt.want) > tt.tol {
				t.Errorf("SolarDeclination(%d) = %v, want %v ± %v", tt.doy, got, tt.want, tt.tol)
			}
		})
	}

	for doy := 1; doy <= 366; doy++ {
		if d := SolarDeclination(doy); math.Abs(d) > 23.45+1e-9 {
			t.Fatalf("SolarDeclination(%d) = %v exceeds obliquity", doy, d)
		}
	}
}

func TestSolarEclipticLongitude(t *testing.T) {
	tests := []struct {
		doy  int
		want float64
	}{
		{1, 281.4456474},
		{80, 359.311792},
		{81, 0.2974394},
		{172, 89.9913528},
	}
	for _, tt := range tests {
		got := SolarEclipticLongitude(tt.doy)
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("SolarEclipticLongitude(%d) = %v, want %v", tt.doy, got, tt.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("SolarEclipticLongitude(%d) = %v out of range", tt.doy, got)
		}
	}
}

func TestSolarHourAngle(t *testing.T) {
	// On the zone meridian with no equation of time, noon is hour angle 0.
	if got := SolarHourAngle(12, 82.5, 0, StandardMeridianIST); got != 0 {
		t.Errorf("SolarHourAngle(noon on meridian) = %v, want 0", got)
	}
	// One degree east of the meridian is four minutes of solar time.
	if got := SolarHourAngle(12, 83.5, 0, StandardMeridianIST); math.Abs(got-1) > 1e-12 {
		t.Errorf("SolarHourAngle(1 deg east) = %v, want 1", got)
	}
	if got := SolarHourAngle(18, 82.5, 0, StandardMeridianIST); got != 90 {
		t.Errorf("SolarHourAngle(18h) = %v, want 90", got)
	}
}

func TestLocalSolarNoon(t *testing.T) {
	noon := LocalSolarNoon(15, delhi.LonDeg, StandardMeridianIST)
	if math.Abs(noon-12.496552868670571) > 1e-6 {
		t.Errorf("LocalSolarNoon() = %v, want 12.4966", noon)
	}
	// At the clock time of local noon the Sun's hour angle is zero.
	ha := SolarHourAngle(noon, delhi.LonDeg, EquationOfTime(15), StandardMeridianIST)
	if math.Abs(ha) > 1e-9 {
		t.Errorf("hour angle at local solar noon = %v, want 0", ha)
	}
}

func TestComputeSolarPosition(t *testing.T) {
	tests := []struct {
		name        string
		date, clock string
		wantAlt     float64
		wantAz      float64
		wantHA      float64
	}{
		{"Delhi January afternoon", "2024-01-15", "14:30", 32.3016, 213.5120, 30.0517},
		{"Delhi January noon", "2024-01-15", "12:00", 39.6014, 170.9797, -7.4483},
		{"Delhi solstice noon", "2024-06-21", "12:00", 82.7418, 134.0759, -5.6779},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSolarPosition(delhi, mustInstant(t, tt.date, tt.clock))
			if err != nil {
				t.Fatalf("ComputeSolarPosition() error = %v", err)
			}
			if math.Abs(got.AltDeg-tt.wantAlt) > 1e-3 {
				t.Errorf("AltDeg = %v, want %v", got.AltDeg, tt.wantAlt)
			}
			if math.Abs(got.AzDeg-tt.wantAz) > 1e-3 {
				t.Errorf("AzDeg = %v, want %v", got.AzDeg, tt.wantAz)
			}
			if math.Abs(got.HourAngleDeg-tt.wantHA) > 1e-3 {
				t.Errorf("HourAngleDeg = %v, want %v", got.HourAngleDeg, tt.wantHA)
			}
			if !got.AboveHorizon() {
				t.Errorf("AboveHorizon() = false for altitude %v", got.AltDeg)
			}
		})
	}
}

func TestComputeSolarPosition_Errors(t *testing.T) {
	inst := mustInstant(t, "2024-01-15", "12:00")

	if _, err := ComputeSolarPosition(Observer{LatDeg: 95}, inst); !errors.Is(err, ErrValidation) {
		t.Errorf("latitude 95: error = %v, want validation error", err)
	}
	if _, err := ComputeSolarPosition(Observer{LatDeg: 90, LonDeg: 10}, inst); !errors.Is(err, ErrDomain) {
		t.Errorf("north pole: error = %v, want domain error", err)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{11.503447131329429, "11:30"},
		{12, "12:00"},
		{0, "00:00"},
		{23.9999, "23:59"},
		{-0.5, "23:30"},
		{25.25, "01:15"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.hours); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}
