package astro

import (
	"errors"
	"math"
	"testing"
)

func TestHorizontalFromHourAngle(t *testing.T) {
	tests := []struct {
		name    string
		ha, dec float64
		lat     float64
		wantAlt float64
		wantAz  float64
		tol     float64
	}{
		{"meridian transit of equator at 45N", 0, 0, 45, 45, 180, 1e-6},
		{"equator six hours west", 90, 0, 45, 0, 270, 1e-6},
		{"equator six hours east", -90, 0, 45, 0, 90, 1e-6},
		{"celestial pole at 45N", 0, 90 - 1e-7, 45, 45, 0, 1e-4},
		{"below horizon at lower culmination", 180, 0, 45, -45, 0, 1e-6},
		{"sun at 14:30 from Delhi in January", 30.051706969941428, -21.26951, 28.6139, 32.3016, 213.512, 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HorizontalFromHourAngle(tt.ha, tt.dec, tt.lat)
			if err != nil {
				t.Fatalf("HorizontalFromHourAngle() error = %v", err)
			}
			if math.Abs(got.AltDeg-tt.wantAlt) > tt.tol {
				t.Errorf("AltDeg = %v, want %v", got.AltDeg, tt.wantAlt)
			}
			dAz := math.Abs(got.AzDeg - tt.wantAz)
			if dAz > 180 {
				dAz = 360 - dAz
			}
			if dAz > tt.tol {
				t.Errorf("AzDeg = %v, want %v", got.AzDeg, tt.wantAz)
			}
		})
	}
}

func TestHorizontalFromHourAngle_Degenerate(t *testing.T) {
	tests := []struct {
		name         string
		ha, dec, lat float64
	}{
		{"observer at north pole", 30, 20, 90},
		{"observer at south pole", 30, 20, -90},
		{"body at zenith", 0, 0, 0},
		{"body at nadir", 180, 0, 0},
		{"NaN declination", 0, math.NaN(), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HorizontalFromHourAngle(tt.ha, tt.dec, tt.lat)
			if !errors.Is(err, ErrDomain) {
				t.Errorf("HorizontalFromHourAngle() error = %v, want domain error", err)
			}
			var de *DomainError
			if !errors.As(err, &de) {
				t.Errorf("error %T is not *DomainError", err)
			}
		})
	}
}

func TestHorizontalFromHourAngle_Grid(t *testing.T) {
	for lat := -89.0; lat <= 89; lat += 7 {
		for dec := -89.0; dec <= 89; dec += 7 {
			for ha := 0.0; ha < 360; ha += 15 {
				got, err := HorizontalFromHourAngle(ha, dec, lat)
				if err != nil {
					if !errors.Is(err, ErrDomain) {
						t.Fatalf("(ha=%v dec=%v lat=%v) unexpected error %v", ha, dec, lat, err)
					}
					continue
				}
				if math.IsNaN(got.AltDeg) || math.IsNaN(got.AzDeg) {
					t.Fatalf("(ha=%v dec=%v lat=%v) NaN result %+v", ha, dec, lat, got)
				}
				if got.AltDeg < -90 || got.AltDeg > 90 {
					t.Errorf("(ha=%v dec=%v lat=%v) AltDeg = %v out of range", ha, dec, lat, got.AltDeg)
				}
				if got.AzDeg < 0 || got.AzDeg >= 360 {
					t.Errorf("(ha=%v dec=%v lat=%v) AzDeg = %v out of range", ha, dec, lat, got.AzDeg)
				}
			}
		}
	}
}

func TestHorizontalFromHourAngle_MeridianSymmetry(t *testing.T) {
	// Mirror hour angles give equal altitude and azimuths reflected about
	// the meridian.
	for _, lat := range []float64{-60, -20, 10, 28.6139, 51.5} {
		for _, dec := range []float64{-40, -10, 0, 15, 60} {
			for _, ha := range []float64{10, 45, 100, 150} {
				east, errE := HorizontalFromHourAngle(-ha, dec, lat)
				west, errW := HorizontalFromHourAngle(ha, dec, lat)
				if errE != nil || errW != nil {
					t.Fatalf("unexpected errors %v, %v", errE, errW)
				}
				if math.Abs(east.AltDeg-west.AltDeg) > 1e-9 {
					t.Errorf("lat=%v dec=%v ha=±%v: alt %v != %v", lat, dec, ha, east.AltDeg, west.AltDeg)
				}
				if sum := east.AzDeg + west.AzDeg; math.Abs(sum-360) > 1e-6 {
					t.Errorf("lat=%v dec=%v ha=±%v: az %v + %v = %v, want 360", lat, dec, ha, east.AzDeg, west.AzDeg, sum)
				}
			}
		}
	}
}

func TestHourAngleFromRA(t *testing.T) {
	tests := []struct {
		lst, ra float64
		want    float64
	}{
		{5, 5, 0},
		{6, 5, 15},
		{1, 23, 30},
		{23, 1, 330},
	}
	for _, tt := range tests {
		got := HourAngleFromRA(tt.lst, tt.ra)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("HourAngleFromRA(%v, %v) = %v, want %v", tt.lst, tt.ra, got, tt.want)
		}
	}
}

func TestSignedHourAngleHours(t *testing.T) {
	tests := []struct {
		lst, ra float64
		want    float64
	}{
		{1, 23, 2},
		{23, 1, -2},
		{12, 0, 12},
		{0, 12, 12},
		{5.856299, 2.530, 3.326299},
	}
	for _, tt := range tests {
		got := SignedHourAngleHours(tt.lst, tt.ra)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("SignedHourAngleHours(%v, %v) = %v, want %v", tt.lst, tt.ra, got, tt.want)
		}
		if got <= -12 || got > 12 {
			t.Errorf("SignedHourAngleHours(%v, %v) = %v outside (-12, 12]", tt.lst, tt.ra, got)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want360, want24 float64
	}{
		{0, 0, 0},
		{-30, 330, 18},
		{720, 0, 0},
		{360, 0, 0},
		{25, 25, 1},
		{-1e-15, 0, 0},
	}
	for _, tt := range tests {
		if got := Normalize360(tt.in); math.Abs(got-tt.want360) > 1e-9 || got >= 360 || got < 0 {
			t.Errorf("Normalize360(%v) = %v, want %v", tt.in, got, tt.want360)
		}
		if got := Normalize24(tt.in); math.Abs(got-tt.want24) > 1e-9 || got >= 24 || got < 0 {
			t.Errorf("Normalize24(%v) = %v, want %v", tt.in, got, tt.want24)
		}
	}
}

func TestClampUnit(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{1.0000000001, 1},
		{-1.5, -1},
		{-1, -1},
	}
	for _, tt := range tests {
		got, err := clampUnit("test", tt.in)
		if err != nil {
			t.Fatalf("clampUnit(%v) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("clampUnit(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := clampUnit("test", math.NaN()); !errors.Is(err, ErrDomain) {
		t.Errorf("clampUnit(NaN) error = %v, want domain error", err)
	}
}

func TestObserverValidate(t *testing.T) {
	tests := []struct {
		name      string
		obs       Observer
		wantField string
	}{
		{"Delhi", Observer{LatDeg: 28.6139, LonDeg: 77.2090}, ""},
		{"north pole", Observer{LatDeg: 90, LonDeg: 0}, ""},
		{"antimeridian", Observer{LatDeg: 0, LonDeg: -180}, ""},
		{"latitude too high", Observer{LatDeg: 91, LonDeg: 0}, "latitude"},
		{"latitude NaN", Observer{LatDeg: math.NaN(), LonDeg: 0}, "latitude"},
		{"longitude too low", Observer{LatDeg: 0, LonDeg: -181}, "longitude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.obs.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error = %v, want validation error", err)
			}
			if got := FieldOf(err); got != tt.wantField {
				t.Errorf("FieldOf() = %q, want %q", got, tt.wantField)
			}
		})
	}
}
