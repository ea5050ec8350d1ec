package astro

import (
	"math"
	"testing"
)

func TestHourLineAngle(t *testing.T) {
	want := []float64{-90, -60.7728, -39.6753, -25.59, -15.4559, -7.3124, 0, 7.3124, 15.4559, 25.59, 39.6753, 60.7728, 90}
	for i, tHours := 0, -6; tHours <= 6; i, tHours = i+1, tHours+1 {
		got := HourLineAngle(15*float64(tHours), delhi.LatDeg)
		if math.Abs(got-want[i]) > 1e-3 {
			t.Errorf("HourLineAngle(t=%d) = %v, want %v", tHours, got, want[i])
		}
	}
}

func TestHourLineAngle_Singular(t *testing.T) {
	tests := []struct {
		ha, want float64
	}{
		{90, 90},
		{-90, -90},
		{270, -90},
		{-270, 90},
	}
	for _, tt := range tests {
		for _, lat := range []float64{0, 28.6139, -45} {
			if got := HourLineAngle(tt.ha, lat); got != tt.want {
				t.Errorf("HourLineAngle(%v, %v) = %v, want %v", tt.ha, lat, got, tt.want)
			}
		}
	}
}

func TestHourLineAngle_Equator(t *testing.T) {
	// On the equator every hour line except the singular ones lies on noon.
	for _, ha := range []float64{-75, -30, 0, 45, 80} {
		if got := HourLineAngle(ha, 0); math.Abs(got) > 1e-12 {
			t.Errorf("HourLineAngle(%v, 0) = %v, want 0", ha, got)
		}
	}
}

func TestProjectLinear(t *testing.T) {
	const radius = 3.0
	noon := ProjectLinear(0, delhi.LatDeg, radius)
	if math.Abs(noon.X) > 1e-12 || math.Abs(noon.Y-radius) > 1e-12 {
		t.Errorf("noon line end = %+v, want (0, %v)", noon, radius)
	}

	six := ProjectLinear(90, delhi.LatDeg, radius)
	if math.Abs(six.X-radius) > 1e-12 || math.Abs(six.Y) > 1e-12 {
		t.Errorf("18:00 line end = %+v, want (%v, 0)", six, radius)
	}

	for ha := -90.0; ha <= 90; ha += 7.5 {
		p := ProjectLinear(ha, delhi.LatDeg, radius)
		if math.Abs(p.Radius()-radius) > 1e-9 {
			t.Errorf("ProjectLinear(%v) radius = %v, want %v", ha, p.Radius(), radius)
		}
	}
}

func TestProjectPolar(t *testing.T) {
	const radius = 3.0
	tests := []struct {
		name    string
		alt, az float64
		wantX   float64
		wantY   float64
	}{
		{"zenith", 90, 123, 0, 0},
		{"north horizon", 0, 0, 0, radius},
		{"east horizon", 0, 90, radius, 0},
		{"south at 45", 45, 180, 0, -radius / 2},
		{"west at 60", 60, 270, -radius / 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectPolar(tt.alt, tt.az, radius)
			if math.Abs(got.X-tt.wantX) > 1e-9 || math.Abs(got.Y-tt.wantY) > 1e-9 {
				t.Errorf("ProjectPolar(%v, %v) = %+v, want (%v, %v)", tt.alt, tt.az, got, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPolarRoundTrip(t *testing.T) {
	const radius = 4.0
	for alt := -10.0; alt < 90; alt += 5 {
		for az := 0.0; az < 360; az += 10 {
			p := ProjectPolar(alt, az, radius)
			got, err := InversePolar(p, radius)
			if err != nil {
				t.Fatalf("InversePolar() error = %v", err)
			}
			if math.Abs(got.AltDeg-alt) > 1e-9 {
				t.Errorf("round trip alt %v -> %v", alt, got.AltDeg)
			}
			dAz := math.Abs(got.AzDeg - az)
			if dAz > 180 {
				dAz = 360 - dAz
			}
			if dAz > 1e-9 {
				t.Errorf("round trip az %v -> %v (alt %v)", az, got.AzDeg, alt)
			}
		}
	}
}

func TestInversePolar_Centre(t *testing.T) {
	got, err := InversePolar(Point{}, 2)
	if err != nil {
		t.Fatalf("InversePolar() error = %v", err)
	}
	if got.AltDeg != 90 || got.AzDeg != 0 {
		t.Errorf("InversePolar(centre) = %+v, want alt 90 az 0", got)
	}
	if _, err := InversePolar(Point{X: 1}, 0); err == nil {
		t.Error("InversePolar(radius 0) returned nil error")
	}
}

func TestProjectBearing(t *testing.T) {
	tests := []struct {
		az           float64
		wantX, wantY float64
	}{
		{0, 0, 1},
		{90, 1, 0},
		{180, 0, -1},
		{270, -1, 0},
	}
	for _, tt := range tests {
		got := ProjectBearing(tt.az, 1)
		if math.Abs(got.X-tt.wantX) > 1e-12 || math.Abs(got.Y-tt.wantY) > 1e-12 {
			t.Errorf("ProjectBearing(%v) = %+v, want (%v, %v)", tt.az, got, tt.wantX, tt.wantY)
		}
		// Bearings and horizon points of the polar projection agree.
		polar := ProjectPolar(0, tt.az, 1)
		if math.Abs(got.X-polar.X) > 1e-12 || math.Abs(got.Y-polar.Y) > 1e-12 {
			t.Errorf("ProjectBearing(%v) = %+v, ProjectPolar horizon = %+v", tt.az, got, polar)
		}
	}
}

func TestDeclinationRadius(t *testing.T) {
	for _, tt := range []struct{ dec, want float64 }{{90, 0}, {45, 2}, {0, 4}, {30, 4.0 * 60 / 90}} {
		if got := DeclinationRadius(tt.dec, 4); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("DeclinationRadius(%v) = %v, want %v", tt.dec, got, tt.want)
		}
	}
}
