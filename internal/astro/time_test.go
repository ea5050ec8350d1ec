package astro

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
)

func mustInstant(t *testing.T, date, clock string) Instant {
	t.Helper()
	inst, err := ParseInstant(date, clock)
	if err != nil {
		t.Fatalf("ParseInstant(%q, %q) error = %v", date, clock, err)
	}
	return inst
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		date, clock string
		wantDOY     int
		wantHour    float64
		wantHasTime bool
	}{
		{"2024-01-15", "", 15, 0, false},
		{"2024-01-15", "14:30", 15, 14.5, true},
		{"2024-06-21", "20:30", 173, 20.5, true},
		{"2023-06-21", "00:00", 172, 0, true},
		{"2024-12-31", "23:59", 366, 23 + 59.0/60, true},
		{" 2024-03-20 ", " 06:15 ", 80, 6.25, true},
	}
	for _, tt := range tests {
		inst, err := ParseInstant(tt.date, tt.clock)
		if err != nil {
			t.Fatalf("ParseInstant(%q, %q) error = %v", tt.date, tt.clock, err)
		}
		if inst.DayOfYear() != tt.wantDOY {
			t.Errorf("ParseInstant(%q).DayOfYear() = %d, want %d", tt.date, inst.DayOfYear(), tt.wantDOY)
		}
		if math.Abs(inst.FractionalHour()-tt.wantHour) > 1e-12 {
			t.Errorf("ParseInstant(%q, %q).FractionalHour() = %v, want %v", tt.date, tt.clock, inst.FractionalHour(), tt.wantHour)
		}
		if inst.HasTime() != tt.wantHasTime {
			t.Errorf("ParseInstant(%q, %q).HasTime() = %v, want %v", tt.date, tt.clock, inst.HasTime(), tt.wantHasTime)
		}
	}
}

func TestParseInstant_Errors(t *testing.T) {
	tests := []struct {
		name        string
		date, clock string
		wantField   string
	}{
		{"empty date", "", "", "date"},
		{"slashes", "2024/01/15", "", "date"},
		{"single digit month", "2024-1-15", "", "date"},
		{"day out of range", "2024-02-30", "", "date"},
		{"hour out of range", "2024-01-15", "25:00", "time"},
		{"garbage time", "2024-01-15", "noon", "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInstant(tt.date, tt.clock)
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("ParseInstant() error = %v, want format error", err)
			}
			if got := FieldOf(err); got != tt.wantField {
				t.Errorf("FieldOf() = %q, want %q", got, tt.wantField)
			}
		})
	}
}

func TestDaysSinceJ2000(t *testing.T) {
	tests := []struct {
		date, clock string
		want        float64
	}{
		{"2000-01-01", "12:00", 0},
		{"2000-01-02", "12:00", 1},
		{"2000-01-01", "", -0.5},
		{"1999-12-31", "12:00", -1},
		{"2024-01-15", "20:30", 8780.354166666666},
	}
	for _, tt := range tests {
		inst := mustInstant(t, tt.date, tt.clock)
		if got := inst.DaysSinceJ2000(); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("DaysSinceJ2000(%s %s) = %v, want %v", tt.date, tt.clock, got, tt.want)
		}
		if got := inst.CenturiesSinceJ2000(); math.Abs(got-tt.want/36525) > 1e-10 {
			t.Errorf("CenturiesSinceJ2000(%s %s) = %v, want %v", tt.date, tt.clock, got, tt.want/36525)
		}
	}
}

func TestGMST(t *testing.T) {
	tests := []struct {
		date, clock string
		want        float64
	}{
		{"2024-01-15", "20:30", 0.7090323286624809},
		{"2024-01-15", "", 7.596778045321116},
		{"2000-01-01", "12:00", 6.730229470200001},
	}
	for _, tt := range tests {
		got := GMST(mustInstant(t, tt.date, tt.clock))
		if math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("GMST(%s %s) = %v, want %v", tt.date, tt.clock, got, tt.want)
		}
	}
}

func TestGMST_MatchesMeeusAtMidnight(t *testing.T) {
	for _, date := range []string{"2000-01-01", "2010-07-04", "2024-01-15", "2024-06-21", "2031-11-30"} {
		inst := mustInstant(t, date, "")
		want := sidereal.Mean(julian.TimeToJD(inst.Time())).Hour()
		got := GMST(inst)
		d := math.Abs(got - Normalize24(want))
		if d > 12 {
			d = 24 - d
		}
		if d > 2e-3 {
			t.Errorf("GMST(%s) = %v, meeus mean sidereal time = %v", date, got, want)
		}
	}
}

func TestLST(t *testing.T) {
	inst := mustInstant(t, "2024-01-15", "20:30")

	if got, want := LST(inst, 0), GMST(inst); math.Abs(got-want) > 1e-12 {
		t.Errorf("LST(lon=0) = %v, want GMST %v", got, want)
	}
	if got, want := LST(inst, 77.2090), 5.856298995329148; math.Abs(got-want) > 1e-6 {
		t.Errorf("LST(Delhi) = %v, want %v", got, want)
	}

	// 15 degrees of longitude is one hour of sidereal time.
	for _, lon := range []float64{-165, -60, 0, 45, 120} {
		a, b := LST(inst, lon), LST(inst, lon+15)
		if d := Normalize24(b - a); math.Abs(d-1) > 1e-9 {
			t.Errorf("LST(%v+15) - LST(%v) = %v, want 1", lon, lon, d)
		}
	}
}

func TestGMST_Monotonic(t *testing.T) {
	// Sidereal time advances about 1.0027 (plus the day-count term) hours per
	// clock hour, so unwrapped successive minutes never go backwards.
	prev := GMST(mustInstant(t, "2024-03-20", ""))
	for m := 1; m < 24*60; m++ {
		cur := GMST(mustInstant(t, "2024-03-20", fmt.Sprintf("%02d:%02d", m/60, m%60)))
		step := Normalize24(cur - prev)
		if step <= 0 || step > 0.1 {
			t.Fatalf("minute %d: GMST step %v not a small forward step", m, step)
		}
		prev = cur
	}
}

func TestComputeSiderealTime(t *testing.T) {
	inst := mustInstant(t, "2024-01-15", "20:30")
	st, err := ComputeSiderealTime(Observer{LatDeg: 28.6139, LonDeg: 77.2090}, inst)
	if err != nil {
		t.Fatalf("ComputeSiderealTime() error = %v", err)
	}
	if math.Abs(st.GMSTHours-0.7090323286624809) > 1e-6 {
		t.Errorf("GMSTHours = %v", st.GMSTHours)
	}
	if math.Abs(st.LSTHours-5.856298995329148) > 1e-6 {
		t.Errorf("LSTHours = %v", st.LSTHours)
	}

	if _, err := ComputeSiderealTime(Observer{LatDeg: 0, LonDeg: 200}, inst); !errors.Is(err, ErrValidation) {
		t.Errorf("ComputeSiderealTime(lon=200) error = %v, want validation error", err)
	}
}

