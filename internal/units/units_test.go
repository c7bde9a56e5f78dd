package units

import (
	"errors"
	"math"
	"testing"

	"wingstl/internal/diag"
)

func TestParseAndConvert(t *testing.T) {
	tests := []struct {
		in   string
		unit Unit
		one  float64 // one unit in meters
	}{
		{"m", Meters, 1},
		{"cm", Centimeters, 0.01},
		{"mm", Millimeters, 0.001},
		{"ft", Feet, 1 / 3.28084},
		{"in", Inches, 1 / 39.3701},
	}
	for _, tt := range tests {
		u, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if u != tt.unit || u.String() != tt.in {
			t.Fatalf("Parse(%q) = %v", tt.in, u)
		}
		if got := u.ToMeters(1); math.Abs(got-tt.one) > 1e-12 {
			t.Fatalf("%s: ToMeters(1) = %g, want %g", tt.in, got, tt.one)
		}
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "M", "km", "inch"} {
		_, err := Parse(in)
		if !errors.Is(err, diag.ErrInputFormat) {
			t.Fatalf("Parse(%q) err = %v", in, err)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	var u Unit
	if err := u.UnmarshalText([]byte(" ft ")); err != nil || u != Feet {
		t.Fatalf("UnmarshalText: %v %v", u, err)
	}
	b, _ := u.MarshalText()
	if string(b) != "ft" {
		t.Fatalf("MarshalText = %q", b)
	}
	if Names() != "m|cm|mm|ft|in" {
		t.Fatalf("Names = %q", Names())
	}
}
