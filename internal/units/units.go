// Package units converts planform lengths from the user's unit to meters.
package units

import (
	"fmt"
	"strings"

	"wingstl/internal/diag"
)

type Unit uint8

const (
	Meters Unit = iota
	Centimeters
	Millimeters
	Feet
	Inches
)

const (
	FeetPerMeter   = 3.28084
	InchesPerMeter = 39.3701
)

var names = [...]string{
	Meters:      "m",
	Centimeters: "cm",
	Millimeters: "mm",
	Feet:        "ft",
	Inches:      "in",
}

func (u Unit) String() string {
	if int(u) < len(names) {
		return names[u]
	}
	return "units"
}

// Parse accepts m, cm, mm, ft and in.
func Parse(s string) (Unit, error) {
	for u, name := range names {
		if s == name {
			return Unit(u), nil // #nosec G115 -- index into a five element table
		}
	}
	return 0, diag.Errorf(diag.UnitsUnknown,
		"valid options for units (flag '-u') are: 'm', 'cm', 'mm', 'ft' or 'in', got %q", s)
}

// ToMeters converts v expressed in u.
func (u Unit) ToMeters(v float64) float64 {
	switch u {
	case Centimeters:
		return v / 100
	case Millimeters:
		return v / 1000
	case Feet:
		return v / FeetPerMeter
	case Inches:
		return v / InchesPerMeter
	default:
		return v
	}
}

// MarshalText lets units round-trip through wingstl.toml and JSON reports.
func (u Unit) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Unit) UnmarshalText(b []byte) error {
	parsed, err := Parse(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Names lists accepted spellings for help text.
func Names() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", names[0], names[1], names[2], names[3], names[4])
}
