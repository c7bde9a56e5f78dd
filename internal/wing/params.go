// Package wing holds the planform: the validated, immutable description of a
// swept, tapered semi-wing, together with its derived properties.
package wing

import (
	"math"

	"wingstl/internal/diag"
	"wingstl/internal/units"
)

const (
	MinSweep       = 1.0
	MaxSweep       = 179.0
	MinChordPoints = 20
	MaxChordPoints = 200
	MinStations    = 2
	MaxStations    = 500
	MinAspectRatio = 1.0
	MaxAspectRatio = 100.0

	DefaultSweep       = 90.0
	DefaultChordPoints = 100
	DefaultStations    = 2
)

// Params is the mutable parse target filled from flags and wingstl.toml.
// Lengths are in Units; NaN marks a length that was never provided.
type Params struct {
	Airfoil          string
	SemiSpan         float64
	RootChord        float64
	SweepLeading     float64
	SweepTrailing    float64
	ChordPoints      int
	SpanStations     int
	CosineSpacing    bool
	OpenTrailingEdge bool
	Units            units.Unit
}

func DefaultParams() Params {
	return Params{
		SemiSpan:      math.NaN(),
		RootChord:     math.NaN(),
		SweepLeading:  DefaultSweep,
		SweepTrailing: DefaultSweep,
		ChordPoints:   DefaultChordPoints,
		SpanStations:  DefaultStations,
		CosineSpacing: true,
		Units:         units.Meters,
	}
}

// CheckInputs runs every check that does not depend on the combined geometry:
// required values, positivity and the sweep/point/station bounds.
func (p Params) CheckInputs() error {
	switch {
	case p.Airfoil == "":
		return missing("naca 4-digit airfoil or .dat file", "-a/--airfoil")
	case math.IsNaN(p.SemiSpan):
		return missing("semi span", "-b/--semi-span")
	case math.IsNaN(p.RootChord):
		return missing("root chord", "-c/--root-chord")
	}
	if err := positive("semi span", "-b/--semi-span", p.SemiSpan); err != nil {
		return err
	}
	if err := positive("root chord", "-c/--root-chord", p.RootChord); err != nil {
		return err
	}
	if err := sweepInRange("leading", "-l/--sweep-le", p.SweepLeading); err != nil {
		return err
	}
	if err := sweepInRange("trailing", "-t/--sweep-te", p.SweepTrailing); err != nil {
		return err
	}
	if p.ChordPoints < MinChordPoints || p.ChordPoints > MaxChordPoints {
		return diag.Errorf(diag.GeoChordPoints,
			"value for number of chordwise points (flag '-p/--chord-points') must be between %d and %d, got %d",
			MinChordPoints, MaxChordPoints, p.ChordPoints)
	}
	if p.SpanStations < MinStations || p.SpanStations > MaxStations {
		return diag.Errorf(diag.GeoStations,
			"value for number of spanwise stations (flag '-n/--span-stations') must be between %d and %d, got %d",
			MinStations, MaxStations, p.SpanStations)
	}
	return nil
}

func missing(desc, flag string) error {
	return diag.Errorf(diag.FlagMissing, "value required for %s (flag '%s')", desc, flag).
		WithHint("specify " + desc + " using the flag '" + flag + "' followed by a value, or set it in wingstl.toml")
}

func positive(desc, flag string, v float64) error {
	if v > 0 && !math.IsInf(v, 0) {
		return nil
	}
	return diag.Errorf(diag.GeoNonPositive, "nonzero positive number required for %s (flag '%s'), got %g", desc, flag, v)
}

func sweepInRange(edge, flag string, v float64) error {
	if v >= MinSweep && v <= MaxSweep {
		return nil
	}
	return diag.Errorf(diag.GeoSweepRange,
		"value for %s edge sweep angle (flag '%s') must be between %g and %g degrees, got %g",
		edge, flag, MinSweep, MaxSweep, v).
		WithHint("90 degrees is an unswept edge")
}
