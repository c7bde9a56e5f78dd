package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wingstl/internal/project"
	"wingstl/internal/units"
	"wingstl/internal/wing"
)

// wingFlags are the geometry flags shared by generate and props.
type wingFlags struct {
	airfoil      string
	semiSpan     float64
	rootChord    float64
	sweepLE      float64
	sweepTE      float64
	chordPoints  int
	spanStations int
	spacing      string
	openTE       bool
	units        string
	manifest     string
}

func (f *wingFlags) register(cmd *cobra.Command) {
	d := wing.DefaultParams()
	fl := cmd.Flags()
	fl.StringVarP(&f.airfoil, project.FlagAirfoil, "a", "", "NACA 4-digit code or path to a .dat airfoil file (required)")
	fl.Float64VarP(&f.semiSpan, project.FlagSemiSpan, "b", 0, "semi span length (required)")
	fl.Float64VarP(&f.rootChord, project.FlagRootChord, "c", 0, "root chord length (required)")
	fl.Float64VarP(&f.sweepLE, project.FlagSweepLE, "l", d.SweepLeading,
		fmt.Sprintf("leading edge sweep angle in degrees [%g-%g], 90 is unswept", wing.MinSweep, wing.MaxSweep))
	fl.Float64VarP(&f.sweepTE, project.FlagSweepTE, "t", d.SweepTrailing,
		fmt.Sprintf("trailing edge sweep angle in degrees [%g-%g], 90 is unswept", wing.MinSweep, wing.MaxSweep))
	fl.IntVarP(&f.chordPoints, project.FlagChordPoints, "p", d.ChordPoints,
		fmt.Sprintf("chordwise points per surface [%d-%d]", wing.MinChordPoints, wing.MaxChordPoints))
	fl.IntVarP(&f.spanStations, project.FlagSpanStations, "n", d.SpanStations,
		fmt.Sprintf("spanwise stations [%d-%d]", wing.MinStations, wing.MaxStations))
	fl.StringVar(&f.spacing, project.FlagSpacing, "cosine", "chordwise point spacing (cosine|linear)")
	fl.BoolVar(&f.openTE, project.FlagOpenTE, false, "keep the finite trailing edge thickness of the NACA formula")
	fl.StringVarP(&f.units, project.FlagUnits, "u", d.Units.String(), "units of the lengths given ("+units.Names()+")")
	fl.StringVar(&f.manifest, "manifest", "", "read defaults from this wingstl.toml instead of searching for one")
}

// params merges flags, manifest and defaults, in that order of precedence.
func (f *wingFlags) params(cmd *cobra.Command) (wing.Params, *project.Manifest, error) {
	p := wing.DefaultParams()
	changed := cmd.Flags().Changed

	if changed(project.FlagAirfoil) {
		p.Airfoil = f.airfoil
	}
	if changed(project.FlagSemiSpan) {
		p.SemiSpan = f.semiSpan
	}
	if changed(project.FlagRootChord) {
		p.RootChord = f.rootChord
	}
	if changed(project.FlagSweepLE) {
		p.SweepLeading = f.sweepLE
	}
	if changed(project.FlagSweepTE) {
		p.SweepTrailing = f.sweepTE
	}
	if changed(project.FlagChordPoints) {
		p.ChordPoints = f.chordPoints
	}
	if changed(project.FlagSpanStations) {
		p.SpanStations = f.spanStations
	}
	if changed(project.FlagSpacing) {
		cosine, err := project.ParseSpacing(f.spacing)
		if err != nil {
			return p, nil, err
		}
		p.CosineSpacing = cosine
	}
	if changed(project.FlagOpenTE) {
		p.OpenTrailingEdge = f.openTE
	}
	if changed(project.FlagUnits) {
		u, err := units.Parse(f.units)
		if err != nil {
			return p, nil, err
		}
		p.Units = u
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	m, _, err := project.Discover(f.manifest, wd)
	if err != nil {
		return p, nil, err
	}
	if err := m.ApplyTo(&p, changed); err != nil {
		return p, m, err
	}
	return p, m, nil
}
