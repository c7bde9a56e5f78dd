package wing

import (
	"fmt"
	"math"

	"wingstl/internal/diag"
	"wingstl/internal/units"
)

const adjustHint = "try adjusting values for '-l', '-t', '-b' or '-c'"

// Planform is a validated wing. It is only built by NewPlanform and never changes.
type Planform struct {
	airfoil       string
	semiSpan      float64
	rootChord     float64
	sweepLeading  float64
	sweepTrailing float64
	tanLeading    float64
	tanTrailing   float64
	chordPoints   int
	stations      int
	cosine        bool
	openTE        bool
	units         units.Unit
}

// NewPlanform validates p in a fixed order: required values, positivity, sweep
// bounds, chordwise points, stations, tip overlap, aspect ratio. The first failure
// is returned.
func NewPlanform(p Params) (*Planform, error) {
	if err := p.CheckInputs(); err != nil {
		return nil, err
	}
	pl := &Planform{
		airfoil:       p.Airfoil,
		semiSpan:      p.SemiSpan,
		rootChord:     p.RootChord,
		sweepLeading:  p.SweepLeading,
		sweepTrailing: p.SweepTrailing,
		tanLeading:    edgeTan(p.SweepLeading),
		tanTrailing:   edgeTan(p.SweepTrailing),
		chordPoints:   p.ChordPoints,
		stations:      p.SpanStations,
		cosine:        p.CosineSpacing,
		openTE:        p.OpenTrailingEdge,
		units:         p.Units,
	}
	if pl.TipOverlap() {
		return nil, diag.Errorf(diag.GeoTipOverlap,
			"wing tip overlap detected: trailing edge meets the leading edge before the tip (tip chord %.4g %s)",
			pl.TipChord(), pl.units).WithHint(adjustHint)
	}
	if ar := pl.AspectRatio(); ar < MinAspectRatio || ar > MaxAspectRatio {
		return nil, diag.Errorf(diag.GeoAspectRatio,
			"extreme aspect ratio detected: %s outside [%g, %g]", formatRatio(ar), MinAspectRatio, MaxAspectRatio).
			WithHint(adjustHint)
	}
	return pl, nil
}

func formatRatio(ar float64) string {
	if math.IsInf(ar, 0) || math.IsNaN(ar) {
		return fmt.Sprint(ar)
	}
	return fmt.Sprintf("%.2f", ar)
}

// edgeTan converts a sweep angle, measured from the root chord line, into the
// chordwise displacement of the edge per unit span.
func edgeTan(sweepDeg float64) float64 {
	return math.Tan((90 - sweepDeg) * math.Pi / 180)
}

func (pl *Planform) Airfoil() string { return pl.airfoil }
func (pl *Planform) SemiSpan() float64 { return pl.semiSpan }
func (pl *Planform) RootChord() float64 { return pl.rootChord }
func (pl *Planform) SweepLeading() float64 { return pl.sweepLeading }
func (pl *Planform) SweepTrailing() float64 { return pl.sweepTrailing }
func (pl *Planform) ChordPoints() int { return pl.chordPoints }
func (pl *Planform) SpanStations() int { return pl.stations }
func (pl *Planform) CosineSpacing() bool { return pl.cosine }
func (pl *Planform) OpenTrailingEdge() bool { return pl.openTE }
func (pl *Planform) Units() units.Unit { return pl.units }

// LocalChord is the chord at spanwise position y (Units).
func (pl *Planform) LocalChord(y float64) float64 {
	return pl.rootChord + y*(pl.tanTrailing-pl.tanLeading)
}

// LeadingEdgeOffset is the chordwise position of the leading edge at y.
func (pl *Planform) LeadingEdgeOffset(y float64) float64 {
	return y * pl.tanLeading
}

// Params returns a copy of the inputs the planform was built from.
func (pl *Planform) Params() Params {
	return Params{
		Airfoil:          pl.airfoil,
		SemiSpan:         pl.semiSpan,
		RootChord:        pl.rootChord,
		SweepLeading:     pl.sweepLeading,
		SweepTrailing:    pl.sweepTrailing,
		ChordPoints:      pl.chordPoints,
		SpanStations:     pl.stations,
		CosineSpacing:    pl.cosine,
		OpenTrailingEdge: pl.openTE,
		Units:            pl.units,
	}
}
