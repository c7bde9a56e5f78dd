package wing

const areaEpsilon = 1.1920929e-07

// SurfaceArea is the planform area of the full (two-sided) wing in square Units.
func (pl *Planform) SurfaceArea() float64 {
	s := pl.semiSpan
	return 2*pl.rootChord*s + s*(s*pl.tanTrailing-s*pl.tanLeading)
}

// AspectRatio is span squared over area, or 0 for a vanishing area.
func (pl *Planform) AspectRatio() float64 {
	area := pl.SurfaceArea()
	if area <= areaEpsilon {
		return 0
	}
	b := 2 * pl.semiSpan
	return b * b / area
}

// TipOverlap reports whether the trailing edge reaches the leading edge at or before the tip.
func (pl *Planform) TipOverlap() bool {
	return TipOverlap(pl.semiSpan, pl.rootChord, pl.sweepLeading, pl.sweepTrailing)
}

// TipChord is the local chord at the tip; zero or negative means overlap.
func (pl *Planform) TipChord() float64 {
	return pl.LocalChord(pl.semiSpan)
}

// TipOverlap evaluates the overlap condition on raw inputs.
func TipOverlap(semiSpan, rootChord, sweepLeading, sweepTrailing float64) bool {
	return rootChord+semiSpan*edgeTan(sweepTrailing) <= semiSpan*edgeTan(sweepLeading)
}
