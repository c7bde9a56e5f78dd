// Package airfoil models wing cross-sections: the analytic NACA 4-digit family and
// digitized point clouds in the Selig and Lednicer .dat dialects.
//
// Every variant answers the same question through Section.Surface: where is the
// surface point at normalized chord position xc on the upper or lower side.
package airfoil

// Side selects the upper or lower surface of a section.
type Side uint8

const (
	Upper Side = iota
	Lower
)

func (s Side) String() string {
	if s == Upper {
		return "upper"
	}
	return "lower"
}

// Dialect identifies how a section was defined.
type Dialect uint8

const (
	DialectAnalytic Dialect = iota
	DialectSelig
	DialectLednicer
)

func (d Dialect) String() string {
	switch d {
	case DialectAnalytic:
		return "analytic"
	case DialectSelig:
		return "selig"
	case DialectLednicer:
		return "lednicer"
	}
	return "unknown"
}

// Point is a chord-normalized (x, y) pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Section is the closed set {*NACA4, *Selig, *Lednicer}.
type Section interface {
	// Surface returns the chord-normalized (x, z) of the surface at xc in [0, 1].
	Surface(xc float64, side Side) (x, z float64)
	Label() string
	Dialect() Dialect
	// ClosedTrailingEdge is fixed at construction and drives the mesh topology.
	ClosedTrailingEdge() bool

	sealed()
}
