package airfoil

import (
	"slices"
	"sort"
)

// sampled holds a normalized point cloud split into two x-ascending runs.
type sampled struct {
	label  string
	points []Point
	upper  []Point
	lower  []Point
	split  int
	closed bool
}

func (s *sampled) Label() string { return s.label }
func (s *sampled) ClosedTrailingEdge() bool { return s.closed }

// Points returns a copy of the normalized points in file order.
func (s *sampled) Points() []Point { return slices.Clone(s.points) }

// SplitIndex is the index of the first point of the second run in file order.
func (s *sampled) SplitIndex() int { return s.split }

// Surface looks xc up on the requested run. The returned x is xc itself.
func (s *sampled) Surface(xc float64, side Side) (float64, float64) {
	if side == Upper {
		return xc, lookup(s.upper, s.lower, xc)
	}
	return xc, lookup(s.lower, s.upper, xc)
}

// Selig sections follow one path: trailing edge, lower surface, leading edge,
// upper surface, trailing edge. SplitIndex is the leading-edge point.
type Selig struct{ sampled }

func (*Selig) Dialect() Dialect { return DialectSelig }
func (*Selig) sealed() {}

// Lednicer sections hold the upper run then the lower run, both starting at the
// leading edge. SplitIndex is the first point of the lower run.
type Lednicer struct{ sampled }

func (*Lednicer) Dialect() Dialect { return DialectLednicer }
func (*Lednicer) sealed() {}

func newSelig(label string, pts []Point, le int, closed bool) *Selig {
	lower := slices.Clone(pts[:le+1])
	slices.Reverse(lower)
	return &Selig{sampled{
		label:  label,
		points: pts,
		upper:  ascending(pts[le:]),
		lower:  ascending(lower),
		split:  le,
		closed: closed,
	}}
}

func newLednicer(label string, pts []Point, split int, closed bool) *Lednicer {
	return &Lednicer{sampled{
		label:  label,
		points: pts,
		upper:  ascending(pts[:split]),
		lower:  ascending(pts[split:]),
		split:  split,
		closed: closed,
	}}
}

func ascending(run []Point) []Point {
	out := slices.Clone(run)
	sort.SliceStable(out, func(i, j int) bool { return out[i].X < out[j].X })
	return out
}

// lookup returns y on run at xc. Positions outside the run are interpolated
// against the nearest endpoint of the opposite run, which covers runs that stop
// short of the leading or trailing edge.
func lookup(run, opposite []Point, xc float64) float64 {
	i := sort.Search(len(run), func(k int) bool { return run[k].X >= xc })
	switch {
	case i < len(run) && run[i].X == xc:
		return run[i].Y
	case i > 0 && i < len(run):
		return lerp(run[i-1], run[i], xc)
	case i == 0:
		return lerp(opposite[0], run[0], xc)
	default:
		return lerp(run[len(run)-1], opposite[len(opposite)-1], xc)
	}
}

// lerp interpolates between a and b, clamped to the segment.
func lerp(a, b Point, x float64) float64 {
	dx := b.X - a.X
	if dx == 0 {
		return a.Y
	}
	t := min(max((x-a.X)/dx, 0), 1)
	return a.Y + t*(b.Y-a.Y)
}
