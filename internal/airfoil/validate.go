package airfoil

import (
	"fmt"
	"math"

	"wingstl/internal/diag"
	"wingstl/internal/source"
)

// closureTolerance is chord relative: points are compared after normalization.
const closureTolerance = 1e-5

type direction int8

const (
	decreasing direction = -1
	increasing direction = 1
)

// directionSwitches walks xs from the given start direction and returns the
// indices where the direction changes. Equal neighbours never switch.
func directionSwitches(xs []Point, start direction) []int {
	var at []int
	dir := start
	for i := 1; i < len(xs); i++ {
		var cur direction
		switch {
		case xs[i].X < xs[i-1].X:
			cur = decreasing
		case xs[i].X > xs[i-1].X:
			cur = increasing
		default:
			continue
		}
		if cur != dir {
			at = append(at, i)
			dir = cur
		}
	}
	return at
}

// validateSelig requires x to decrease to a single minimum and then increase.
// It returns the leading-edge index.
func validateSelig(pts []Point, spans []source.Span) (int, error) {
	le := 0
	for i := range pts {
		if pts[i].X < pts[le].X {
			le = i
		}
	}
	sw := directionSwitches(pts, decreasing)
	switch {
	case len(sw) > 1:
		return 0, orderError(spans[sw[1]], fmt.Sprintf(
			"selig points must run trailing edge -> leading edge -> trailing edge; x changes direction again at point %d", sw[1]+1))
	case len(sw) == 0 || le == 0 || le == len(pts)-1:
		return 0, orderError(spans[len(spans)-1],
			"selig points must decrease in x to the leading edge and then increase back to the trailing edge")
	}
	return le, nil
}

// validateLednicer requires the upper run to increase in x; the lower run may
// switch direction at most once.
func validateLednicer(pts []Point, split int, spans []source.Span) error {
	if sw := directionSwitches(pts[:split], increasing); len(sw) > 0 {
		return orderError(spans[sw[0]], fmt.Sprintf(
			"lednicer upper surface must increase in x from the leading edge; point %d goes back", sw[0]+1))
	}
	if sw := directionSwitches(pts[split:], increasing); len(sw) > 1 {
		return orderError(spans[split+sw[1]], fmt.Sprintf(
			"lednicer lower surface changes x direction more than once (at point %d)", split+sw[1]+1))
	}
	return nil
}

func orderError(sp source.Span, msg string) error {
	return &diag.Error{Diag: diag.NewError(diag.GeoPointOrder, sp, msg)}
}

// normalize maps x onto [0, 1] and scales y by the same chord.
func normalize(pts []Point) bool {
	xmin, xmax := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		xmin = min(xmin, p.X)
		xmax = max(xmax, p.X)
	}
	ext := xmax - xmin
	if !(ext > 0) {
		return false
	}
	for i := range pts {
		pts[i].X = (pts[i].X - xmin) / ext
		pts[i].Y /= ext
	}
	return true
}

func coincident(a, b Point) bool {
	return math.Abs(a.X-b.X) < closureTolerance && math.Abs(a.Y-b.Y) < closureTolerance
}
