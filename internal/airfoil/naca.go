package airfoil

import (
	"fmt"
	"math"

	"wingstl/internal/diag"
)

const (
	a0       = 0.2969
	a1       = -0.126
	a2       = -0.3516
	a3       = 0.2843
	a4Open   = -0.1015
	a4Closed = -0.1036

	// epsilon matches single precision machine epsilon; below it the camber position counts as zero.
	epsilon = 1.1920929e-07
)

// Digits is a decoded NACA 4-digit designation, e.g. 2412 = {2, 4, 12}.
type Digits struct {
	MaxCamber int // percent of chord
	Position  int // tenths of chord
	Thickness int // percent of chord
}

func (d Digits) String() string {
	return fmt.Sprintf("%d%d%02d", d.MaxCamber, d.Position, d.Thickness)
}

// ParseCode decodes exactly four decimal digits.
func ParseCode(code string) (Digits, error) {
	if len(code) != 4 {
		return Digits{}, diag.Errorf(diag.NacaBadCode,
			"value for naca airfoil (flag '-a') must be an integer with exactly 4 digits, got %q", code)
	}
	var v [4]int
	for i := range 4 {
		c := code[i]
		if c < '0' || c > '9' {
			return Digits{}, diag.Errorf(diag.NacaBadCode,
				"value for naca airfoil (flag '-a') must be an integer with exactly 4 digits, got %q", code)
		}
		v[i] = int(c - '0')
	}
	return Digits{MaxCamber: v[0], Position: v[1], Thickness: v[2]*10 + v[3]}, nil
}

// NACA4 is the analytic section. M, P and T are chord fractions.
type NACA4 struct {
	M, P, T float64

	digits Digits
	closed bool
}

// NewNACA4 builds the analytic section with the given trailing-edge closure.
// Zero thickness is rejected since it produces a degenerate mesh.
func NewNACA4(d Digits, closedTE bool) (*NACA4, error) {
	if d.Thickness == 0 {
		return nil, diag.Errorf(diag.GeoZeroThickness, "zero thickness wing detected (NACA %s)", d).
			WithHint("try increasing the third or fourth digit in the value for '-a'")
	}
	return &NACA4{
		M:      float64(d.MaxCamber) / 100,
		P:      float64(d.Position) / 10,
		T:      float64(d.Thickness) / 100,
		digits: d,
		closed: closedTE,
	}, nil
}

func (n *NACA4) Label() string { return "NACA " + n.digits.String() }
func (n *NACA4) Dialect() Dialect { return DialectAnalytic }
func (n *NACA4) ClosedTrailingEdge() bool { return n.closed }
func (n *NACA4) Digits() Digits { return n.digits }
func (*NACA4) sealed() {}

// Surface offsets the camber line by the half thickness, rotated by the camber
// gradient. The gradient itself is used as the angle.
func (n *NACA4) Surface(xc float64, side Side) (float64, float64) {
	zc := Camber(xc, n.M, n.P)
	theta := Gradient(xc, n.M, n.P)
	half := Thickness(xc, n.T, n.closed)
	sin, cos := math.Sincos(theta)
	if side == Upper {
		return xc - half*sin, zc + half*cos
	}
	return xc + half*sin, zc - half*cos
}

// Camber is the mean line height at xc for maximum camber m located at p.
func Camber(xc, m, p float64) float64 {
	a := 2*p*xc - xc*xc
	if xc < p && p > epsilon {
		return m * a / (p * p)
	}
	return m * (1 - 2*p + a) / ((1 - p) * (1 - p))
}

// Gradient is dzc/dx of the mean line.
func Gradient(xc, m, p float64) float64 {
	if xc < p && p > epsilon {
		return 2 * m * (p - xc) / (p * p)
	}
	return 2 * m * (p - xc) / ((1 - p) * (1 - p))
}

// Thickness is the half thickness at xc for thickness ratio t.
func Thickness(xc, t float64, closedTE bool) float64 {
	a4 := a4Open
	if closedTE {
		a4 = a4Closed
	}
	x2 := xc * xc
	return (a0*math.Sqrt(xc) + a1*xc + a2*x2 + a3*x2*xc + a4*x2*x2) * t / 0.2
}
