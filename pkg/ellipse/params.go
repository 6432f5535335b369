package ellipse

import (
	"math"

	"github.com/pkg/errors"

	"phantomqa/pkg/errkind"
)

const (
	// discTolerance is the relative size, against the quadratic coefficients,
	// below which B² - 4AC counts as zero.
	discTolerance = 1e-10

	// radicandTolerance is the relative size below which a negative axis
	// radicand is treated as rounding noise and clamped to zero.
	radicandTolerance = 1e-12
)

// Params are the canonical parameters of an ellipse.
type Params struct {
	// A is the semi-axis from the + root of the closed form (the major axis)
	A float64
	// B is the semi-axis from the - root of the closed form (the minor axis)
	B float64
	// X0, Y0 is the center
	X0, Y0 float64
	// Theta is the rotation of the A axis in radians, in (-π/2, π/2]
	Theta float64
	// Ecc is the eccentricity sqrt(1 - B²/A²)
	Ecc float64
	// Conic holds the coefficients the parameters were extracted from
	Conic Conic
}

// Area returns πab.
func (p Params) Area() float64 {
	return math.Pi * p.A * p.B
}

// Sample returns n points on the boundary of the ellipse.
func (p Params) Sample(n int) ([]float64, []float64, error) {
	return Sample(p.A, p.B, p.Theta, p.X0, p.Y0, n)
}

// canonicalSign returns the coefficients scaled by ±1 so that A + C >= 0.
//
// Conic coefficients are only defined up to a scale factor, and both fitting
// methods return vectors of arbitrary sign. Negating every coefficient swaps
// which of the two closed-form roots is the larger one and shifts theta by
// π/2, so the sign is fixed before the closed form is applied.
func (c Conic) canonicalSign() Conic {
	if c[0]+c[2] >= 0 {
		return c
	}
	var out Conic
	for i, v := range c {
		out[i] = -v
	}
	return out
}

// ParamsFromConic converts conic coefficients to canonical ellipse parameters.
//
// The coefficients are first brought to the sign convention A + C >= 0, then
// the closed form is applied with its roots taken in [+, -] order:
//
//	num   = 2(AE² + CD² - BDE + (B² - 4AC)F)
//	a, b  = -sqrt(num((A+C) ± sqrt((A-C)² + B²))) / (B² - 4AC)
//	x0    = (2CD - BE) / (B² - 4AC)
//	y0    = (2AE - BD) / (B² - 4AC)
//	theta = atan2(-B, C-A) / 2
//	ecc   = sqrt(1 - b²/a²)
//
// errkind.ErrDegenerateConic is returned when the conic is not a real,
// non-degenerate ellipse.
func ParamsFromConic(c Conic) (Params, error) {
	p, err := extract(c.canonicalSign())
	if err != nil {
		return Params{}, err
	}
	p.Conic = c
	return p, nil
}

// extract applies the closed form to the coefficients exactly as given.
func extract(c Conic) (Params, error) {
	A, B, C, D, E, F := c[0], c[1], c[2], c[3], c[4], c[5]

	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Params{}, errors.Wrapf(errkind.ErrDegenerateConic, "non-finite coefficients %v", c)
		}
	}

	disc := B*B - 4*A*C
	quad := A*A + B*B + C*C
	if math.Abs(disc) <= discTolerance*quad {
		return Params{}, errors.Wrapf(errkind.ErrDegenerateConic, "B²-4AC = %g: conic is parabolic", disc)
	}
	if disc > 0 {
		return Params{}, errors.Wrapf(errkind.ErrDegenerateConic, "B²-4AC = %g: conic is hyperbolic", disc)
	}

	num := 2 * (A*E*E + C*D*D - B*D*E + disc*F)
	q := math.Sqrt((A-C)*(A-C) + B*B)

	axis := func(branch float64) (float64, error) {
		rad := num * ((A + C) + branch*q)
		if rad < 0 {
			if -rad > radicandTolerance*math.Abs(num)*(math.Abs(A+C)+q) {
				return 0, errors.Wrapf(errkind.ErrDegenerateConic, "axis radicand %g is negative: conic has no real points", rad)
			}
			rad = 0
		}
		v := -math.Sqrt(rad) / disc
		if !(v > 0) || math.IsInf(v, 0) {
			return 0, errors.Wrapf(errkind.ErrDegenerateConic, "semi-axis %g is not positive", v)
		}
		return v, nil
	}

	a, err := axis(1)
	if err != nil {
		return Params{}, err
	}
	b, err := axis(-1)
	if err != nil {
		return Params{}, err
	}
	if b > a {
		// The roots came out inverted; ecc would be NaN.
		return Params{}, errors.Wrapf(errkind.ErrDegenerateConic,
			"minor root %g exceeds major root %g (coefficient sign inverted)", b, a)
	}

	return Params{
		A:     a,
		B:     b,
		X0:    (2*C*D - B*E) / disc,
		Y0:    (2*A*E - B*D) / disc,
		Theta: 0.5 * math.Atan2(-B, C-A),
		Ecc:   math.Sqrt(1 - b*b/(a*a)),
		Conic: c,
	}, nil
}
