// Package ellipse fits general conics to 2D point sets, converts the conic
// coefficients to canonical ellipse parameters and samples ellipse boundaries.
//
// Two fitting methods are provided. The SVD method solves for the null space
// of the design matrix directly. The eigen method solves the generalized
// eigenproblem S⁻¹C with the ellipse constraint matrix C. Points lying exactly
// on a conic make the scatter matrix S numerically singular; its inverse is
// then dominated by the null direction, which is the conic being looked for.
package ellipse

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"phantomqa/internal/logger"
	"phantomqa/pkg/errkind"
)

// MinPoints is the smallest point count a conic can be fitted to.
const MinPoints = 6

// Conic holds the coefficients (A, B, C, D, E, F) of
//
//	A x² + B xy + C y² + D x + E y + F = 0
type Conic [6]float64

// Evaluate returns the algebraic residual of the conic at (x, y).
func (c Conic) Evaluate(x, y float64) float64 {
	return c[0]*x*x + c[1]*x*y + c[2]*y*y + c[3]*x + c[4]*y + c[5]
}

// Normalize scales the coefficients to unit Euclidean norm with the first
// non-zero coefficient positive. Conics that differ only by a scale factor
// normalize to the same vector.
func (c Conic) Normalize() Conic {
	n := floats.Norm(c[:], 2)
	if n == 0 {
		return c
	}
	sign := 1.0
	for _, v := range c {
		if v != 0 {
			if v < 0 {
				sign = -1
			}
			break
		}
	}
	var out Conic
	for i, v := range c {
		out[i] = sign * v / n
	}
	return out
}

// Method selects the fitting algorithm.
type Method int

const (
	// MethodSVD fits through the SVD null space of the design matrix
	MethodSVD Method = iota
	// MethodEigen fits through the generalized eigenproblem S⁻¹C
	MethodEigen
)

func (m Method) String() string {
	switch m {
	case MethodSVD:
		return "svd"
	case MethodEigen:
		return "eig"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod accepts "svd" and "eig" (or "eigen").
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "svd", "":
		return MethodSVD, nil
	case "eig", "eigen":
		return MethodEigen, nil
	}
	return MethodSVD, errors.Wrapf(errkind.ErrInvalidArgument, "unknown fit method %q", s)
}

// designMatrix builds the n×6 matrix with rows [x², xy, y², x, y, 1].
func designMatrix(x, y []float64) (*mat.Dense, error) {
	if len(x) != len(y) {
		return nil, errors.Wrapf(errkind.ErrInvalidArgument,
			"x has %d values but y has %d", len(x), len(y))
	}
	n := len(x)
	if n < MinPoints {
		return nil, errors.Wrapf(errkind.ErrInvalidArgument,
			"need at least %d points to fit a conic, got %d", MinPoints, n)
	}
	d := mat.NewDense(n, 6, nil)
	for i := 0; i < n; i++ {
		xi, yi := x[i], y[i]
		if math.IsNaN(xi) || math.IsNaN(yi) || math.IsInf(xi, 0) || math.IsInf(yi, 0) {
			return nil, errors.Wrapf(errkind.ErrInvalidArgument, "point %d is not finite", i)
		}
		d.SetRow(i, []float64{xi * xi, xi * yi, yi * yi, xi, yi, 1})
	}
	return d, nil
}

// FitSVD fits a conic to the points using the right singular vector belonging
// to the smallest singular value of the design matrix.
func FitSVD(x, y []float64) (Conic, error) {
	d, err := designMatrix(x, y)
	if err != nil {
		return Conic{}, err
	}

	var svd mat.SVD
	if ok := svd.Factorize(d, mat.SVDFullV); !ok {
		return Conic{}, errors.Wrap(errkind.ErrNumericalFailure, "SVD of the design matrix did not converge")
	}
	var v mat.Dense
	svd.VTo(&v)

	// Singular values come back in descending order, so the last column of V
	// (the last row of Vᵀ) spans the best null-space direction.
	var c Conic
	for i := range c {
		c[i] = v.At(i, 5)
	}
	return c, nil
}

// constraintMatrix is the ellipse constraint 4AC - B² expressed as a quadratic form.
func constraintMatrix() *mat.Dense {
	c := mat.NewDense(6, 6, nil)
	c.Set(0, 2, 2)
	c.Set(2, 0, 2)
	c.Set(1, 1, -1)
	return c
}

// FitEigen fits a conic by solving the generalized eigenproblem S⁻¹C, where
// S = DᵀD is the scatter matrix of the design matrix D, and keeping the
// eigenvector of the eigenvalue with largest magnitude.
//
// An ill-conditioned S is expected and accepted. Only an exactly singular S
// is reported as errkind.ErrNumericalFailure; other degenerate point sets
// produce a conic that ParamsFromConic rejects.
func FitEigen(x, y []float64) (Conic, error) {
	r, err := fitEigen(x, y)
	return r.conic, err
}

type eigenFit struct {
	conic  Conic
	lambda complex128
	// cond is the scatter matrix condition estimate, zero when gonum did not
	// flag it as ill-conditioned
	cond float64
}

func fitEigen(x, y []float64) (eigenFit, error) {
	var r eigenFit
	d, err := designMatrix(x, y)
	if err != nil {
		return r, err
	}

	var s mat.Dense
	s.Mul(d.T(), d)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return r, errors.Wrapf(errkind.ErrNumericalFailure, "scatter matrix cannot be inverted: %v", err)
		}
		r.cond = float64(cond)
	}

	var m mat.Dense
	m.Mul(&sInv, constraintMatrix())

	var eig mat.Eigen
	if ok := eig.Factorize(&m, mat.EigenRight); !ok {
		return r, errors.Wrap(errkind.ErrNumericalFailure, "eigen decomposition did not converge")
	}
	values := eig.Values(nil)
	var vectors mat.CDense
	eig.VectorsTo(&vectors)

	best := 0
	for i, v := range values {
		if cmplx.Abs(v) > cmplx.Abs(values[best]) {
			best = i
		}
	}

	for i := range r.conic {
		r.conic[i] = real(vectors.At(i, best))
	}
	r.lambda = values[best]
	return r, nil
}

// Fitter runs one of the fitting methods and reports what it did.
type Fitter struct {
	Method Method
	Log    logger.ILogger
}

// Fit fits conic coefficients with the configured method.
func (f Fitter) Fit(x, y []float64) (Conic, error) {
	log := logger.OrNull(f.Log)

	switch f.Method {
	case MethodSVD:
		c, err := FitSVD(x, y)
		if err != nil {
			return c, err
		}
		log.Debugf("svd conic fit to %d points: %v", len(x), c)
		return c, nil
	case MethodEigen:
		r, err := fitEigen(x, y)
		if err != nil {
			return r.conic, err
		}
		if r.cond != 0 {
			log.Debugf("eig conic fit: scatter matrix condition %.3g", r.cond)
		}
		if imag(r.lambda) != 0 {
			log.Debugf("eig conic fit selected complex eigenvalue %v, imaginary parts dropped", r.lambda)
		}
		log.Debugf("eig conic fit to %d points: %v", len(x), r.conic)
		return r.conic, nil
	}
	return Conic{}, errors.Wrapf(errkind.ErrInvalidArgument, "unknown fit method %v", f.Method)
}

// FitParams fits the points and converts the result to ellipse parameters.
func (f Fitter) FitParams(x, y []float64) (Params, error) {
	c, err := f.Fit(x, y)
	if err != nil {
		return Params{}, err
	}
	return ParamsFromConic(c)
}

// FitParams fits an ellipse to the points with the given method and returns
// its canonical parameters.
func FitParams(x, y []float64, method Method) (Params, error) {
	return Fitter{Method: method}.FitParams(x, y)
}
