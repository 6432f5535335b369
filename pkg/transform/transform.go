// Package transform applies spatial transforms to point sets and measures how
// a transform displaces points relative to a shape center.
package transform

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"phantomqa/pkg/errkind"
)

// Transform maps a point in physical space to another point.
type Transform interface {
	Apply(p r3.Vec) (r3.Vec, error)
	Inverse() (Transform, error)
}

// Identity leaves points unchanged.
type Identity struct{}

func (Identity) Apply(p r3.Vec) (r3.Vec, error) { return p, nil }

func (Identity) Inverse() (Transform, error) { return Identity{}, nil }

func (Identity) String() string { return "identity" }

// Affine is y = M(x - c) + c + t with a 3x3 matrix M, a translation t and a
// fixed center c. It is held as a 4x4 homogeneous matrix.
type Affine struct {
	h *mat.Dense
}

// NewAffine builds an affine transform from a row-major 3x3 matrix, a
// translation and a center of rotation.
func NewAffine(matrix [9]float64, translation, center r3.Vec) *Affine {
	m := mat.NewDense(3, 3, matrix[:])
	var mc mat.VecDense
	mc.MulVec(m, mat.NewVecDense(3, []float64{center.X, center.Y, center.Z}))

	off := r3.Add(center, translation)
	h := mat.NewDense(4, 4, nil)
	h.Slice(0, 3, 0, 3).(*mat.Dense).Copy(m)
	h.Set(0, 3, off.X-mc.AtVec(0))
	h.Set(1, 3, off.Y-mc.AtVec(1))
	h.Set(2, 3, off.Z-mc.AtVec(2))
	h.Set(3, 3, 1)
	return &Affine{h: h}
}

// NewTranslation returns an affine transform that shifts every point by t.
func NewTranslation(t r3.Vec) *Affine {
	return NewAffine([9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, t, r3.Vec{})
}

// Homogeneous returns a copy of the 4x4 homogeneous matrix.
func (a *Affine) Homogeneous() *mat.Dense {
	return mat.DenseCopyOf(a.h)
}

func (a *Affine) Apply(p r3.Vec) (r3.Vec, error) {
	var out mat.VecDense
	out.MulVec(a.h, mat.NewVecDense(4, []float64{p.X, p.Y, p.Z, 1}))
	return r3.Vec{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}, nil
}

// Inverse returns the inverse transform. A singular or ill-conditioned
// matrix is reported as errkind.ErrNumericalFailure.
func (a *Affine) Inverse() (Transform, error) {
	var inv mat.Dense
	if err := inv.Inverse(a.h); err != nil {
		return nil, errors.Wrapf(errkind.ErrNumericalFailure, "affine matrix cannot be inverted: %v", err)
	}
	return &Affine{h: &inv}, nil
}

func (a *Affine) String() string {
	return fmt.Sprintf("affine%v", mat.Formatted(a.h.Slice(0, 3, 0, 4), mat.Squeeze()))
}
