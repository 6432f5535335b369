package transform

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"phantomqa/internal/models"
	"phantomqa/pkg/errkind"
)

// Displacements transforms the points and returns two 3×n matrices, where n
// is the number of boundary points. Column i of p0 is point[i+1]-point[0]
// before the transform, and column i of p1 the same difference after it.
//
// Measuring against the transformed center makes the result independent of
// any rigid translation in the transform chain.
func Displacements(points models.PointSet, ev Evaluator, transforms []Transform) (p0, p1 *mat.Dense, err error) {
	if points.Len() < 2 {
		return nil, nil, errors.Wrapf(errkind.ErrInvalidArgument,
			"need a center and at least one boundary point, got %d points", points.Len())
	}
	if ev == nil {
		return nil, nil, errors.Wrap(errkind.ErrInvalidArgument, "no evaluator")
	}

	moved, err := ev.ApplyToPoints(points, transforms)
	if err != nil {
		return nil, nil, err
	}
	if moved.Len() != points.Len() {
		return nil, nil, errors.Wrapf(errkind.ErrInvalidArgument,
			"evaluator returned %d points for %d inputs", moved.Len(), points.Len())
	}

	return relative(points), relative(moved), nil
}

// relative returns the 3×(n-1) matrix of points[i+1]-points[0].
func relative(points models.PointSet) *mat.Dense {
	n := points.Len() - 1
	out := mat.NewDense(3, n, nil)
	c := points.Center()
	for i, p := range points.Boundary() {
		out.Set(0, i, p.X-c.X)
		out.Set(1, i, p.Y-c.Y)
		out.Set(2, i, p.Z-c.Z)
	}
	return out
}

// Distortion returns the Euclidean length of each column of p1-p0, the
// displacement of every boundary point after the center has been aligned.
func Distortion(p0, p1 *mat.Dense) ([]float64, error) {
	r0, c0 := p0.Dims()
	r1, c1 := p1.Dims()
	if r0 != r1 || c0 != c1 {
		return nil, errors.Wrapf(errkind.ErrInvalidArgument,
			"displacement shapes differ: %dx%d vs %dx%d", r0, c0, r1, c1)
	}
	var diff mat.Dense
	diff.Sub(p1, p0)

	out := make([]float64, c0)
	col := make([]float64, r0)
	for j := range out {
		mat.Col(col, j, &diff)
		out[j] = floats.Norm(col, 2)
	}
	return out, nil
}
