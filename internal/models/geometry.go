package models

import (
	"github.com/pkg/errors"

	"phantomqa/pkg/errkind"
)

// ImageGeometry carries the physical-space metadata of a scanned image.
type ImageGeometry struct {
	// Shape is the number of voxels along each axis
	Shape []int

	// Origin is the physical position of voxel (0, 0, 0) in mm
	Origin []float64

	// Spacing is the physical voxel size along each axis in mm
	Spacing []float64

	// Direction is the row-major direction cosine matrix (len(Shape)^2 values)
	Direction []float64
}

// Center returns the physical position of the middle voxel (shape//2 on every
// axis). Only the diagonal of the direction matrix is used, so oblique
// acquisitions are treated as axis aligned.
func (g ImageGeometry) Center() ([]float64, error) {
	n := len(g.Shape)
	if n == 0 || len(g.Origin) != n || len(g.Spacing) != n || len(g.Direction) != n*n {
		return nil, errors.Wrapf(errkind.ErrInvalidArgument,
			"inconsistent geometry: shape %d, origin %d, spacing %d, direction %d",
			len(g.Shape), len(g.Origin), len(g.Spacing), len(g.Direction))
	}
	c := make([]float64, n)
	for i := 0; i < n; i++ {
		mid := float64(g.Shape[i] / 2)
		c[i] = g.Origin[i] + g.Direction[i*n+i]*mid*g.Spacing[i]
	}
	return c, nil
}
