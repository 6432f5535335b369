package models

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// PointSet is an ordered sequence of 3D points where index 0 is the center of
// the shape and the remaining points sample its boundary. Downstream
// displacement computations always measure relative to index 0.
type PointSet []r3.Vec

// Len returns the total number of points, center included.
func (p PointSet) Len() int { return len(p) }

// Center returns point 0. It panics on an empty set.
func (p PointSet) Center() r3.Vec { return p[0] }

// Boundary returns the points after the center.
func (p PointSet) Boundary() []r3.Vec {
	if len(p) == 0 {
		return nil
	}
	return p[1:]
}

// X returns the x column.
func (p PointSet) X() []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v.X
	}
	return out
}

// Y returns the y column.
func (p PointSet) Y() []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v.Y
	}
	return out
}

// Z returns the z column.
func (p PointSet) Z() []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = v.Z
	}
	return out
}

// Clone returns a copy that shares no memory with p.
func (p PointSet) Clone() PointSet {
	out := make(PointSet, len(p))
	copy(out, p)
	return out
}
