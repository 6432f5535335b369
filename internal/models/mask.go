package models

import (
	"github.com/pkg/errors"

	"phantomqa/pkg/errkind"
)

// Mask is a dense indicator array over a 2D or 3D grid.
//
// Data is stored as a 1D array in row-major order: for a 3D mask of shape
// [nx, ny, nz] the value of cell (i, j, k) lives at i*ny*nz + j*nz + k.
// Cells inside the region hold 1, all others 0.
type Mask struct {
	// Data is the flattened indicator array
	Data []float64

	// Shape holds the size of each axis
	Shape []int
}

// NewMask allocates a zero-filled mask of the given shape.
func NewMask(shape ...int) (Mask, error) {
	if len(shape) == 0 {
		return Mask{}, errors.Wrap(errkind.ErrInvalidArgument, "mask shape is empty")
	}
	n := 1
	for i, s := range shape {
		if s <= 0 {
			return Mask{}, errors.Wrapf(errkind.ErrInvalidArgument, "mask axis %d has non-positive size %d", i, s)
		}
		n *= s
	}
	dims := make([]int, len(shape))
	copy(dims, shape)
	return Mask{Data: make([]float64, n), Shape: dims}, nil
}

// Dims returns the number of axes.
func (m Mask) Dims() int { return len(m.Shape) }

// Len returns the number of cells.
func (m Mask) Len() int { return len(m.Data) }

// Offset converts a multi-index into the position in Data. It panics when the
// index has the wrong arity or is out of range, like slice indexing does.
func (m Mask) Offset(idx ...int) int {
	if len(idx) != len(m.Shape) {
		panic("models: mask index arity mismatch")
	}
	off := 0
	for a, i := range idx {
		if i < 0 || i >= m.Shape[a] {
			panic("models: mask index out of range")
		}
		off = off*m.Shape[a] + i
	}
	return off
}

// At returns the value at the given multi-index.
func (m Mask) At(idx ...int) float64 {
	return m.Data[m.Offset(idx...)]
}

// Set stores v at the given multi-index.
func (m Mask) Set(v float64, idx ...int) {
	m.Data[m.Offset(idx...)] = v
}

// Count returns the number of 1-valued cells.
func (m Mask) Count() int {
	n := 0
	for _, v := range m.Data {
		if v == 1 {
			n++
		}
	}
	return n
}

// Indices returns the flat indices of 1-valued cells in ascending order.
func (m Mask) Indices() []int {
	out := make([]int, 0, m.Count())
	for i, v := range m.Data {
		if v == 1 {
			out = append(out, i)
		}
	}
	return out
}

// Select returns the values of img at the cells where the mask is 1. img must
// be flattened in the same order as the mask.
func (m Mask) Select(img []float64) ([]float64, error) {
	if len(img) != len(m.Data) {
		return nil, errors.Wrapf(errkind.ErrInvalidArgument,
			"image has %d values, mask has %d cells", len(img), len(m.Data))
	}
	out := make([]float64, 0, m.Count())
	for i, v := range m.Data {
		if v == 1 {
			out = append(out, img[i])
		}
	}
	return out, nil
}
