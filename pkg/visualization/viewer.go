// Package visualization renders masks as grayscale slices and overlays fitted
// boundary points on them for visual QA.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"phantomqa/internal/models"
	"phantomqa/pkg/errkind"
)

// Viewer extracts 2D slices from a mask or any volume with values in [0, 1]
// stored in the same row-major layout.
type Viewer struct {
	data []float64

	// dimensions of the volume, 2D masks have nz = 1
	nx, ny, nz int
}

// NewViewer creates a viewer over a 2D or 3D mask.
func NewViewer(m models.Mask) (*Viewer, error) {
	v := &Viewer{data: m.Data, nz: 1}
	switch m.Dims() {
	case 2:
		v.nx, v.ny = m.Shape[0], m.Shape[1]
	case 3:
		v.nx, v.ny, v.nz = m.Shape[0], m.Shape[1], m.Shape[2]
	default:
		return nil, errors.Wrapf(errkind.ErrInvalidArgument, "can only view 2D or 3D masks, got %d axes", m.Dims())
	}
	if len(m.Data) != v.nx*v.ny*v.nz {
		return nil, errors.Wrapf(errkind.ErrInvalidArgument, "mask has %d values for shape %v", len(m.Data), m.Shape)
	}
	return v, nil
}

func (v *Viewer) gray(i, j, k int) color.Gray16 {
	val := v.data[i*v.ny*v.nz+j*v.nz+k]
	return color.Gray16{Y: uint16(math.Max(0, math.Min(65535, val*65535)))}
}

// ExtractSlice extracts a 2D slice at position along the specified axis.
// For axis z the image row is the first mask index and the column the second,
// so a 2D mask viewed at z=0 keeps its own layout.
func (v *Viewer) ExtractSlice(axis string, position int) (*image.Gray16, error) {
	if position < 0 {
		return nil, errors.Wrap(errkind.ErrInvalidArgument, "position must be non-negative")
	}

	var img *image.Gray16

	switch axis {
	case "x", "X":
		if position >= v.nx {
			return nil, errors.Wrapf(errkind.ErrInvalidArgument, "position %d exceeds x size %d", position, v.nx)
		}
		img = image.NewGray16(image.Rect(0, 0, v.nz, v.ny))
		for j := 0; j < v.ny; j++ {
			for k := 0; k < v.nz; k++ {
				img.SetGray16(k, j, v.gray(position, j, k))
			}
		}

	case "y", "Y":
		if position >= v.ny {
			return nil, errors.Wrapf(errkind.ErrInvalidArgument, "position %d exceeds y size %d", position, v.ny)
		}
		img = image.NewGray16(image.Rect(0, 0, v.nx, v.nz))
		for k := 0; k < v.nz; k++ {
			for i := 0; i < v.nx; i++ {
				img.SetGray16(i, k, v.gray(i, position, k))
			}
		}

	case "z", "Z":
		if position >= v.nz {
			return nil, errors.Wrapf(errkind.ErrInvalidArgument, "position %d exceeds z size %d", position, v.nz)
		}
		img = image.NewGray16(image.Rect(0, 0, v.ny, v.nx))
		for i := 0; i < v.nx; i++ {
			for j := 0; j < v.ny; j++ {
				img.SetGray16(j, i, v.gray(i, j, position))
			}
		}

	default:
		return nil, errors.Wrapf(errkind.ErrInvalidArgument, "invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// MaskSlice extracts one slice of a mask. 2D masks only have position 0 on
// axis z.
func MaskSlice(m models.Mask, axis string, position int) (*image.Gray16, error) {
	v, err := NewViewer(m)
	if err != nil {
		return nil, err
	}
	return v.ExtractSlice(axis, position)
}

// Overlay draws points, given as (column, row) image coordinates, in red on
// top of a copy of base. Points outside the image are skipped.
func Overlay(base image.Image, xs, ys []float64) *image.RGBA {
	b := base.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, base, b.Min, draw.Src)

	red := color.RGBA{R: 255, A: 255}
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	for i := 0; i < n; i++ {
		p := image.Pt(int(math.Round(xs[i])), int(math.Round(ys[i])))
		if p.In(b) {
			out.SetRGBA(p.X, p.Y, red)
		}
	}
	return out
}

// SavePNG writes an image as PNG.
func SavePNG(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating %s: %w", filename, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error encoding %s: %w", filename, err)
	}
	return nil
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.nx
	case "y", "Y":
		maxPos = v.ny
	case "z", "Z":
		maxPos = v.nz
	default:
		return errors.Wrapf(errkind.ErrInvalidArgument, "invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := SavePNG(img, filename); err != nil {
			return err
		}
	}

	return nil
}
