// Package mask builds binary ROI masks (circles and spheres) on image grids.
//
// The grids follow the image-axis convention used by the rest of the analysis:
// each axis runs over arange(-n//2, n//2) (floor division), shifted by the
// requested center. The sphere variant additionally reverses the center offset
// (nx - center - nx//2) and swaps the first two axes of the coordinate mesh, so
// that the mask lines up with the row-major order of the loaded image volumes.
// Keep both conventions exactly as they are: an axis mix-up silently produces a
// mask with the right shape in the wrong place.
package mask

import (
	"math"

	"github.com/pkg/errors"

	"phantomqa/internal/models"
	"phantomqa/pkg/errkind"
)

// axisCoords returns arange(-n//2, n//2) + offset with Python floor division.
func axisCoords(n int, offset float64) []float64 {
	start := floorDiv(-n, 2)
	stop := floorDiv(n, 2)
	out := make([]float64, 0, stop-start)
	for v := start; v < stop; v++ {
		out = append(out, float64(v)+offset)
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func checkRadius(radius float64) error {
	if math.IsNaN(radius) || radius < 0 {
		return errors.Wrapf(errkind.ErrInvalidArgument, "invalid radius %v", radius)
	}
	return nil
}

// MakeCircle creates a 2D mask with ones strictly inside radius around center.
//
// shape is (nx, ny) and center is (x, y) relative to the grid midpoint. Cell
// (i, j) is at distance sqrt(X[j]² + Y[i]²) where X = arange(-nx//2, nx//2) + x
// and Y = arange(-ny//2, ny//2) + y. Because of that transposed mesh the grid
// must be square; a non-square shape is rejected.
func MakeCircle(shape [2]int, radius float64, center [2]float64) (models.Mask, error) {
	nx, ny := shape[0], shape[1]
	if nx != ny {
		return models.Mask{}, errors.Wrapf(errkind.ErrInvalidArgument,
			"circle grid must be square, got %dx%d", nx, ny)
	}
	if err := checkRadius(radius); err != nil {
		return models.Mask{}, err
	}
	m, err := models.NewMask(nx, ny)
	if err != nil {
		return models.Mask{}, err
	}

	xs := axisCoords(nx, center[0])
	ys := axisCoords(ny, center[1])
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			if math.Sqrt(xs[j]*xs[j]+ys[i]*ys[i]) < radius {
				m.Data[i*ny+j] = 1
			}
		}
	}
	return m, nil
}

// MakeSphere creates a 3D mask with ones strictly inside radius around center.
//
// shape is (nx, ny, nz). The per-axis offsets are cx = nx - center[0] - nx//2
// (likewise for y and z) and cell (i, j, k) is at distance
// sqrt(gy[j]² + gx[i]² + gz[k]²) with gx = arange(-nx//2, nx//2) + cx, etc.
func MakeSphere(shape [3]int, radius float64, center [3]float64) (models.Mask, error) {
	nx, ny, nz := shape[0], shape[1], shape[2]
	if err := checkRadius(radius); err != nil {
		return models.Mask{}, err
	}
	m, err := models.NewMask(nx, ny, nz)
	if err != nil {
		return models.Mask{}, err
	}

	cx := float64(nx) - center[0] - float64(floorDiv(nx, 2))
	cy := float64(ny) - center[1] - float64(floorDiv(ny, 2))
	cz := float64(nz) - center[2] - float64(floorDiv(nz, 2))

	gx := axisCoords(nx, cx)
	gy := axisCoords(ny, cy)
	gz := axisCoords(nz, cz)

	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			d2 := gy[j]*gy[j] + gx[i]*gx[i]
			if math.Sqrt(d2) >= radius {
				// z only adds distance
				continue
			}
			base := (i*ny + j) * nz
			for k := 0; k < nz; k++ {
				if math.Sqrt(d2+gz[k]*gz[k]) < radius {
					m.Data[base+k] = 1
				}
			}
		}
	}
	return m, nil
}
