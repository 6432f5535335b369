package ellipse

import (
	"math"

	"github.com/pkg/errors"

	"phantomqa/pkg/errkind"
)

// DefaultSamples is the boundary point count used when none is configured.
const DefaultSamples = 100

// Sample returns n points on the boundary of the ellipse with semi-axes a, b,
// rotation theta and center (x0, y0), at parameter angles t = 2πi/n:
//
//	x = a cos(t) cos(theta) - b sin(theta) sin(t) + x0
//	y = a sin(theta) cos(t) + b cos(theta) sin(t) + y0
func Sample(a, b, theta, x0, y0 float64, n int) ([]float64, []float64, error) {
	if n < 1 {
		return nil, nil, errors.Wrapf(errkind.ErrInvalidArgument, "sample count must be at least 1, got %d", n)
	}
	sinT, cosT := math.Sincos(theta)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		t := 2 * math.Pi * float64(i) / float64(n)
		st, ct := math.Sincos(t)
		xs[i] = a*ct*cosT - b*sinT*st + x0
		ys[i] = a*sinT*ct + b*cosT*st + y0
	}
	return xs, ys, nil
}
