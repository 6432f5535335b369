// Package ring generates circular point rings around a center, lying in the
// plane normal to one of the coordinate axes.
package ring

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"

	"phantomqa/internal/models"
	"phantomqa/pkg/errkind"
)

// DefaultPoints is the ring size used when none is configured.
const DefaultPoints = 100

// Axis is the normal of the plane a ring lies in.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// ParseAxis accepts "x", "y" or "z" in any case.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	}
	return AxisX, errors.Wrapf(errkind.ErrInvalidArgument, "unknown axis %q, expected x, y or z", s)
}

// Generate returns npoints+1 points: the center followed by npoints points at
// distance radius from it, at parameters t = i/npoints for i in [0, npoints).
//
// For AxisZ the in-plane coordinates are (sin, cos) rather than (cos, sin), so
// that ring starts on the +y side of the center.
func Generate(center r3.Vec, radius float64, axis Axis, npoints int) (models.PointSet, error) {
	if npoints < 1 {
		return nil, errors.Wrapf(errkind.ErrInvalidArgument, "ring needs at least 1 point, got %d", npoints)
	}
	if math.IsNaN(radius) || radius < 0 {
		return nil, errors.Wrapf(errkind.ErrInvalidArgument, "ring radius must be non-negative, got %v", radius)
	}

	var place func(s, c float64) r3.Vec
	switch axis {
	case AxisX:
		place = func(s, c float64) r3.Vec { return r3.Vec{X: 0, Y: c, Z: s} }
	case AxisY:
		place = func(s, c float64) r3.Vec { return r3.Vec{X: c, Y: 0, Z: s} }
	case AxisZ:
		place = func(s, c float64) r3.Vec { return r3.Vec{X: s, Y: c, Z: 0} }
	default:
		return nil, errors.Wrapf(errkind.ErrInvalidArgument, "unknown axis %v", axis)
	}

	pts := make(models.PointSet, 0, npoints+1)
	pts = append(pts, center)
	for i := 0; i < npoints; i++ {
		t := float64(i) / float64(npoints)
		s, c := math.Sincos(2 * math.Pi * t)
		pts = append(pts, r3.Add(center, r3.Scale(radius, place(s, c))))
	}
	return pts, nil
}

// AtImageCenter generates a ring around the physical center of a 3D image.
func AtImageCenter(g models.ImageGeometry, radius float64, axis Axis, npoints int) (models.PointSet, error) {
	c, err := g.Center()
	if err != nil {
		return nil, err
	}
	if len(c) != 3 {
		return nil, errors.Wrapf(errkind.ErrInvalidArgument, "ring needs a 3D image, got %d axes", len(c))
	}
	return Generate(r3.Vec{X: c[0], Y: c[1], Z: c[2]}, radius, axis, npoints)
}
