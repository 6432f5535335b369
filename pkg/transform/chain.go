package transform

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"phantomqa/internal/logger"
	"phantomqa/internal/models"
	"phantomqa/pkg/errkind"
)

// Evaluator applies a list of transforms to every point of a set.
// Implementations must return the same number of points, in the same order.
type Evaluator interface {
	ApplyToPoints(points models.PointSet, transforms []Transform) (models.PointSet, error)
}

// ChainEvaluator treats the transform list as the composition
// T0 ∘ T1 ∘ ... ∘ Tn, so the last transform is applied first.
type ChainEvaluator struct{}

func (ChainEvaluator) ApplyToPoints(points models.PointSet, transforms []Transform) (models.PointSet, error) {
	out := points.Clone()
	for i := range out {
		for j := len(transforms) - 1; j >= 0; j-- {
			p, err := transforms[j].Apply(out[i])
			if err != nil {
				return nil, errors.WithMessagef(err, "transform %d failed on point %d", j, i)
			}
			out[i] = p
		}
	}
	return out, nil
}

// ChainSpec describes one transform of a chain file.
type ChainSpec struct {
	// Type is "affine" or "identity"
	Type string `yaml:"type"`
	// Matrix is the row-major 3x3 linear part, identity when empty
	Matrix []float64 `yaml:"matrix,omitempty"`
	// Translation is applied after the linear part
	Translation []float64 `yaml:"translation,omitempty"`
	// Center is the fixed point of the linear part
	Center []float64 `yaml:"center,omitempty"`
	// Invert replaces the transform with its inverse
	Invert bool `yaml:"invert,omitempty"`
}

type chainFile struct {
	Transforms []ChainSpec `yaml:"transforms"`
}

func vec3(name string, v []float64) (r3.Vec, error) {
	switch len(v) {
	case 0:
		return r3.Vec{}, nil
	case 3:
		return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
	}
	return r3.Vec{}, errors.Wrapf(errkind.ErrInvalidArgument, "%s needs 3 values, got %d", name, len(v))
}

// Build turns the chain entry into a Transform.
func (s ChainSpec) Build() (Transform, error) {
	var t Transform
	switch strings.ToLower(s.Type) {
	case "identity", "":
		t = Identity{}
	case "affine":
		m := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
		if len(s.Matrix) != 0 {
			if len(s.Matrix) != 9 {
				return nil, errors.Wrapf(errkind.ErrInvalidArgument, "matrix needs 9 values, got %d", len(s.Matrix))
			}
			copy(m[:], s.Matrix)
		}
		tr, err := vec3("translation", s.Translation)
		if err != nil {
			return nil, err
		}
		c, err := vec3("center", s.Center)
		if err != nil {
			return nil, err
		}
		t = NewAffine(m, tr, c)
	default:
		return nil, errors.Wrapf(errkind.ErrInvalidArgument, "unknown transform type %q", s.Type)
	}

	if s.Invert {
		return t.Inverse()
	}
	return t, nil
}

// ParseChain decodes a YAML transform chain:
//
//	transforms:
//	  - type: affine
//	    matrix: [1, 0, 0, 0, 1, 0, 0, 0, 1]
//	    translation: [2, 0, 0]
//	    invert: true
func ParseChain(data []byte) ([]Transform, error) {
	var f chainFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing transform chain: %w", err)
	}
	out := make([]Transform, 0, len(f.Transforms))
	for i, s := range f.Transforms {
		t, err := s.Build()
		if err != nil {
			return nil, errors.WithMessagef(err, "transform %d", i)
		}
		out = append(out, t)
	}
	return out, nil
}

// LoadChain reads a YAML transform chain from a file.
func LoadChain(path string, log logger.ILogger) ([]Transform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading transform chain: %w", err)
	}
	chain, err := ParseChain(data)
	if err != nil {
		return nil, err
	}
	logger.OrNull(log).Debugf("loaded %d transforms from %s", len(chain), path)
	return chain, nil
}
