package mask

import (
	"errors"
	"testing"

	"phantomqa/pkg/errkind"
)

// TestMakeCircleCount checks the mask against an exact count of integer grid
// points strictly inside the radius.
func TestMakeCircleCount(t *testing.T) {
	m, err := MakeCircle([2]int{64, 64}, 10, [2]float64{0, 0})
	if err != nil {
		t.Fatalf("MakeCircle failed: %v", err)
	}

	expected := 0
	for x := -32; x < 32; x++ {
		for y := -32; y < 32; y++ {
			if x*x+y*y < 100 {
				expected++
			}
		}
	}
	if got := m.Count(); got != expected {
		t.Errorf("expected %d cells inside, got %d", expected, got)
	}

	// Boundary cells at exactly the radius are excluded
	if m.At(32, 42) != 0 {
		t.Errorf("cell on the radius should be excluded")
	}
	if m.At(32, 41) != 1 || m.At(32, 32) != 1 {
		t.Errorf("cells inside the radius should be set")
	}
}

func TestMakeCircleCenterOffset(t *testing.T) {
	m, err := MakeCircle([2]int{64, 64}, 4, [2]float64{5, 0})
	if err != nil {
		t.Fatalf("MakeCircle failed: %v", err)
	}
	// X = j - 32 + 5 is zero at column 27
	if m.At(32, 27) != 1 {
		t.Errorf("expected the shifted circle to cover (32, 27)")
	}
	if m.At(32, 32) != 0 {
		t.Errorf("expected (32, 32) to be outside a radius-4 circle shifted by 5")
	}
	centered, _ := MakeCircle([2]int{64, 64}, 4, [2]float64{0, 0})
	if m.Count() != centered.Count() {
		t.Errorf("shifting should not change the area: %d vs %d", m.Count(), centered.Count())
	}
}

func TestMakeCircleOddGrid(t *testing.T) {
	m, err := MakeCircle([2]int{5, 5}, 1.5, [2]float64{0, 0})
	if err != nil {
		t.Fatalf("MakeCircle failed: %v", err)
	}
	// coordinates run -3..1, so the origin sits at index 3
	if m.At(3, 3) != 1 {
		t.Errorf("expected origin cell (3, 3) to be set")
	}
	if m.Count() != 9 {
		t.Errorf("expected 9 cells (3x3 block), got %d", m.Count())
	}
}

func TestMakeSphere(t *testing.T) {
	shape := [3]int{20, 20, 20}
	m, err := MakeSphere(shape, 3, [3]float64{12, 7, 10})
	if err != nil {
		t.Fatalf("MakeSphere failed: %v", err)
	}
	if m.Dims() != 3 || m.Len() != 8000 {
		t.Fatalf("unexpected mask size")
	}

	// The center is given in voxel indices
	if m.At(12, 7, 10) != 1 {
		t.Errorf("expected center voxel to be set")
	}
	if m.At(14, 7, 10) != 1 {
		t.Errorf("expected voxel 2 away to be inside")
	}
	if m.At(15, 7, 10) != 0 || m.At(12, 10, 10) != 0 || m.At(12, 7, 13) != 0 {
		t.Errorf("expected voxels 3 away to be outside")
	}

	expected := 0
	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			for z := -3; z <= 3; z++ {
				if x*x+y*y+z*z < 9 {
					expected++
				}
			}
		}
	}
	if m.Count() != expected {
		t.Errorf("expected %d voxels, got %d", expected, m.Count())
	}
}

func TestMakeSphereNonCubic(t *testing.T) {
	m, err := MakeSphere([3]int{8, 6, 4}, 1.1, [3]float64{4, 3, 2})
	if err != nil {
		t.Fatalf("MakeSphere failed: %v", err)
	}
	if m.At(4, 3, 2) != 1 {
		t.Errorf("expected center voxel set")
	}
	// 6-neighbourhood plus center
	if m.Count() != 7 {
		t.Errorf("expected 7 voxels, got %d", m.Count())
	}
}

func TestInvalidInputs(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"non-square circle", func() error {
			_, err := MakeCircle([2]int{10, 12}, 2, [2]float64{})
			return err
		}},
		{"negative radius", func() error {
			_, err := MakeCircle([2]int{10, 10}, -1, [2]float64{})
			return err
		}},
		{"zero dimension", func() error {
			_, err := MakeSphere([3]int{0, 4, 4}, 1, [3]float64{})
			return err
		}},
	}
	for _, tc := range tests {
		if err := tc.fn(); !errors.Is(err, errkind.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}
}
