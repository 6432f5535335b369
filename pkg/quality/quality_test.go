package quality

import (
	"errors"
	"math"
	"testing"

	"phantomqa/internal/models"
	"phantomqa/pkg/errkind"
	"phantomqa/pkg/mask"
)

func fullMask(t *testing.T, n int) models.Mask {
	t.Helper()
	m, err := models.NewMask(n)
	if err != nil {
		t.Fatal(err)
	}
	for i := range m.Data {
		m.Data[i] = 1
	}
	return m
}

func TestPSNR(t *testing.T) {
	m := fullMask(t, 4)
	img1 := []float64{10, 10, 10, 10}
	img2 := []float64{11, 11, 11, 11}

	mse, psnr, err := PSNR(img1, img2, m)
	if err != nil {
		t.Fatalf("PSNR failed: %v", err)
	}
	if mse != 1 {
		t.Errorf("expected MSE 1, got %f", mse)
	}
	want := 10 * math.Log10(10.5*10.5)
	if math.Abs(psnr-want) > 1e-12 {
		t.Errorf("expected PSNR %f, got %f", want, psnr)
	}

	_, psnr, _ = PSNR(img1, img1, m)
	if !math.IsInf(psnr, 1) {
		t.Errorf("identical images should give +Inf, got %f", psnr)
	}
}

func TestPSNROnlyUsesMask(t *testing.T) {
	m, err := mask.MakeCircle([2]int{16, 16}, 4, [2]float64{0, 0})
	if err != nil {
		t.Fatal(err)
	}
	img1 := make([]float64, m.Len())
	img2 := make([]float64, m.Len())
	for i := range img1 {
		img1[i] = 100
		img2[i] = 100
		if m.Data[i] == 0 {
			img2[i] = -5000
		}
	}
	img2[m.Indices()[0]] = 98

	mse, _, err := PSNR(img1, img2, m)
	if err != nil {
		t.Fatalf("PSNR failed: %v", err)
	}
	if want := 4 / float64(m.Count()); math.Abs(mse-want) > 1e-12 {
		t.Errorf("expected MSE %g, got %g", want, mse)
	}
}

func TestSNRDiff(t *testing.T) {
	m := fullMask(t, 4)
	snr, err := SNRDiff([]float64{10, 12, 10, 12}, []float64{10, 10, 10, 10}, m)
	if err != nil {
		t.Fatalf("SNRDiff failed: %v", err)
	}
	// mean of the average is 10.5, population std of the difference is 1
	if want := 10.5 / math.Sqrt2; math.Abs(snr-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, snr)
	}
}

func TestSSIM(t *testing.T) {
	m := fullMask(t, 6)
	x := []float64{0.1, 0.4, 0.2, 0.9, 0.5, 0.7}

	s, err := SSIM(x, x, m, 1)
	if err != nil {
		t.Fatalf("SSIM failed: %v", err)
	}
	if math.Abs(s-1) > 1e-12 {
		t.Errorf("identical images should have SSIM 1, got %f", s)
	}

	inv := make([]float64, len(x))
	for i, v := range x {
		inv[i] = 1 - v
	}
	s, _ = SSIM(x, inv, m, 1)
	if s >= 0 {
		t.Errorf("anti-correlated images should have negative SSIM, got %f", s)
	}
}

func TestMaskedErrors(t *testing.T) {
	m := fullMask(t, 4)
	empty, _ := models.NewMask(4)

	if _, _, err := PSNR([]float64{1, 2, 3, 4}, []float64{1, 2, 3}, m); !errors.Is(err, errkind.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for mismatched images, got %v", err)
	}
	if _, _, err := PSNR([]float64{1, 2, 3}, []float64{1, 2, 3}, m); !errors.Is(err, errkind.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for a mask of another size, got %v", err)
	}
	if _, err := SNRDiff([]float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}, empty); !errors.Is(err, errkind.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for an empty mask, got %v", err)
	}
}

func TestLogI0e(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{1, math.Log(1.2660658777520082)},
		{5, math.Log(27.239871823604442)},
		{30, 27.38470143775},
		// asymptotically log I0(x) ~ x - log(2πx)/2
		{500, 500 - 0.5*math.Log(2*math.Pi*500) + math.Log(1+1.0/4000)},
	}
	for _, tc := range tests {
		if got := LogI0e(tc.x); math.Abs(got-tc.want) > 1e-6 {
			t.Errorf("LogI0e(%v): expected %f, got %f", tc.x, tc.want, got)
		}
	}
	if math.IsInf(LogI0e(2000), 0) {
		t.Errorf("LogI0e should stay finite for large arguments")
	}
}

// seriesI0e sums the power series of I0 and scales it by exp(-x).
func seriesI0e(x float64) float64 {
	q := x * x / 4
	sum, term := 1.0, 1.0
	for k := 1; term > sum*1e-17; k++ {
		term *= q / float64(k*k)
		sum += term
	}
	return sum * math.Exp(-x)
}

func TestI0ePrecision(t *testing.T) {
	worst := 0.0
	for x := 0.0; x <= 200; x += 0.5 {
		ref := seriesI0e(x)
		rel := math.Abs(i0e(x)/ref - 1)
		if rel > 6e-7 {
			t.Errorf("i0e(%v): relative error %g", x, rel)
		}
		if x < 10 && rel > 5e-8 {
			t.Errorf("i0e(%v): relative error %g for a small argument", x, rel)
		}
		worst = math.Max(worst, rel)
	}
	if i0e(-7) != i0e(7) {
		t.Errorf("i0e should be even")
	}
	t.Logf("worst relative error %g", worst)
}

func TestRicianLogLikelihood(t *testing.T) {
	// with no signal the Rician density is Rayleigh: x/σ² exp(-x²/2σ²)
	for _, x := range []float64{0.5, 1, 2.5} {
		sigma := 1.5
		want := math.Log(x/(sigma*sigma)) - x*x/(2*sigma*sigma)
		if got := RicianLogLikelihood(x, sigma, 0); math.Abs(got-want) > 1e-12 {
			t.Errorf("x=%v: expected %f, got %f", x, want, got)
		}
	}

	// the likelihood of a measurement peaks near the true signal at high SNR
	best, bestMu := math.Inf(-1), 0.0
	for mu := 80.0; mu <= 120; mu += 0.5 {
		if l := RicianLogLikelihood(100, 2, mu); l > best {
			best, bestMu = l, mu
		}
	}
	if math.Abs(bestMu-100) > 0.5 {
		t.Errorf("expected the maximum near mu=100, got %f", bestMu)
	}
}
