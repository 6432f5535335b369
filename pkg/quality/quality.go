// Package quality computes image quality figures over a mask region: PSNR,
// SNR from a difference image, structural similarity, and the Rician
// log-likelihood used to model magnitude MR noise.
package quality

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"phantomqa/internal/models"
	"phantomqa/pkg/errkind"
)

// masked returns the values of both images inside the mask.
func masked(img1, img2 []float64, mask models.Mask) ([]float64, []float64, error) {
	if len(img1) != len(img2) {
		return nil, nil, errors.Wrapf(errkind.ErrInvalidArgument, "image sizes differ: %d vs %d", len(img1), len(img2))
	}
	i1, err := mask.Select(img1)
	if err != nil {
		return nil, nil, err
	}
	i2, err := mask.Select(img2)
	if err != nil {
		return nil, nil, err
	}
	if len(i1) == 0 {
		return nil, nil, errors.Wrap(errkind.ErrInvalidArgument, "mask selects no voxels")
	}
	return i1, i2, nil
}

// PSNR returns the mean squared error over the mask and the peak signal to
// noise ratio 10 log10(R²/MSE), where R is the mean of the two images' maxima
// inside the mask. Identical images give an infinite PSNR.
func PSNR(img1, img2 []float64, mask models.Mask) (mse, psnr float64, err error) {
	i1, i2, err := masked(img1, img2, mask)
	if err != nil {
		return 0, 0, err
	}

	diff := make([]float64, len(i1))
	floats.SubTo(diff, i1, i2)
	mse = floats.Dot(diff, diff) / float64(len(diff))

	r := (floats.Max(i1) + floats.Max(i2)) / 2
	return mse, 10 * math.Log10(r*r/mse), nil
}

// SNRDiff estimates SNR from two repeated acquisitions: the mean of their
// average over the mask divided by the population standard deviation of
// their difference, scaled by 1/sqrt(2).
func SNRDiff(img1, img2 []float64, mask models.Mask) (float64, error) {
	i1, i2, err := masked(img1, img2, mask)
	if err != nil {
		return 0, err
	}

	avg := make([]float64, len(i1))
	diff := make([]float64, len(i1))
	for i := range i1 {
		avg[i] = (i1[i] + i2[i]) / 2
		diff[i] = i1[i] - i2[i]
	}
	_, std := stat.PopMeanStdDev(diff, nil)
	return stat.Mean(avg, nil) / std / math.Sqrt2, nil
}

// SSIM returns the structural similarity of the two images over the mask,
// computed from global statistics of the masked voxels. dynamicRange is the
// span of possible intensities.
func SSIM(img1, img2 []float64, mask models.Mask, dynamicRange float64) (float64, error) {
	const k1, k2 = 0.01, 0.03

	x, y, err := masked(img1, img2, mask)
	if err != nil {
		return 0, err
	}
	if len(x) < 2 {
		return 0, errors.Wrap(errkind.ErrInvalidArgument, "SSIM needs at least 2 voxels")
	}

	c1 := (k1 * dynamicRange) * (k1 * dynamicRange)
	c2 := (k2 * dynamicRange) * (k2 * dynamicRange)

	muX := stat.Mean(x, nil)
	muY := stat.Mean(y, nil)
	sigmaX := stat.Variance(x, nil)
	sigmaY := stat.Variance(y, nil)
	sigmaXY := stat.Covariance(x, y, nil)

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)
	if den == 0 {
		return 0, errors.Wrap(errkind.ErrNumericalFailure, "SSIM denominator is zero")
	}
	return num / den, nil
}
