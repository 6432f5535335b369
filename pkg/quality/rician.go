package quality

import "math"

// i0e is the exponentially scaled modified Bessel function of the first kind
// of order zero, exp(-|x|) I0(x), from the polynomial approximations of
// Abramowitz and Stegun 9.8.1 and 9.8.2. The relative error is below 5e-7,
// largest around x = 100 and under 5e-8 for |x| < 10. LogI0e inherits this as
// an absolute error.
func i0e(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		t := x / 3.75
		t *= t
		i0 := 1 + t*(3.5156229+t*(3.0899424+t*(1.2067492+t*(0.2659732+t*(0.0360768+t*0.0045813)))))
		return i0 * math.Exp(-ax)
	}
	t := 3.75 / ax
	return (0.39894228 + t*(0.01328592+t*(0.00225319+t*(-0.00157565+t*(0.00916281+
		t*(-0.02057706+t*(0.02635537+t*(-0.01647633+t*0.00392377)))))))) / math.Sqrt(ax)
}

// LogI0e returns log(i0e(x)) + x, which is log I0(x) for x >= 0 and stays
// finite for arguments where I0 itself overflows.
func LogI0e(x float64) float64 {
	return math.Log(i0e(x)) + x
}

// RicianLogLikelihood is the log density of a magnitude x under Rician noise
// with scale sigma around the true signal mu.
func RicianLogLikelihood(x, sigma, mu float64) float64 {
	s2 := sigma * sigma
	return math.Log(x) - 2*math.Log(sigma) - (x*x+mu*mu)/(2*s2) + LogI0e(x*mu/s2)
}
