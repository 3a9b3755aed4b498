package smooth

import (
	"fmt"
	"math"
)

// Degree is the fixed order of the modified-sinc kernel family used here.
const Degree = 4

// MinHalfWidth is the smallest half-width that actually smooths.
// Below it, Smooth degrades to a pass-through copy.
const MinHalfWidth = 4

// Envelope and conversion constants for the degree-4 kernel. These are
// empirical fits against the realized kernel and are fixed, not tunable.
const (
	envelopeAlpha = 4.0

	// -3 dB cutoff of the kernel, as a fraction of the Nyquist-normalized
	// frequency: cutoff ~= (bandwidthBase + bandwidthSlope*Degree)/(m+1).
	bandwidthBase  = 0.27037
	bandwidthSlope = 0.24920

	// White-noise gain fit: 1/g^2 ~= (m + noiseGainOffset)/noiseGainSlope.
	noiseGainSlope  = 1.9986
	noiseGainOffset = 0.9061
)

// HalfWidthForBandwidth returns the kernel half-width whose -3 dB point
// is closest to the requested cutoff, given as a fraction of the Nyquist
// frequency in (0, 0.5).
func HalfWidthForBandwidth(cutoff float64) (int, error) {
	if cutoff <= 0 || cutoff >= 0.5 {
		return 0, fmt.Errorf("smooth: bandwidth must be in (0, 0.5): %g", cutoff)
	}

	m := int(math.Round((bandwidthBase+bandwidthSlope*Degree)/cutoff - 1))
	if m < 0 {
		m = 0
	}

	return m, nil
}

// HalfWidthForNoiseGain returns the kernel half-width that suppresses the
// variance of white noise by the requested factor invGainSq = 1/g^2,
// where g is the white-noise gain of the kernel.
func HalfWidthForNoiseGain(invGainSq float64) (int, error) {
	if invGainSq <= 0 {
		return 0, fmt.Errorf("smooth: noise gain factor must be > 0: %g", invGainSq)
	}

	m := int(math.Round(noiseGainSlope*invGainSq - noiseGainOffset))
	if m < 0 {
		m = 0
	}

	return m, nil
}

// makeKernel builds the one-sided kernel of m+1 taps: a windowed sinc with
// cutoff set by m and Degree, under a Gaussian-sum envelope that reaches
// zero smoothly at |x| = 1. Taps are normalized so the symmetric kernel
// sums to exactly 1.
func makeKernel(m int) []float64 {
	kernel := make([]float64, m+1)

	sum := 0.0
	for i := range kernel {
		x := float64(i) / float64(m+1)

		k := 1.0
		if i > 0 {
			arg := math.Pi * 0.5 * float64(Degree+4) * x
			k = math.Sin(arg) / arg
		}

		k *= envelope(x)
		kernel[i] = k

		if i == 0 {
			sum += k
		} else {
			sum += 2 * k
		}
	}

	for i := range kernel {
		kernel[i] /= sum
	}

	return kernel
}

// envelope is the decaying window of the modified-sinc kernel, built from
// three Gaussians so that value and slope vanish at |x| = 1.
func envelope(x float64) float64 {
	const a = envelopeAlpha

	return math.Exp(-a*x*x) + math.Exp(-a*(x-2)*(x-2)) + math.Exp(-a*(x+2)*(x+2)) -
		2*math.Exp(-a) - math.Exp(-9*a)
}

// makeFitWeights builds the raised-cosine taper used for the weighted
// linear fit that extrapolates a valid range past its boundary. The fit
// length scales with the first zero of the kernel's frequency response.
func makeFitWeights(m int) []float64 {
	firstZero := float64(m+1) / (1.5 + 0.5*Degree)
	beta := 0.70 + 0.14*math.Exp(-0.6*(Degree-4))

	fitLength := int(math.Ceil(firstZero * beta))
	weights := make([]float64, fitLength)

	for p := range weights {
		c := math.Cos(0.5 * math.Pi * float64(p) / (firstZero * beta))
		weights[p] = c * c
	}

	return weights
}
