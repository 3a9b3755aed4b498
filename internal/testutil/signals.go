package testutil

import (
	"math"
	"math/rand"
)

// EnergyAxis generates an evenly spaced energy axis.
func EnergyAxis(first, step float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = first + step*float64(i)
	}
	return out
}

// PeakCurve generates a smooth I(V)-like curve: a baseline plus Gaussian
// peaks at the given fractional positions (0..1) of the axis.
func PeakCurve(baseline, amplitude, widthFrac float64, peakFracs []float64, length int) []float64 {
	out := make([]float64, length)
	w := widthFrac * float64(length-1)
	for i := range out {
		v := baseline
		for _, p := range peakFracs {
			d := (float64(i) - p*float64(length-1)) / w
			v += amplitude * math.Exp(-d*d)
		}
		out[i] = v
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// WithGap returns a copy of data with [start, end) replaced by NaN.
func WithGap(data []float64, start, end int) []float64 {
	out := make([]float64, len(data))
	copy(out, data)
	for i := start; i < end && i < len(out); i++ {
		if i >= 0 {
			out[i] = math.NaN()
		}
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
