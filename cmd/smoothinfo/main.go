// Command smoothinfo prints properties of the modified-sinc smoothing
// kernel used for I(V) curves.
//
// Usage:
//
//	smoothinfo [flags]
//
// The kernel half-width is taken from -m, or derived from a target -3 dB
// bandwidth (-bandwidth) or a target noise-variance reduction factor
// (-noise-gain).
//
// Examples:
//
//	smoothinfo -m 12
//	smoothinfo -bandwidth 0.1 -taps
//	smoothinfo -noise-gain 8 -spectrum -points 16
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-iv/iv/smooth"
)

func main() {
	m := flag.Int("m", 0, "kernel half-width in grid points")
	bandwidth := flag.Float64("bandwidth", math.NaN(), "target -3 dB cutoff as fraction of Nyquist, in (0, 0.5)")
	noiseGain := flag.Float64("noise-gain", math.NaN(), "target noise-variance reduction factor 1/g^2")
	taps := flag.Bool("taps", false, "print the one-sided kernel taps")
	spectrum := flag.Bool("spectrum", false, "print the FFT magnitude response")
	points := flag.Int("points", 12, "number of spectrum rows")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: smoothinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints properties of the modified-sinc smoothing kernel.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	halfWidth, err := resolveHalfWidth(*m, *bandwidth, *noiseGain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s := smooth.New(halfWidth)

	fmt.Printf("degree:      %d\n", smooth.Degree)
	fmt.Printf("half-width:  %d\n", halfWidth)
	fmt.Printf("fit length:  %d\n", s.FitLength())

	kernel := s.Kernel()
	if kernel == nil {
		fmt.Printf("pass-through (half-width < %d)\n", smooth.MinHalfWidth)
		return
	}

	if *taps {
		printTaps(kernel)
	}

	if *spectrum {
		printSpectrum(kernel, *points)
	}
}

func resolveHalfWidth(m int, bandwidth, noiseGain float64) (int, error) {
	switch {
	case m > 0:
		return m, nil
	case !math.IsNaN(bandwidth):
		return smooth.HalfWidthForBandwidth(bandwidth)
	case !math.IsNaN(noiseGain):
		return smooth.HalfWidthForNoiseGain(noiseGain)
	default:
		return 0, fmt.Errorf("one of -m, -bandwidth or -noise-gain is required")
	}
}

func printTaps(kernel []float64) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Tap\tValue\n")
	fmt.Fprintf(tw, "---\t-----\n")
	for i, k := range kernel {
		fmt.Fprintf(tw, "%d\t%+.8f\n", i, k)
	}
	_ = tw.Flush()
}

// printSpectrum derives the realized magnitude response of the symmetric
// kernel from a zero-padded FFT and tabulates it against the normalized
// frequency.
func printSpectrum(kernel []float64, points int) {
	fftSize := nextPowerOf2(64 * len(kernel))

	in := make([]complex128, fftSize)
	in[0] = complex(kernel[0], 0)
	for j := 1; j < len(kernel); j++ {
		in[j] = complex(kernel[j], 0)
		in[fftSize-j] = complex(kernel[j], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "f/Nyquist\tMagnitude [dB]\n")
	fmt.Fprintf(tw, "---------\t--------------\n")

	for p := 0; p <= points; p++ {
		frac := float64(p) / float64(points)
		bin := int(math.Round(frac * float64(fftSize) / 2))

		mag := math.Hypot(real(out[bin]), imag(out[bin]))
		fmt.Fprintf(tw, "%.4f\t%+.2f\n", frac, 20*math.Log10(mag))
	}
	_ = tw.Flush()
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
