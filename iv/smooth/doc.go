// Package smooth implements the degree-4 modified-sinc smoother used to
// denoise I(V) curves.
//
// A [Smoother] is built once for a kernel half-width m and can then be
// applied to any number of curves. The symmetric FIR kernel combines a
// windowed sinc with a Gaussian-sum envelope so that it decays smoothly
// to zero and sums to one; smoothing a constant, gap-free curve therefore
// returns the curve unchanged.
//
// Curves may contain NaN gaps. Each contiguous run of valid samples is
// extended on both sides by weighted linear extrapolation before the
// convolution, so the signal is not distorted near its boundaries. Short
// gaps are bridged by the blended extrapolations from both sides; long
// gaps are restored to NaN in the output.
//
// The half-width can be chosen directly, from a target noise suppression
// ([HalfWidthForNoiseGain]) or from a target -3 dB bandwidth
// ([HalfWidthForBandwidth]).
package smooth
