package smooth

import (
	"math"

	"github.com/cwbudde/algo-iv/iv/curve"
)

// gapBridgeFraction sets which interior gaps survive smoothing: gaps
// shorter than this fraction of the fit length are bridged by the blended
// boundary extrapolations, longer gaps are restored to NaN.
const gapBridgeFraction = 0.5

// Smoother applies a fixed degree-4 modified-sinc kernel to 1-D curves.
// The kernel and the boundary-fit weights are immutable after New, so a
// single Smoother may be shared across goroutines smoothing independent
// curves.
type Smoother struct {
	m          int
	kernel     []float64 // one-sided, kernel[0] is the center tap
	fitWeights []float64
}

// New creates a Smoother with kernel half-width m. For m < MinHalfWidth
// the Smoother is a pass-through and Smooth returns an unmodified copy.
func New(m int) *Smoother {
	s := &Smoother{m: m}
	if m >= MinHalfWidth {
		s.kernel = makeKernel(m)
		s.fitWeights = makeFitWeights(m)
	}

	return s
}

// HalfWidth returns the kernel half-width m.
func (s *Smoother) HalfWidth() int {
	return s.m
}

// FitLength returns the number of points used by the boundary fit,
// or 0 for a pass-through Smoother.
func (s *Smoother) FitLength() int {
	return len(s.fitWeights)
}

// Kernel returns a copy of the one-sided kernel taps (center tap first),
// or nil for a pass-through Smoother.
func (s *Smoother) Kernel() []float64 {
	if s.kernel == nil {
		return nil
	}

	k := make([]float64, len(s.kernel))
	copy(k, s.kernel)

	return k
}

// Response returns the frequency response of the kernel at frequency f in
// cycles per sample (Nyquist = 0.5). The kernel is symmetric, so the
// response is real. A pass-through Smoother has unit response.
func (s *Smoother) Response(f float64) float64 {
	if s.kernel == nil {
		return 1
	}

	w := 2 * math.Pi * f

	h := s.kernel[0]
	for j := 1; j < len(s.kernel); j++ {
		h += 2 * s.kernel[j] * math.Cos(w*float64(j))
	}

	return h
}

// MagnitudeDB returns the magnitude response in dB at frequency f in
// cycles per sample.
func (s *Smoother) MagnitudeDB(f float64) float64 {
	return 20 * math.Log10(math.Abs(s.Response(f)))
}

// Smooth returns a smoothed copy of data. NaN gap semantics: interior
// gaps shorter than half the fit length are bridged, all other NaN
// positions stay NaN. The input is not modified.
func (s *Smoother) Smooth(data []float64) []float64 {
	out := make([]float64, len(data))
	s.smoothTo(out, data)

	return out
}

// SmoothInPlace smooths data in place. Same semantics as Smooth.
func (s *Smoother) SmoothInPlace(data []float64) {
	s.smoothTo(data, data)
}

func (s *Smoother) smoothTo(dst, src []float64) {
	n := len(src)
	if s.m < MinHalfWidth {
		copy(dst, src)
		return
	}

	ranges := curve.ValidRanges(src)
	if len(ranges) == 0 {
		fillNaN(dst)
		return
	}

	ext := s.extend(src, ranges)
	s.convolve(dst, ext, n)
	s.restoreGaps(dst, ranges, n)
}

// extend copies src into a buffer with m extra slots on each side and
// fills up to m positions beyond every valid-range boundary by weighted
// linear extrapolation. Where the extrapolations from the two sides of a
// short gap overlap, they are blended linearly across the overlap.
func (s *Smoother) extend(src []float64, ranges []curve.Range) []float64 {
	n := len(src)
	m := s.m

	ext := make([]float64, n+2*m)
	fillNaN(ext)
	copy(ext[m:], src)

	for ri, r := range ranges {
		// Left side: previous range's right extrapolation may already
		// occupy part of the gap; blend across the shared stretch.
		lo := r.Start - m
		if ri > 0 && lo < ranges[ri-1].End {
			lo = ranges[ri-1].End
		}

		a, b := s.fitLine(src, r, false)
		for i := r.Start - 1; i >= lo; i-- {
			v := a + b*float64(r.Start-1-i)
			ext[i+m] = blendExtrapolated(ext[i+m], v, i, lo, r.Start)
		}

		// Right side is written first-pass; the next range's left pass
		// blends into it.
		hi := r.End + m
		if ri+1 < len(ranges) && hi > ranges[ri+1].Start {
			hi = ranges[ri+1].Start
		}

		a, b = s.fitLine(src, r, true)
		for i := r.End; i < hi; i++ {
			ext[i+m] = a + b*float64(i-r.End)
		}
	}

	return ext
}

// blendExtrapolated merges a left extrapolation value v with a previous
// right extrapolation value prev over the overlap [lo, start). The blend
// weight moves linearly towards the left extrapolation as i approaches
// the range that produced it.
func blendExtrapolated(prev, v float64, i, lo, start int) float64 {
	if math.IsNaN(prev) {
		return v
	}

	t := float64(i-lo+1) / float64(start-lo+1)

	return (1-t)*prev + t*v
}

// fitLine fits a weighted least-squares line to the points of r nearest
// one boundary and returns it as value = a + b*d, where d >= 0 counts
// grid steps outward from the first extrapolated position. atEnd selects
// the right boundary. Degenerate fits fall back to the weighted mean.
func (s *Smoother) fitLine(src []float64, r curve.Range, atEnd bool) (a, b float64) {
	nFit := len(s.fitWeights)
	if nFit > r.Len() {
		nFit = r.Len()
	}

	var sw, sx, sy, sxx, sxy float64

	for p := 0; p < nFit; p++ {
		idx := r.Start + p
		if atEnd {
			idx = r.End - 1 - p
		}

		w := s.fitWeights[p]
		x := -float64(p + 1) // boundary sample sits at d = -1
		v := src[idx]

		sw += w
		sx += w * x
		sy += w * v
		sxx += w * x * x
		sxy += w * x * v
	}

	det := sw*sxx - sx*sx
	if nFit < 2 || det < 1e-12*sw*sxx || sw == 0 {
		if sw == 0 {
			return 0, 0
		}

		return sy / sw, 0
	}

	a = (sy*sxx - sx*sxy) / det
	b = (sw*sxy - sx*sy) / det

	return a, b
}

// convolve applies the symmetric kernel to the extended buffer. Output
// points whose kernel support touches an unfilled position stay NaN.
func (s *Smoother) convolve(dst, ext []float64, n int) {
	m := s.m
	k := s.kernel

	for i := 0; i < n; i++ {
		c := ext[i+m]
		if math.IsNaN(c) {
			dst[i] = math.NaN()
			continue
		}

		acc := k[0] * c
		for j := 1; j <= m; j++ {
			acc += k[j] * (ext[i+m-j] + ext[i+m+j])
		}

		dst[i] = acc
	}
}

// restoreGaps reinstates NaN at the original gap positions, except for
// interior gaps short enough to bridge. Leading and trailing gaps are
// never bridged.
func (s *Smoother) restoreGaps(dst []float64, ranges []curve.Range, n int) {
	bridgeLimit := gapBridgeFraction * float64(len(s.fitWeights))

	for i := 0; i < ranges[0].Start; i++ {
		dst[i] = math.NaN()
	}

	for i := ranges[len(ranges)-1].End; i < n; i++ {
		dst[i] = math.NaN()
	}

	for ri := 1; ri < len(ranges); ri++ {
		gapStart := ranges[ri-1].End
		gapEnd := ranges[ri].Start

		if float64(gapEnd-gapStart) < bridgeLimit {
			continue
		}

		for i := gapStart; i < gapEnd; i++ {
			dst[i] = math.NaN()
		}
	}
}

func fillNaN(data []float64) {
	for i := range data {
		data[i] = math.NaN()
	}
}
