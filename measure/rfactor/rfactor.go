package rfactor

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-iv/iv/curve"
	"github.com/cwbudde/algo-vecmath"
)

// yEpsilon stabilizes the logarithmic derivative against division by
// zero. It is far below any physical intensity scale.
const yEpsilon = 1e-100

// yCurveMaxAbs is the peak magnitude Y curves are normalized to for
// plotting.
const yCurveMaxAbs = 0.99

// minOverlapRun is the shortest jointly valid run that still yields a
// comparable point: the central difference discards both endpoints.
const minOverlapRun = 3

// ErrNoOverlap reports a degenerate comparison with no usable points.
var ErrNoOverlap = errors.New("rfactor: curves have no usable overlap")

// Result holds an R-factor comparison and its diagnostic statistics over
// the compared overlap.
type Result struct {
	// R is the Pendry R-factor: sum((y2-y1)^2) / sum(y1^2 + y2^2).
	R float64

	// MaxIntensity1 and MaxIntensity2 are the per-curve maxima of the
	// offset-corrected intensities in the overlap.
	MaxIntensity1 float64
	MaxIntensity2 float64

	// AvgIntensity is the geometric mean of the two summed intensities
	// divided by the overlap point count.
	AvgIntensity float64

	// OverlapPoints is the number of points contributing to the sums.
	OverlapPoints int

	// IntensityRatio is the ratio of the two summed intensities.
	IntensityRatio float64
}

// YTransform computes the Pendry Y-function from three consecutive
// samples of a non-negative curve:
//
//	2L = (right - left) / (mid + eps)
//	y  = 2L / (1 + (0.5 * v0iOverStep * 2L)^2)
//
// v0iOverStep is V0i divided by the energy step of the grid.
func YTransform(left, mid, right, v0iOverStep float64) float64 {
	twoL := (right - left) / (mid + yEpsilon)

	d := 0.5 * v0iOverStep * twoL

	return twoL / (1 + d*d)
}

// Calculate compares curve2 against curve1 over the index window
// [start, end), with curve2 shifted by shift grid points to align the
// energy origins. Both curves are offset by their most negative value in
// the overlap so the Y transform sees non-negative intensities.
//
// A comparison without usable points returns ErrNoOverlap along with the
// diagnostic counts gathered so far.
func Calculate(curve1, curve2 []float64, start, end, shift int, v0iOverStep float64) (Result, error) {
	start, end = clipWindow(start, end, len(curve1))

	offset1, offset2 := offsets(curve1, curve2, start, end, shift)

	var (
		res        Result
		num, den   float64
		sum1, sum2 float64
	)

	for i := start; i < end; i++ {
		if !jointValid(curve1, curve2, i, shift) ||
			!jointValid(curve1, curve2, i-1, shift) ||
			!jointValid(curve1, curve2, i+1, shift) {
			continue
		}

		v1 := curve1[i] + offset1
		v2 := curve2[i-shift] + offset2

		y1 := YTransform(curve1[i-1]+offset1, v1, curve1[i+1]+offset1, v0iOverStep)
		y2 := YTransform(curve2[i-1-shift]+offset2, v2, curve2[i+1-shift]+offset2, v0iOverStep)

		d := y2 - y1
		num += d * d
		den += y1*y1 + y2*y2

		sum1 += v1
		sum2 += v2

		if v1 > res.MaxIntensity1 {
			res.MaxIntensity1 = v1
		}

		if v2 > res.MaxIntensity2 {
			res.MaxIntensity2 = v2
		}

		res.OverlapPoints++
	}

	if den == 0 {
		return res, ErrNoOverlap
	}

	res.R = num / den
	res.AvgIntensity = math.Sqrt(sum1*sum2) / float64(res.OverlapPoints)
	res.IntensityRatio = sum1 / sum2

	return res, nil
}

// OverlapRanges returns the index spans where both curves hold at least
// minOverlapRun consecutive valid points simultaneously, plus the total
// point count over all spans. Shorter joint runs are discarded.
func OverlapRanges(curve1, curve2 []float64) ([]curve.Range, int) {
	var (
		ranges []curve.Range
		total  int
	)

	n := len(curve1)
	if len(curve2) < n {
		n = len(curve2)
	}

	start := -1
	for i := 0; i <= n; i++ {
		if i < n && curve.IsValid(curve1, i) && curve.IsValid(curve2, i) {
			if start < 0 {
				start = i
			}

			continue
		}

		if start >= 0 {
			if i-start >= minOverlapRun {
				ranges = append(ranges, curve.Range{Start: start, End: i})
				total += i - start
			}

			start = -1
		}
	}

	return ranges, total
}

// YCurve computes the per-point Y transform of one curve across its full
// length, NaN where the central difference lacks valid neighbors. The
// curve is offset to be non-negative first, and the output is scaled so
// its maximum magnitude is 0.99.
func YCurve(c []float64, v0iOverStep float64) []float64 {
	offset := negativityOffset(c)

	y := make([]float64, len(c))
	maxAbs := 0.0

	for i := range y {
		if !curve.IsValid(c, i-1) || !curve.IsValid(c, i) || !curve.IsValid(c, i+1) {
			y[i] = math.NaN()
			continue
		}

		y[i] = YTransform(c[i-1]+offset, c[i]+offset, c[i+1]+offset, v0iOverStep)

		if a := math.Abs(y[i]); a > maxAbs {
			maxAbs = a
		}
	}

	if maxAbs > 0 {
		vecmath.ScaleBlock(y, y, yCurveMaxAbs/maxAbs)
	}

	return y
}

// FromY computes the R-factor directly from two precomputed Y curves,
// using the points where both are valid.
func FromY(y1, y2 []float64) (float64, error) {
	n := len(y1)
	if len(y2) < n {
		n = len(y2)
	}

	var num, den float64

	for i := 0; i < n; i++ {
		if !curve.IsValid(y1, i) || !curve.IsValid(y2, i) {
			continue
		}

		d := y2[i] - y1[i]
		num += d * d
		den += y1[i]*y1[i] + y2[i]*y2[i]
	}

	if den == 0 {
		return 0, ErrNoOverlap
	}

	return num / den, nil
}

func clipWindow(start, end, n int) (int, int) {
	if start < 0 {
		start = 0
	}

	if end <= 0 || end > n {
		end = n
	}

	if end < start {
		end = start
	}

	return start, end
}

// jointValid reports whether both curves hold data at logical index i,
// with curve2 read at i-shift.
func jointValid(curve1, curve2 []float64, i, shift int) bool {
	return curve.IsValid(curve1, i) && curve.IsValid(curve2, i-shift)
}

// offsets returns the negation of each curve's most negative value over
// the jointly valid points of the window, or 0 for curves that stay
// non-negative there.
func offsets(curve1, curve2 []float64, start, end, shift int) (float64, float64) {
	min1, min2 := 0.0, 0.0

	for i := start; i < end; i++ {
		if !jointValid(curve1, curve2, i, shift) {
			continue
		}

		if v := curve1[i]; v < min1 {
			min1 = v
		}

		if v := curve2[i-shift]; v < min2 {
			min2 = v
		}
	}

	return -min1, -min2
}

// negativityOffset is the single-curve variant used by YCurve.
func negativityOffset(c []float64) float64 {
	min := 0.0

	for _, v := range c {
		if !math.IsNaN(v) && v < min {
			min = v
		}
	}

	return -min
}
