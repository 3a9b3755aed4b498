package average

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-iv/iv/curve"
)

const (
	// blendScale converts the physical smoothing width V0i/EnergyStep
	// into the default blend length in grid points.
	blendScale = 2.0

	// maxRatio bounds plausible amplitude drift between two measurements
	// of the same beam. Ratio estimates outside [1/maxRatio, maxRatio]
	// are discarded as unreliable.
	maxRatio = 10.0

	// shortOverlapFactor: overlaps not longer than this many blend
	// lengths use a single whole-range drift estimate instead of two
	// edge sub-windows.
	shortOverlapFactor = 5

	// ratioWindowFactor sets the edge sub-window length for drift
	// estimation, in blend lengths.
	ratioWindowFactor = 2
)

// Merge errors. Soft conditions (no usable data, insufficient overlap)
// return nil results instead.
var (
	ErrMismatchedLength = errors.New("average: curves must all have the same length")
)

// Options configures a merge call. Every parameter is explicit; there are
// no remembered defaults.
type Options struct {
	// MinOverlap is the smallest contiguous pairwise overlap, in grid
	// points, that still allows merging a curve.
	MinOverlap int

	// BlendLength overrides the fade length in grid points. When 0 it is
	// derived from V0i and EnergyStep.
	BlendLength int

	// V0i is the imaginary part of the inner potential in eV, EnergyStep
	// the grid spacing in eV. Together they set the default blend length.
	V0i        float64
	EnergyStep float64

	// Start and End restrict merging to the index window [Start, End).
	// End <= 0 means the full curve length.
	Start int
	End   int
}

func (o Options) blendLength() int {
	if o.BlendLength > 0 {
		return o.BlendLength
	}

	if o.V0i > 0 && o.EnergyStep > 0 {
		bl := int(math.Round(blendScale * o.V0i / o.EnergyStep))
		if bl > 1 {
			return bl
		}
	}

	return 1
}

func (o Options) window(n int) (curve.Range, error) {
	start := o.Start
	if start < 0 {
		start = 0
	}

	end := o.End
	if end <= 0 || end > n {
		end = n
	}

	if start >= end {
		return curve.Range{}, fmt.Errorf("average: empty index window [%d, %d)", o.Start, o.End)
	}

	return curve.Range{Start: start, End: end}, nil
}

// blendState is the running accumulator of one merge call: a weighted sum
// and the accumulated (possibly fractional) contribution count per point.
type blendState struct {
	sum    []float64
	weight []float64
}

func newBlendState(n int) *blendState {
	return &blendState{
		sum:    make([]float64, n),
		weight: make([]float64, n),
	}
}

func (st *blendState) seed(c []float64, win curve.Range) {
	for i := win.Start; i < win.End; i++ {
		if curve.IsValid(c, i) {
			st.sum[i] = c[i]
			st.weight[i] = 1
		}
	}
}

// average materializes the current normalized curve, NaN where no curve
// has contributed yet.
func (st *blendState) average() []float64 {
	avg := make([]float64, len(st.sum))
	for i := range avg {
		if st.weight[i] > 0 {
			avg[i] = st.sum[i] / st.weight[i]
		} else {
			avg[i] = math.NaN()
		}
	}

	return avg
}

// Merge combines the given curves into one representative curve within
// the window configured in opts. Positions outside the window, and
// positions no curve covers, are NaN in the result.
//
// Curves that are entirely NaN or miss the window are discarded. If no
// pair of curves overlaps by at least MinOverlap points, the single curve
// with the longest contiguous valid run is returned unmodified (restricted
// to the window). If no curve has usable data, Merge returns nil with no
// error; only structurally invalid input produces an error.
func Merge(curves [][]float64, opts Options) ([]float64, error) {
	if len(curves) == 0 {
		return nil, nil
	}

	n := len(curves[0])
	for _, c := range curves[1:] {
		if len(c) != n {
			return nil, ErrMismatchedLength
		}
	}

	win, err := opts.window(n)
	if err != nil {
		return nil, err
	}

	usable := make([][]float64, 0, len(curves))
	for _, c := range curves {
		if !curve.LongestValidRange(c, win.Start, win.End).Empty() {
			usable = append(usable, c)
		}
	}

	if len(usable) == 0 {
		return nil, nil
	}

	bl := opts.blendLength()

	minOverlap := opts.MinOverlap
	if minOverlap < 1 {
		minOverlap = 1
	}

	first, second, seedLen := seedPair(usable, win)
	if seedLen < minOverlap || len(usable) == 1 {
		return bestSingle(usable, win), nil
	}

	st := newBlendState(n)
	st.seed(usable[first], win)
	mergeSmoothly(st, usable[second], bl, win)

	remaining := make([][]float64, 0, len(usable)-2)
	for i, c := range usable {
		if i != first && i != second {
			remaining = append(remaining, c)
		}
	}

	for len(remaining) > 0 {
		avg := st.average()

		best, bestLen := -1, 0
		for i, c := range remaining {
			if l := longestJointRun(avg, c, win).Len(); l > bestLen {
				best, bestLen = i, l
			}
		}

		// Every curve below MinOverlap stays excluded for good.
		if bestLen < minOverlap {
			break
		}

		mergeSmoothly(st, remaining[best], bl, win)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return finalize(st, win), nil
}

// seedPair returns the indices of the curve pair with the longest
// contiguous joint run in the window, ties resolved by encounter order.
func seedPair(curves [][]float64, win curve.Range) (first, second, runLen int) {
	first, second = 0, 1

	for i := 0; i < len(curves); i++ {
		for j := i + 1; j < len(curves); j++ {
			if l := longestJointRun(curves[i], curves[j], win).Len(); l > runLen {
				first, second, runLen = i, j, l
			}
		}
	}

	return first, second, runLen
}

// bestSingle returns a window-restricted copy of the curve with the
// longest contiguous valid run, values unmodified.
func bestSingle(curves [][]float64, win curve.Range) []float64 {
	best := curves[0]
	bestLen := curve.LongestValidRange(best, win.Start, win.End).Len()

	for _, c := range curves[1:] {
		if l := curve.LongestValidRange(c, win.Start, win.End).Len(); l > bestLen {
			best, bestLen = c, l
		}
	}

	out := make([]float64, len(best))
	for i := range out {
		if i >= win.Start && i < win.End {
			out[i] = best[i]
		} else {
			out[i] = math.NaN()
		}
	}

	return out
}

// longestJointRun returns the longest contiguous run inside the window
// where both curves hold valid data.
func longestJointRun(a, b []float64, win curve.Range) curve.Range {
	best := curve.Range{}
	start := -1

	for i := win.Start; i <= win.End; i++ {
		if i < win.End && curve.IsValid(a, i) && curve.IsValid(b, i) {
			if start < 0 {
				start = i
			}

			continue
		}

		if start >= 0 {
			if i-start > best.Len() {
				best = curve.Range{Start: start, End: i}
			}

			start = -1
		}
	}

	return best
}

func finalize(st *blendState, win curve.Range) []float64 {
	out := make([]float64, len(st.sum))

	for i := range out {
		if i >= win.Start && i < win.End && st.weight[i] > 0 {
			out[i] = st.sum[i] / st.weight[i]
		} else {
			out[i] = math.NaN()
		}
	}

	return out
}
