package curve

import "math"

// stepTolerance is the maximum relative deviation of a single energy
// increment from the mean increment before the axis counts as irregular.
const stepTolerance = 0.01

// Range is a half-open index span [Start, End) into a curve.
type Range struct {
	Start int
	End   int
}

// Len returns the number of indices covered by the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}

	return r.End - r.Start
}

// Empty reports whether the range covers no indices.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Clip restricts the range to [start, end).
func (r Range) Clip(start, end int) Range {
	if r.Start < start {
		r.Start = start
	}

	if r.End > end {
		r.End = end
	}

	if r.End < r.Start {
		r.End = r.Start
	}

	return r
}

// IsValid reports whether data[i] holds a measured value (not NaN).
// Out-of-bounds indices count as missing.
func IsValid(data []float64, i int) bool {
	if i < 0 || i >= len(data) {
		return false
	}

	return !math.IsNaN(data[i])
}

// CountValid returns the number of non-NaN samples in data.
func CountValid(data []float64) int {
	n := 0
	for _, v := range data {
		if !math.IsNaN(v) {
			n++
		}
	}

	return n
}

// ValidRanges returns the maximal runs of consecutive non-NaN samples,
// in ascending index order.
func ValidRanges(data []float64) []Range {
	var ranges []Range

	start := -1
	for i, v := range data {
		if math.IsNaN(v) {
			if start >= 0 {
				ranges = append(ranges, Range{Start: start, End: i})
				start = -1
			}

			continue
		}

		if start < 0 {
			start = i
		}
	}

	if start >= 0 {
		ranges = append(ranges, Range{Start: start, End: len(data)})
	}

	return ranges
}

// LongestValidRange returns the longest run of consecutive non-NaN samples
// after clipping to the window [start, end). Runs of equal length resolve
// to the leftmost. An empty Range is returned if no sample in the window
// is valid.
func LongestValidRange(data []float64, start, end int) Range {
	if start < 0 {
		start = 0
	}

	if end > len(data) {
		end = len(data)
	}

	best := Range{}
	for _, r := range ValidRanges(data) {
		r = r.Clip(start, end)
		if r.Len() > best.Len() {
			best = r
		}
	}

	return best
}

// EnergyStep returns the common spacing of an energy axis. It returns NaN
// if the axis has fewer than two points, is not strictly increasing, or if
// any increment deviates from the mean increment by more than about 1%.
func EnergyStep(energies []float64) float64 {
	n := len(energies)
	if n < 2 {
		return math.NaN()
	}

	step := (energies[n-1] - energies[0]) / float64(n-1)
	if !(step > 0) {
		return math.NaN()
	}

	for i := 1; i < n; i++ {
		d := energies[i] - energies[i-1]
		if math.Abs(d-step) > stepTolerance*step {
			return math.NaN()
		}
	}

	return step
}
