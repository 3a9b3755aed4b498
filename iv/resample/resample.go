package resample

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-iv/iv/curve"
)

// gridEpsilon is the position tolerance used when deciding whether a grid
// point falls inside a span, as a fraction of the grid step.
const gridEpsilon = 1e-6

// ErrMismatchedLength is returned when a curve and its energy axis differ
// in length.
var ErrMismatchedLength = errors.New("resample: curve and energy axis must have same length")

// NewGrid returns the evenly spaced grid points k*step with the smallest
// point >= first (within a small epsilon) and the largest point <= last.
func NewGrid(first, last, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, fmt.Errorf("resample: step must be > 0: %g", step)
	}

	eps := gridEpsilon * step

	start := math.Ceil((first-eps)/step) * step
	if start > last+eps {
		return nil, nil
	}

	n := int(math.Floor((last+eps-start)/step)) + 1

	grid := make([]float64, n)
	for i := range grid {
		grid[i] = start + float64(i)*step
	}

	return grid, nil
}

// Resample evaluates the curve (oldX, oldY) at the positions newX and
// returns the values as a new slice. Each maximal run of valid samples
// with at least two points is fitted with a natural cubic spline and
// evaluated at every new position inside the run's span; single-point
// runs only fill new positions coinciding with the sample. Positions
// outside any run stay NaN, so gaps are preserved and the curve is never
// extrapolated.
func Resample(oldX, newX, oldY []float64) ([]float64, error) {
	if len(oldX) != len(oldY) {
		return nil, ErrMismatchedLength
	}

	out := make([]float64, len(newX))
	for i := range out {
		out[i] = math.NaN()
	}

	if len(newX) == 0 {
		return out, nil
	}

	eps := positionEpsilon(newX)

	for _, r := range curve.ValidRanges(oldY) {
		lo := oldX[r.Start] - eps
		hi := oldX[r.End-1] + eps

		if r.Len() == 1 {
			for j, x := range newX {
				if x >= lo && x <= hi {
					out[j] = oldY[r.Start]
				}
			}

			continue
		}

		sp := newSpline(oldX[r.Start:r.End], oldY[r.Start:r.End])

		for j, x := range newX {
			if x < lo || x > hi {
				continue
			}

			out[j] = sp.eval(clamp(x, oldX[r.Start], oldX[r.End-1]))
		}
	}

	return out, nil
}

// positionEpsilon derives the span tolerance from the new grid's spacing.
func positionEpsilon(newX []float64) float64 {
	if len(newX) < 2 {
		return 0
	}

	step := (newX[len(newX)-1] - newX[0]) / float64(len(newX)-1)
	if step <= 0 {
		return 0
	}

	return gridEpsilon * step
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}

	if x > hi {
		return hi
	}

	return x
}
