package resample

import "sort"

// spline is a natural cubic spline through strictly increasing knots.
// Second derivatives are solved once at construction; evaluation uses a
// binary search for the segment.
type spline struct {
	xs []float64
	ys []float64
	y2 []float64 // second derivatives at the knots
}

// newSpline fits a natural cubic spline (zero second derivative at both
// ends) through the given knots. At least two knots are required.
func newSpline(xs, ys []float64) *spline {
	n := len(xs)
	s := &spline{xs: xs, ys: ys, y2: make([]float64, n)}

	if n < 3 {
		// Two knots degrade to a straight line; y2 stays zero.
		return s
	}

	// Tridiagonal solve via forward elimination and back substitution.
	scratch := make([]float64, n)

	for i := 1; i < n-1; i++ {
		sig := (xs[i] - xs[i-1]) / (xs[i+1] - xs[i-1])
		p := sig*s.y2[i-1] + 2

		s.y2[i] = (sig - 1) / p

		d := (ys[i+1]-ys[i])/(xs[i+1]-xs[i]) - (ys[i]-ys[i-1])/(xs[i]-xs[i-1])
		scratch[i] = (6*d/(xs[i+1]-xs[i-1]) - sig*scratch[i-1]) / p
	}

	for i := n - 2; i >= 0; i-- {
		s.y2[i] = s.y2[i]*s.y2[i+1] + scratch[i]
	}

	return s
}

// eval evaluates the spline at x. Values outside the knot span are
// clamped to the nearest segment; callers gate on the span themselves.
func (s *spline) eval(x float64) float64 {
	n := len(s.xs)

	hi := sort.SearchFloat64s(s.xs, x)
	if hi <= 0 {
		hi = 1
	}

	if hi >= n {
		hi = n - 1
	}

	lo := hi - 1

	h := s.xs[hi] - s.xs[lo]
	a := (s.xs[hi] - x) / h
	b := (x - s.xs[lo]) / h

	return a*s.ys[lo] + b*s.ys[hi] +
		((a*a*a-a)*s.y2[lo]+(b*b*b-b)*s.y2[hi])*h*h/6
}
