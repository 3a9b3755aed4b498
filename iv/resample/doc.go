// Package resample moves I(V) curves onto a new evenly spaced energy
// grid.
//
// [NewGrid] builds a grid of step multiples covering a requested energy
// range. [Resample] evaluates a curve at the new grid positions using a
// natural cubic spline per contiguous run of valid samples; it never
// extrapolates, so positions outside the curve's valid envelope stay NaN
// and the curve's gap structure carries over to the new grid.
package resample
