// Package average merges several I(V) curves measured for the same or
// symmetry-equivalent beams into one representative curve.
//
// All input curves must share one energy axis; they may differ in NaN
// coverage. [Merge] picks the pair of curves with the largest contiguous
// overlap as a seed and then folds in the remaining curves in order of
// decreasing overlap. At every merge step a multiplicative drift between
// the incoming curve and the running average is estimated from the
// log-ratio of intensities and compensated by a linear trend across the
// overlap, and curve boundaries inside the overlap are faded in or out
// over a configurable blend length so that joins stay smooth.
//
// Curves whose overlap with the running average stays below
// Options.MinOverlap are skipped permanently; a merge never fails because
// of a single bad curve.
package average
