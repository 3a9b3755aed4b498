// Package rfactor quantifies the dissimilarity of two I(V) curves with
// the Pendry R-factor.
//
// The metric compares logarithmic derivatives through the Y-function
// transform, which makes it insensitive to the overall intensity scale of
// either curve. [Calculate] returns the R-factor together with diagnostic
// statistics of the compared overlap; [YCurve] exposes the per-point Y
// transform of a single curve for plotting, and [FromY] computes the
// R-factor directly from two cached Y curves.
//
// A comparison with no usable overlap is reported as [ErrNoOverlap],
// which keeps it distinct from a computed R-factor of exactly zero.
package rfactor
