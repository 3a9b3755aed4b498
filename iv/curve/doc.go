// Package curve provides the shared primitives for I(V) curve data:
// parallel energy/intensity slices where NaN marks a missing sample.
//
// A curve is two []float64 of equal length. Energies are strictly
// increasing and nominally evenly spaced; intensities may contain NaN
// gaps anywhere. This package scans gap structure ([ValidRanges]),
// estimates the common energy step ([EnergyStep]) and offers the small
// validity helpers the processing packages (iv/smooth, iv/resample,
// iv/average, measure/rfactor) build on.
package curve
