// Package dsp implements the deterministic signal-processing primitives the
// vitals engine runs over a finished sample buffer: DC removal, a symmetric
// moving-average smoother sized for the human heart-rate band, threshold-based
// peak detection with a refractory distance, and median-based beat-interval
// outlier filtering.
//
// Every function is a total, allocation-bounded computation over a finite
// slice. There is no hidden state and no data-dependent branching beyond the
// shrinking windows used at slice edges, so identical input always produces
// identical output regardless of platform. Malformed input (empty slices,
// non-positive sample rates) is a caller contract violation and panics rather
// than returning a degraded result.
package dsp
