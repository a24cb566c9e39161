package dsp

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Intervals converts peak indices to consecutive beat-to-beat distances in
// samples. Peak indices must be strictly increasing.
func Intervals(peaks []int) []int {
	if len(peaks) < 2 {
		return nil
	}
	out := make([]int, 0, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		gap := peaks[i] - peaks[i-1]
		if gap <= 0 {
			panic("dsp: peak indices not strictly increasing")
		}
		out = append(out, gap)
	}
	return out
}

// FilterOutliers keeps only intervals within the given fractional tolerance
// of the median interval. The median is robust against the ectopic beats and
// dropout gaps this is meant to remove, so no distribution is assumed.
// Tolerance must be in (0, 1).
func FilterOutliers(intervals []int, tolerance float64) []int {
	if tolerance <= 0 || tolerance >= 1 {
		panic("dsp: outlier tolerance must be in (0, 1)")
	}
	if len(intervals) == 0 {
		return nil
	}
	median := MedianInt(intervals)
	lo := median * (1 - tolerance)
	hi := median * (1 + tolerance)
	out := make([]int, 0, len(intervals))
	for _, v := range intervals {
		f := float64(v)
		if f >= lo && f <= hi {
			out = append(out, v)
		}
	}
	return out
}

// MedianInt returns the median of a slice of ints as a float64.
func MedianInt(values []int) float64 {
	if len(values) == 0 {
		panic("dsp: median of empty slice")
	}
	sorted := make([]float64, len(values))
	for i, v := range values {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

// MeanInt returns the arithmetic mean of a slice of ints.
func MeanInt(values []int) float64 {
	if len(values) == 0 {
		panic("dsp: mean of empty slice")
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// StdDevInt returns the sample standard deviation of a slice of ints.
// It returns 0 for slices shorter than two elements.
func StdDevInt(values []int) float64 {
	if len(values) < 2 {
		return 0
	}
	floats := make([]float64, len(values))
	for i, v := range values {
		floats[i] = float64(v)
	}
	return stat.StdDev(floats, nil)
}
