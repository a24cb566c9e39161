package dsp

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// maxDetectableBPM bounds the refractory distance between accepted peaks.
// Anything faster than this is double-counting one beat's slopes, not a
// second beat.
const maxDetectableBPM = 220

// FindPeaks returns the indices of samples that look like pulse beats in a
// filtered signal. A sample qualifies when it strictly exceeds its two
// neighbors on each side and clears a threshold of mean + k standard
// deviations over the whole window. Candidates closer than refractory
// samples to the previously accepted peak are discarded, not merged.
// Ties on equal neighbor values resolve by keeping the first-seen index.
func FindPeaks(filtered []float64, k float64, refractory int) []int {
	if len(filtered) == 0 {
		panic("dsp: peak detection on empty slice")
	}
	if refractory < 1 {
		panic("dsp: refractory distance must be positive")
	}
	mean := stat.Mean(filtered, nil)
	stddev := stat.StdDev(filtered, nil)
	if math.IsNaN(stddev) {
		// Single-sample window; StdDev is undefined and nothing can peak.
		return nil
	}
	threshold := mean + k*stddev

	var peaks []int
	lastAccepted := -refractory - 1
	for i := 2; i < len(filtered)-2; i++ {
		v := filtered[i]
		if v <= threshold {
			continue
		}
		if !(v > filtered[i-1] && v > filtered[i-2] && v > filtered[i+1] && v > filtered[i+2]) {
			continue
		}
		if i-lastAccepted < refractory {
			continue
		}
		peaks = append(peaks, i)
		lastAccepted = i
	}
	return peaks
}

// RefractorySamples returns the minimum sample gap between accepted peaks for
// the given sample rate, derived from the fastest physiologically plausible
// heart rate. At 30 Hz this comes out to 8 samples.
func RefractorySamples(sampleRate float64) int {
	if sampleRate <= 0 {
		panic("dsp: non-positive sample rate")
	}
	gap := int(math.Floor(sampleRate * 60 / maxDetectableBPM))
	if gap < 1 {
		gap = 1
	}
	return gap
}
