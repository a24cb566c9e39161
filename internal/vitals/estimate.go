package vitals

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"vitalscan/internal/dsp"
)

// Estimate converts validated beat intervals into a Reading. couplingMean is
// the session-average coupling quality in [0, 100]; rawIntervalCount is the
// interval count before outlier filtering, used for the yield term.
// The BPM range check is a hard gate: out-of-range results are returned as
// ErrOutOfRange, never clamped to the nearest bound.
func Estimate(validIntervals []int, rawIntervalCount int, sampleRate float64, couplingMean float64, tuning Tuning) (uint16, int, error) {
	if len(validIntervals) == 0 {
		panic("vitals: estimate with no intervals")
	}
	if sampleRate <= 0 {
		panic("vitals: estimate with non-positive sample rate")
	}
	if rawIntervalCount < len(validIntervals) {
		panic("vitals: raw interval count below valid count")
	}

	meanInterval := dsp.MeanInt(validIntervals)
	bpm := int(math.Round(60 * sampleRate / meanInterval))
	if bpm < tuning.MinBPM || bpm > tuning.MaxBPM {
		return 0, 0, Wrap(ErrOutOfRange, "estimate", "range gate",
			fmt.Sprintf("computed %d BPM outside [%d, %d]", bpm, tuning.MinBPM, tuning.MaxBPM), nil)
	}

	confidence := confidencePct(validIntervals, rawIntervalCount, couplingMean, tuning)
	return uint16(bpm), confidence, nil
}

// confidencePct blends interval consistency, coupling quality, and outlier
// survival into a 0..cap percentage, attenuated for short scans so a handful
// of clean beats never reports the confidence of a full-length scan.
func confidencePct(validIntervals []int, rawIntervalCount int, couplingMean float64, tuning Tuning) int {
	mean := dsp.MeanInt(validIntervals)
	stddev := dsp.StdDevInt(validIntervals)

	consistency := clamp01(1 - stddev/mean)
	coupling := clamp01(couplingMean / 100)
	yield := clamp01(float64(len(validIntervals)) / float64(rawIntervalCount))

	blend := tuning.ConsistencyWeight*consistency + tuning.CouplingWeight*coupling + tuning.YieldWeight*yield

	coverage := clamp01(float64(len(validIntervals)) / float64(tuning.FullConfidenceIntervals))
	pct := int(math.Round(100 * blend * coverage))
	if pct < 0 {
		pct = 0
	}
	if pct > tuning.ConfidenceCap {
		pct = tuning.ConfidenceCap
	}
	return pct
}

// EstimateSpO2 derives the heuristic oxygen-saturation estimate from the raw
// pre-filter sample buffer: a baseline of 98% minus the scaled coefficient of
// variation of the signal amplitude, clamped to a plausible band. A single
// RGB camera cannot measure true SpO2; this mirrors what single-wavelength
// consumer apps report and is flagged as an estimate throughout.
func EstimateSpO2(raw []float64, tuning Tuning) int {
	if len(raw) == 0 {
		panic("vitals: SpO2 estimate on empty buffer")
	}
	mean := stat.Mean(raw, nil)
	if mean == 0 {
		return int(tuning.SpO2Floor)
	}
	cv := math.Abs(stat.StdDev(raw, nil) / mean)
	if math.IsNaN(cv) {
		cv = 0
	}
	est := tuning.SpO2Baseline - tuning.SpO2Scale*cv
	if est < tuning.SpO2Floor {
		est = tuning.SpO2Floor
	}
	if est > tuning.SpO2Ceiling {
		est = tuning.SpO2Ceiling
	}
	return int(math.Round(est))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
