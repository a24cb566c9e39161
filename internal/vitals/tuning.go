package vitals

import (
	"fmt"
	"math"

	"vitalscan/internal/contact"
)

// Tuning collects every adjustable threshold in the estimation pipeline with
// its unit, so values can be tested and tuned independently of the code that
// applies them.
type Tuning struct {
	// MinSessionSeconds is the minimum buffered duration (after contact was
	// established) before estimation is attempted.
	MinSessionSeconds float64
	// MinIntervals is the minimum raw beat-to-beat interval count; fewer is
	// ErrInsufficientBeats.
	MinIntervals int
	// MinValidIntervals is the minimum interval count surviving outlier
	// filtering; fewer is ErrIrregularRhythm.
	MinValidIntervals int
	// PeakThresholdStdDevs is the k in the peak threshold mean + k*stddev.
	PeakThresholdStdDevs float64
	// OutlierTolerance is the fractional distance from the median interval
	// within which an interval is kept.
	OutlierTolerance float64
	// Physiological BPM bounds; a result outside them is a failure.
	MinBPM int
	MaxBPM int

	// Confidence blend weights over interval consistency, coupling quality,
	// and outlier-survival yield. Must sum to 1.
	ConsistencyWeight float64
	CouplingWeight    float64
	YieldWeight       float64
	// ConfidenceCap is the ceiling on reported confidence; the engine never
	// claims certainty.
	ConfidenceCap int
	// FullConfidenceIntervals is the valid-interval count at which the short
	// -scan attenuation stops discounting confidence. Shorter scans report
	// proportionally lower confidence regardless of how clean they look.
	FullConfidenceIntervals int

	// SpO2 heuristic: baseline percentage minus scaled coefficient of
	// variation of the raw signal, clamped to [floor, ceiling].
	SpO2Baseline float64
	SpO2Scale    float64
	SpO2Floor    float64
	SpO2Ceiling  float64

	// Contact holds the coupling gate thresholds.
	Contact contact.Tuning
}

// DefaultTuning returns the engine defaults.
func DefaultTuning() Tuning {
	return Tuning{
		MinSessionSeconds:       5,
		MinIntervals:            4,
		MinValidIntervals:       3,
		PeakThresholdStdDevs:    0.5,
		OutlierTolerance:        0.30,
		MinBPM:                  30,
		MaxBPM:                  220,
		ConsistencyWeight:       0.40,
		CouplingWeight:          0.35,
		YieldWeight:             0.25,
		ConfidenceCap:           99,
		FullConfidenceIntervals: 8,
		SpO2Baseline:            98,
		SpO2Scale:               40,
		SpO2Floor:               85,
		SpO2Ceiling:             100,
		Contact:                 contact.DefaultTuning(),
	}
}

// Validate checks the tuning for internal consistency.
func (t Tuning) Validate() error {
	if t.MinSessionSeconds <= 0 {
		return fmt.Errorf("vitals: min session seconds must be positive, got %v", t.MinSessionSeconds)
	}
	if t.MinIntervals < 1 || t.MinValidIntervals < 1 {
		return fmt.Errorf("vitals: interval minimums must be positive")
	}
	if t.MinValidIntervals > t.MinIntervals {
		return fmt.Errorf("vitals: min valid intervals %d exceeds min intervals %d", t.MinValidIntervals, t.MinIntervals)
	}
	if t.PeakThresholdStdDevs <= 0 {
		return fmt.Errorf("vitals: peak threshold stddevs must be positive, got %v", t.PeakThresholdStdDevs)
	}
	if t.OutlierTolerance <= 0 || t.OutlierTolerance >= 1 {
		return fmt.Errorf("vitals: outlier tolerance %v outside (0, 1)", t.OutlierTolerance)
	}
	if t.MinBPM <= 0 || t.MaxBPM <= t.MinBPM {
		return fmt.Errorf("vitals: BPM bounds inverted (%d, %d)", t.MinBPM, t.MaxBPM)
	}
	if t.ConsistencyWeight < 0 || t.CouplingWeight < 0 || t.YieldWeight < 0 {
		return fmt.Errorf("vitals: confidence weights must be non-negative (%v, %v, %v)",
			t.ConsistencyWeight, t.CouplingWeight, t.YieldWeight)
	}
	sum := t.ConsistencyWeight + t.CouplingWeight + t.YieldWeight
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("vitals: confidence weights sum to %v, want 1", sum)
	}
	if t.ConfidenceCap < 1 || t.ConfidenceCap > 99 {
		return fmt.Errorf("vitals: confidence cap %d outside [1, 99]", t.ConfidenceCap)
	}
	if t.FullConfidenceIntervals < t.MinValidIntervals {
		return fmt.Errorf("vitals: full-confidence intervals %d below min valid intervals %d", t.FullConfidenceIntervals, t.MinValidIntervals)
	}
	if t.SpO2Scale <= 0 {
		return fmt.Errorf("vitals: SpO2 scale must be positive, got %v", t.SpO2Scale)
	}
	if t.SpO2Floor < 0 || t.SpO2Floor >= t.SpO2Ceiling || t.SpO2Baseline > t.SpO2Ceiling {
		return fmt.Errorf("vitals: SpO2 bounds inconsistent")
	}
	return t.Contact.Validate()
}
