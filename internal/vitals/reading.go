package vitals

import "time"

// Method identifies the sensor that produced a sample stream.
type Method string

const (
	MethodCamera        Method = "camera"
	MethodMicrophone    Method = "microphone"
	MethodAccelerometer Method = "accelerometer"
)

// Valid reports whether m is a known acquisition method.
func (m Method) Valid() bool {
	switch m {
	case MethodCamera, MethodMicrophone, MethodAccelerometer:
		return true
	}
	return false
}

// Quality is the coarse label derived from the confidence percentage.
type Quality string

const (
	QualityPoor      Quality = "poor"
	QualityFair      Quality = "fair"
	QualityGood      Quality = "good"
	QualityExcellent Quality = "excellent"
)

// Confidence thresholds for quality labels.
const (
	excellentThreshold = 90
	goodThreshold      = 80
	fairThreshold      = 70
)

// QualityForConfidence maps a confidence percentage to its label.
func QualityForConfidence(pct int) Quality {
	switch {
	case pct >= excellentThreshold:
		return QualityExcellent
	case pct >= goodThreshold:
		return QualityGood
	case pct >= fairThreshold:
		return QualityFair
	default:
		return QualityPoor
	}
}

// Reading is the engine's only externally visible output: one finished scan.
// It is immutable once constructed and the engine keeps no reference to it;
// retaining history is the caller's decision.
type Reading struct {
	HeartRateBPM  uint16
	ConfidencePct int
	Quality       Quality
	// SpO2Pct is a low-confidence heuristic estimate, present only for
	// camera scans. A single-wavelength camera cannot measure blood oxygen;
	// treat this as an estimate, never a definitive medical value.
	SpO2Pct     *int
	Method      Method
	SampleCount uint32
	ProducedAt  time.Time
}
