package classify

import (
	"fmt"
	"strings"
)

// Band is a coarse risk level for a set of vitals. Bands are ordered:
// a higher band always dominates when vitals disagree.
type Band int

const (
	BandNormal Band = iota
	BandMonitor
	BandConcerning
	BandCritical
)

func (b Band) String() string {
	switch b {
	case BandNormal:
		return "normal"
	case BandMonitor:
		return "monitor"
	case BandConcerning:
		return "concerning"
	case BandCritical:
		return "critical"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

// Input carries the vitals to classify. SpO2Pct and TemperatureC are
// optional; absent vitals contribute nothing to the band.
type Input struct {
	HeartRateBPM int
	SpO2Pct      *int
	TemperatureC *float64
}

// Assessment is the classification result: the dominating band, one finding
// per out-of-band vital, and a band-level recommendation.
type Assessment struct {
	Band           Band
	Findings       []string
	Recommendation string
}

// Classify applies the threshold table to the given vitals. It is a pure
// lookup; it never rejects an input, since range-gating already happened in
// the estimation pipeline.
func Classify(in Input) Assessment {
	band := BandNormal
	var findings []string

	raise := func(b Band, finding string) {
		if b > band {
			band = b
		}
		findings = append(findings, finding)
	}

	switch bpm := in.HeartRateBPM; {
	case bpm < 40:
		raise(BandCritical, fmt.Sprintf("severe bradycardia (%d BPM)", bpm))
	case bpm < 50:
		raise(BandConcerning, fmt.Sprintf("bradycardia (%d BPM)", bpm))
	case bpm < 60:
		raise(BandMonitor, fmt.Sprintf("low heart rate (%d BPM)", bpm))
	case bpm <= 100:
		// Resting range.
	case bpm <= 120:
		raise(BandMonitor, fmt.Sprintf("elevated heart rate (%d BPM)", bpm))
	case bpm <= 150:
		raise(BandConcerning, fmt.Sprintf("tachycardia (%d BPM)", bpm))
	default:
		raise(BandCritical, fmt.Sprintf("severe tachycardia (%d BPM)", bpm))
	}

	if in.SpO2Pct != nil {
		switch spo2 := *in.SpO2Pct; {
		case spo2 < 90:
			raise(BandCritical, fmt.Sprintf("severe hypoxemia (%d%% SpO2)", spo2))
		case spo2 < 93:
			raise(BandConcerning, fmt.Sprintf("low oxygen saturation (%d%% SpO2)", spo2))
		case spo2 < 95:
			raise(BandMonitor, fmt.Sprintf("borderline oxygen saturation (%d%% SpO2)", spo2))
		}
	}

	if in.TemperatureC != nil {
		switch temp := *in.TemperatureC; {
		case temp < 34.0 || temp > 39.4:
			raise(BandCritical, fmt.Sprintf("extreme body temperature (%.1f C)", temp))
		case temp < 35.0 || temp > 38.0:
			raise(BandConcerning, fmt.Sprintf("abnormal body temperature (%.1f C)", temp))
		case temp < 36.1 || temp > 37.2:
			raise(BandMonitor, fmt.Sprintf("borderline body temperature (%.1f C)", temp))
		}
	}

	return Assessment{
		Band:           band,
		Findings:       findings,
		Recommendation: recommendation(band, findings),
	}
}

func recommendation(band Band, findings []string) string {
	switch band {
	case BandNormal:
		return "Vitals within normal resting ranges."
	case BandMonitor:
		return fmt.Sprintf("Slightly outside resting range (%s). Rest and rescan in a few minutes.", strings.Join(findings, "; "))
	case BandConcerning:
		return fmt.Sprintf("Outside expected range (%s). Rescan now and consider contacting a clinician if it persists.", strings.Join(findings, "; "))
	default:
		return fmt.Sprintf("Critically out of range (%s). Verify sensor placement and seek medical attention if the value is real.", strings.Join(findings, "; "))
	}
}
