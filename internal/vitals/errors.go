package vitals

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the expected, recoverable ways a scan attempt fails.
// None of these are defects: they classify why no trustworthy reading could
// be produced from the collected signal.
var (
	// ErrInsufficientSamples means the session ended before the minimum
	// required samples were collected, typically early cancellation or a
	// sensor that never established contact.
	ErrInsufficientSamples = errors.New("insufficient samples")
	// ErrInsufficientBeats means fewer detectable pulse peaks were found
	// than the minimum needed to estimate a rate.
	ErrInsufficientBeats = errors.New("insufficient beats")
	// ErrIrregularRhythm means too few beat intervals survived outlier
	// filtering; the signal is too noisy or erratic to trust.
	ErrIrregularRhythm = errors.New("irregular rhythm")
	// ErrOutOfRange means the computed BPM fell outside the physiological
	// range, which is evidence of a corrupted signal rather than a reading
	// worth clamping.
	ErrOutOfRange = errors.New("out of physiological range")
)

// Wrap builds an error message that includes pipeline context while tagging
// it with the provided sentinel for errors.Is classification by callers.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		panic("vitals: Wrap requires a sentinel marker")
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Guidance maps a scan failure to the remediation message a UI should show.
// Unknown errors get a generic retry prompt.
func Guidance(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientSamples):
		return "Not enough data collected. Scan for the full duration without lifting the sensor."
	case errors.Is(err, ErrInsufficientBeats):
		return "No clear pulse detected. Press the sensor more firmly and hold still."
	case errors.Is(err, ErrIrregularRhythm):
		return "Signal too irregular to trust. Try again with a steadier placement."
	case errors.Is(err, ErrOutOfRange):
		return "Measurement looks non-physiological. Reposition the sensor and rescan."
	default:
		return "Scan failed. Try again."
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "scan failure"
	}
	return strings.Join(parts, ": ")
}
