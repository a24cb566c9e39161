package simulate

import (
	"math"
	"math/rand"
	"time"
)

// PulseOptions describes a synthetic PPG-like waveform: a systolic peak and
// a smaller dicrotic bump per beat cycle, on a DC baseline with slow wander
// and optional gaussian noise.
type PulseOptions struct {
	BPM        float64
	SampleRate float64
	Duration   time.Duration

	// Baseline is the DC level (channel brightness for camera streams,
	// offset for amplitude streams). Amplitude scales the pulse waveform.
	Baseline  float64
	Amplitude float64

	// NoiseStdDev is the standard deviation of added gaussian noise, in the
	// same units as Amplitude. WanderAmplitude scales a slow sinusoidal
	// baseline drift imitating breathing and grip shift.
	NoiseStdDev     float64
	WanderAmplitude float64

	// Seed fixes the noise stream. The same options always produce the same
	// samples.
	Seed int64

	// MissedBeats lists zero-based beat numbers to suppress entirely,
	// leaving a flat gap where a beat should be. Used to exercise interval
	// outlier rejection.
	MissedBeats []int
}

// DefaultPulseOptions is a clean resting-rate camera-style scan: 72 BPM at
// 30 Hz for 10 seconds.
func DefaultPulseOptions() PulseOptions {
	return PulseOptions{
		BPM:             72,
		SampleRate:      30,
		Duration:        10 * time.Second,
		Baseline:        90,
		Amplitude:       10,
		WanderAmplitude: 0.5,
	}
}

// Waveform shape within one beat cycle, phases in [0, 1). The systolic peak
// dominates; the dicrotic bump stays small enough that it never crosses the
// detector threshold on its own.
const (
	systolicPhase = 0.30
	systolicWidth = 0.08
	dicroticPhase = 0.65
	dicroticWidth = 0.10
	dicroticScale = 0.20

	wanderHz = 0.25
)

// PulseTrain renders the configured waveform as a sample slice.
func PulseTrain(opts PulseOptions) []float64 {
	if opts.BPM <= 0 || opts.SampleRate <= 0 || opts.Duration <= 0 {
		panic("simulate: pulse options require positive BPM, rate, and duration")
	}
	n := int(math.Round(opts.SampleRate * opts.Duration.Seconds()))
	rng := rand.New(rand.NewSource(opts.Seed))

	missed := make(map[int]bool, len(opts.MissedBeats))
	for _, beat := range opts.MissedBeats {
		missed[beat] = true
	}

	beatsPerSecond := opts.BPM / 60
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / opts.SampleRate
		beatPosition := t * beatsPerSecond
		beat := int(beatPosition)
		phase := beatPosition - float64(beat)

		pulse := 0.0
		if !missed[beat] {
			pulse = gauss(phase, systolicPhase, systolicWidth) +
				dicroticScale*gauss(phase, dicroticPhase, dicroticWidth)
		}

		wander := opts.WanderAmplitude * math.Sin(2*math.Pi*wanderHz*t)
		noise := 0.0
		if opts.NoiseStdDev > 0 {
			noise = rng.NormFloat64() * opts.NoiseStdDev
		}
		out[i] = opts.Baseline + opts.Amplitude*pulse + wander + noise
	}
	return out
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}
