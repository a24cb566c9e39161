package dsp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Heart-rate passband in Hz. 0.5 Hz corresponds to 30 BPM, 4 Hz to 240 BPM.
// Drift below the band is handled by mean subtraction; the moving-average
// window is sized to attenuate noise above the band.
const (
	passbandLowHz  = 0.5
	passbandHighHz = 4.0
)

// Detrend returns a copy of raw with its arithmetic mean subtracted,
// removing the DC offset contributed by ambient brightness or sensor bias.
func Detrend(raw []float64) []float64 {
	if len(raw) == 0 {
		panic("dsp: detrend of empty slice")
	}
	mean := stat.Mean(raw, nil)
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = v - mean
	}
	return out
}

// Smooth applies a symmetric moving average of the given window size.
// Edge samples use truncated windows rather than zero padding or wrap-around,
// so output length equals input length and no edge artifacts are introduced.
// The window must be odd and at least 3.
func Smooth(raw []float64, window int) []float64 {
	if len(raw) == 0 {
		panic("dsp: smooth of empty slice")
	}
	if window < 3 || window%2 == 0 {
		panic(fmt.Sprintf("dsp: smoothing window must be odd and >= 3, got %d", window))
	}
	half := window / 2
	out := make([]float64, len(raw))
	for i := range raw {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(raw)-1 {
			hi = len(raw) - 1
		}
		sum := 0.0
		for j := lo; j <= hi; j++ {
			sum += raw[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// PassbandWindow returns the moving-average window size that passes the
// heart-rate band at the given sample rate. A moving average of this width
// has its first null near the top of the band, attenuating sensor noise
// while leaving pulse frequencies largely intact.
func PassbandWindow(sampleRate float64) int {
	if sampleRate <= 0 {
		panic("dsp: non-positive sample rate")
	}
	window := int(math.Round(sampleRate / (2 * passbandHighHz)))
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	return window
}

// Bandpass runs the full filter chain: DC removal followed by smoothing with
// a window sized for the sample rate. Output length equals input length.
func Bandpass(raw []float64, sampleRate float64) []float64 {
	return Smooth(Detrend(raw), PassbandWindow(sampleRate))
}
