package dsp

import (
	"math"
	"testing"
)

func TestDetrendRemovesMean(t *testing.T) {
	raw := []float64{10, 12, 14, 12, 10}
	out := Detrend(raw)

	if len(out) != len(raw) {
		t.Fatalf("Detrend() length = %d, want %d", len(out), len(raw))
	}
	sum := 0.0
	for _, v := range out {
		sum += v
	}
	if math.Abs(sum) > 1e-9 {
		t.Errorf("Detrend() residual mean = %v, want ~0", sum/float64(len(out)))
	}
}

func TestDetrendDoesNotMutateInput(t *testing.T) {
	raw := []float64{1, 2, 3}
	Detrend(raw)
	if raw[0] != 1 || raw[1] != 2 || raw[2] != 3 {
		t.Errorf("Detrend() mutated its input: %v", raw)
	}
}

func TestSmoothPreservesLength(t *testing.T) {
	raw := []float64{0, 1, 0, -1, 0, 1, 0, -1, 0}
	out := Smooth(raw, 3)
	if len(out) != len(raw) {
		t.Errorf("Smooth() length = %d, want %d", len(out), len(raw))
	}
}

func TestSmoothConstantSignal(t *testing.T) {
	raw := []float64{5, 5, 5, 5, 5, 5}
	out := Smooth(raw, 3)
	for i, v := range out {
		if v != 5 {
			t.Errorf("Smooth(constant)[%d] = %v, want 5", i, v)
		}
	}
}

func TestSmoothEdgesUseTruncatedWindows(t *testing.T) {
	raw := []float64{2, 4, 6}
	out := Smooth(raw, 3)

	// First sample averages only itself and its right neighbor.
	if want := 3.0; out[0] != want {
		t.Errorf("Smooth() first edge = %v, want %v", out[0], want)
	}
	if want := 5.0; out[2] != want {
		t.Errorf("Smooth() last edge = %v, want %v", out[2], want)
	}
}

func TestSmoothRejectsEvenWindow(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Smooth() with even window did not panic")
		}
	}()
	Smooth([]float64{1, 2, 3, 4}, 4)
}

func TestPassbandWindow(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		want       int
	}{
		{"camera 30 Hz", 30, 5},
		{"microphone 100 Hz", 100, 13},
		{"slow accelerometer 10 Hz", 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PassbandWindow(tt.sampleRate)
			if got != tt.want {
				t.Errorf("PassbandWindow(%v) = %d, want %d", tt.sampleRate, got, tt.want)
			}
			if got%2 == 0 {
				t.Errorf("PassbandWindow(%v) = %d, want odd", tt.sampleRate, got)
			}
		})
	}
}

func TestBandpassIdempotentAcrossCalls(t *testing.T) {
	raw := make([]float64, 120)
	for i := range raw {
		raw[i] = 100 + 10*math.Sin(2*math.Pi*1.2*float64(i)/30)
	}

	first := Bandpass(raw, 30)
	second := Bandpass(raw, 30)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Bandpass() not deterministic at index %d: %v vs %v", i, first[i], second[i])
		}
	}
}
