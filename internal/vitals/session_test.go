package vitals_test

import (
	"errors"
	"testing"
	"time"

	"vitalscan/internal/contact"
	"vitalscan/internal/simulate"
	"vitalscan/internal/vitals"
)

func cameraSession(t *testing.T, target time.Duration) *vitals.Session {
	t.Helper()
	return vitals.NewSession(vitals.MethodCamera, 30, target, vitals.DefaultTuning())
}

func scanPulse(t *testing.T, method vitals.Method, opts simulate.PulseOptions) (*vitals.Reading, error) {
	t.Helper()
	session := vitals.NewSession(method, opts.SampleRate, opts.Duration, vitals.DefaultTuning())
	simulate.Drive(session, simulate.PulseTrain(opts))
	return session.Finalize()
}

func TestRoundTripKnownSignal(t *testing.T) {
	// 72 BPM at 30 Hz for 10 seconds: the estimate must land within a few
	// BPM with a usable quality label.
	reading, err := scanPulse(t, vitals.MethodCamera, simulate.DefaultPulseOptions())
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if reading.HeartRateBPM < 68 || reading.HeartRateBPM > 76 {
		t.Errorf("HeartRateBPM = %d, want within [68, 76]", reading.HeartRateBPM)
	}
	if reading.Quality != vitals.QualityGood && reading.Quality != vitals.QualityExcellent {
		t.Errorf("Quality = %q, want good or excellent", reading.Quality)
	}
	if reading.Method != vitals.MethodCamera {
		t.Errorf("Method = %q, want camera", reading.Method)
	}
	if reading.SpO2Pct == nil {
		t.Fatal("SpO2Pct = nil, want camera-method estimate")
	}
	if *reading.SpO2Pct < 85 || *reading.SpO2Pct > 100 {
		t.Errorf("SpO2Pct = %d, want within [85, 100]", *reading.SpO2Pct)
	}
}

func TestRangeInvariant(t *testing.T) {
	rates := []float64{55, 72, 96, 140}
	for _, bpm := range rates {
		opts := simulate.DefaultPulseOptions()
		opts.BPM = bpm
		reading, err := scanPulse(t, vitals.MethodCamera, opts)
		if err != nil {
			t.Fatalf("Finalize(%v BPM) error = %v", bpm, err)
		}
		if reading.HeartRateBPM < 30 || reading.HeartRateBPM > 220 {
			t.Errorf("HeartRateBPM = %d outside [30, 220]", reading.HeartRateBPM)
		}
		if reading.ConfidencePct < 0 || reading.ConfidencePct > 99 {
			t.Errorf("ConfidencePct = %d outside [0, 99]", reading.ConfidencePct)
		}
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	session := cameraSession(t, 10*time.Second)
	simulate.Drive(session, simulate.PulseTrain(simulate.DefaultPulseOptions()))

	first, err := session.Finalize()
	if err != nil {
		t.Fatalf("first Finalize() error = %v", err)
	}
	second, err := session.Finalize()
	if err != nil {
		t.Fatalf("second Finalize() error = %v", err)
	}

	if first.HeartRateBPM != second.HeartRateBPM ||
		first.ConfidencePct != second.ConfidencePct ||
		first.Quality != second.Quality ||
		first.SampleCount != second.SampleCount {
		t.Errorf("Finalize() not idempotent: %+v vs %+v", first, second)
	}
}

func TestConstantSignalRejected(t *testing.T) {
	session := vitals.NewSession(vitals.MethodMicrophone, 30, 10*time.Second, vitals.DefaultTuning())
	base := session.StartedAt()
	for i := 0; i < 300; i++ {
		session.Push(0.2, base.Add(time.Duration(i+1)*33*time.Millisecond))
	}

	_, err := session.Finalize()
	if !errors.Is(err, vitals.ErrInsufficientBeats) {
		t.Errorf("Finalize(constant) error = %v, want ErrInsufficientBeats", err)
	}
}

func TestEarlyCancellationRejected(t *testing.T) {
	session := cameraSession(t, 10*time.Second)
	opts := simulate.DefaultPulseOptions()
	opts.Duration = 2 * time.Second
	simulate.Drive(session, simulate.PulseTrain(opts))

	_, err := session.Finalize()
	if !errors.Is(err, vitals.ErrInsufficientSamples) {
		t.Errorf("Finalize(short) error = %v, want ErrInsufficientSamples", err)
	}
}

func TestMissedBeatOutlierFiltered(t *testing.T) {
	opts := simulate.DefaultPulseOptions()
	opts.Duration = 12 * time.Second
	opts.MissedBeats = []int{6}

	reading, err := scanPulse(t, vitals.MethodCamera, opts)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if reading.HeartRateBPM < 67 || reading.HeartRateBPM > 77 {
		t.Errorf("HeartRateBPM with missed beat = %d, want within 5 of 72", reading.HeartRateBPM)
	}
}

func TestMonotoneConfidenceUnderNoise(t *testing.T) {
	// Re-scan the same clean signal with increasing gaussian noise; reported
	// confidence must not increase. A scan too noisy to produce a reading
	// counts as zero confidence.
	levels := []float64{0, 2, 4, 6}
	prev := 100
	for _, noise := range levels {
		opts := simulate.DefaultPulseOptions()
		opts.NoiseStdDev = noise
		opts.Seed = 7

		confidence := 0
		if reading, err := scanPulse(t, vitals.MethodCamera, opts); err == nil {
			confidence = reading.ConfidencePct
		}
		if confidence > prev {
			t.Fatalf("confidence rose from %d to %d at noise level %v", prev, confidence, noise)
		}
		prev = confidence
	}
}

func TestMinimumBeatBoundary(t *testing.T) {
	// Exactly the minimum interval count still yields a reading, but a short
	// scan may never report the confidence of a long one.
	short := simulate.DefaultPulseOptions()
	short.BPM = 50
	short.Duration = 6 * time.Second

	shortReading, err := scanPulse(t, vitals.MethodCamera, short)
	if err != nil {
		t.Fatalf("Finalize(minimum beats) error = %v", err)
	}

	long := simulate.DefaultPulseOptions()
	long.Duration = 17 * time.Second

	longReading, err := scanPulse(t, vitals.MethodCamera, long)
	if err != nil {
		t.Fatalf("Finalize(long scan) error = %v", err)
	}

	if shortReading.ConfidencePct >= 50 {
		t.Errorf("minimum-beat confidence = %d, want lower half of scale", shortReading.ConfidencePct)
	}
	if shortReading.ConfidencePct >= longReading.ConfidencePct {
		t.Errorf("minimum-beat confidence %d not below long-scan confidence %d",
			shortReading.ConfidencePct, longReading.ConfidencePct)
	}
}

func TestMicrophoneScan(t *testing.T) {
	opts := simulate.DefaultPulseOptions()
	opts.Baseline = 0.1
	opts.Amplitude = 0.3
	opts.WanderAmplitude = 0.01

	reading, err := scanPulse(t, vitals.MethodMicrophone, opts)
	if err != nil {
		t.Fatalf("Finalize(microphone) error = %v", err)
	}
	if reading.HeartRateBPM < 68 || reading.HeartRateBPM > 76 {
		t.Errorf("HeartRateBPM = %d, want within [68, 76]", reading.HeartRateBPM)
	}
	if reading.SpO2Pct != nil {
		t.Error("SpO2Pct set for microphone scan, want camera only")
	}
}

func TestPositioningExcludedFromEstimation(t *testing.T) {
	session := cameraSession(t, 15*time.Second)
	base := session.StartedAt()

	// Five seconds of uncovered lens, then a clean scan.
	for i := 0; i < 150; i++ {
		session.PushFrame(contact.Frame{R: 250, G: 250, B: 250}, base.Add(time.Duration(i+1)*33*time.Millisecond))
	}
	if !session.Positioning() {
		t.Fatal("Positioning() = false with uncovered lens")
	}

	samples := simulate.PulseTrain(simulate.DefaultPulseOptions())
	for i, sample := range samples {
		at := base.Add(time.Duration(151+i) * 33 * time.Millisecond)
		session.PushFrame(simulate.CameraFrame(sample), at)
	}
	if session.Positioning() {
		t.Error("Positioning() = true after sustained contact")
	}

	reading, err := session.Finalize()
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if reading.HeartRateBPM < 68 || reading.HeartRateBPM > 76 {
		t.Errorf("HeartRateBPM = %d, want within [68, 76]", reading.HeartRateBPM)
	}
}

func TestPushContractViolationsPanic(t *testing.T) {
	t.Run("push on camera session", func(t *testing.T) {
		session := cameraSession(t, 10*time.Second)
		defer func() {
			if recover() == nil {
				t.Error("Push() on camera session did not panic")
			}
		}()
		session.Push(1, time.Now())
	})

	t.Run("frame on microphone session", func(t *testing.T) {
		session := vitals.NewSession(vitals.MethodMicrophone, 30, 10*time.Second, vitals.DefaultTuning())
		defer func() {
			if recover() == nil {
				t.Error("PushFrame() on microphone session did not panic")
			}
		}()
		session.PushFrame(contact.Frame{}, time.Now())
	})

	t.Run("timestamp regression", func(t *testing.T) {
		session := vitals.NewSession(vitals.MethodMicrophone, 30, 10*time.Second, vitals.DefaultTuning())
		at := time.Now()
		session.Push(0.1, at)
		defer func() {
			if recover() == nil {
				t.Error("Push() with stale timestamp did not panic")
			}
		}()
		session.Push(0.1, at)
	})
}

func TestNewSessionContractViolationsPanic(t *testing.T) {
	tests := []struct {
		name string
		call func()
	}{
		{"unknown method", func() {
			vitals.NewSession(vitals.Method("thermometer"), 30, time.Second, vitals.DefaultTuning())
		}},
		{"zero sample rate", func() {
			vitals.NewSession(vitals.MethodCamera, 0, time.Second, vitals.DefaultTuning())
		}},
		{"zero duration", func() {
			vitals.NewSession(vitals.MethodCamera, 30, 0, vitals.DefaultTuning())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("NewSession() did not panic")
				}
			}()
			tt.call()
		})
	}
}

func TestBufferBounded(t *testing.T) {
	session := vitals.NewSession(vitals.MethodMicrophone, 30, time.Second, vitals.DefaultTuning())
	base := session.StartedAt()
	for i := 0; i < 90; i++ {
		session.Push(0.1, base.Add(time.Duration(i+1)*33*time.Millisecond))
	}
	if got := session.SampleCount(); got != 30 {
		t.Errorf("SampleCount() = %d, want capped at 30", got)
	}
	if !session.Full() {
		t.Error("Full() = false after exceeding target")
	}
}
