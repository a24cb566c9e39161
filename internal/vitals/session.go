package vitals

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"vitalscan/internal/contact"
	"vitalscan/internal/dsp"
)

// Session owns one scan attempt: a bounded append-only sample buffer, the
// coupling gate's rolling state, and the parameters needed to turn the
// buffer into a Reading. A session has exactly one writer; concurrent
// acquisition attempts (camera plus microphone fallback) get independent
// sessions, coordinated by the caller.
type Session struct {
	id         uuid.UUID
	method     Method
	sampleRate float64
	target     time.Duration
	startedAt  time.Time
	tuning     Tuning
	gate       *contact.Gate

	samples []float64

	// estimationStart is the buffer index where the positioning grace
	// period ended; samples before it are buffered but never estimated.
	estimationStart int
	positioning     bool

	qualitySum   int64
	qualityCount int64

	lastStamp time.Time
	stamped   bool
	seq       uint64
}

// NewSession starts a scan attempt. sampleRate and targetDuration bound the
// buffer (capacity = rate x duration). Invalid arguments are contract
// violations and panic.
func NewSession(method Method, sampleRate float64, targetDuration time.Duration, tuning Tuning) *Session {
	if !method.Valid() {
		panic(fmt.Sprintf("vitals: unknown method %q", method))
	}
	if sampleRate <= 0 {
		panic("vitals: non-positive sample rate")
	}
	if targetDuration <= 0 {
		panic("vitals: non-positive target duration")
	}
	if err := tuning.Validate(); err != nil {
		panic(err)
	}
	capacity := int(math.Ceil(sampleRate * targetDuration.Seconds()))
	return &Session{
		id:          uuid.New(),
		method:      method,
		sampleRate:  sampleRate,
		target:      targetDuration,
		startedAt:   time.Now(),
		tuning:      tuning,
		gate:        contact.NewGate(tuning.Contact),
		samples:     make([]float64, 0, capacity),
		positioning: true,
	}
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Method() Method { return s.method }

func (s *Session) SampleRate() float64 { return s.sampleRate }

func (s *Session) Target() time.Duration { return s.target }

func (s *Session) StartedAt() time.Time { return s.startedAt }

func (s *Session) SampleCount() int { return len(s.samples) }

// Full reports whether the buffer reached its target capacity.
func (s *Session) Full() bool { return len(s.samples) == cap(s.samples) }

// Positioning reports whether the session is still waiting for stable sensor
// contact. Samples pushed during positioning are buffered but excluded from
// estimation.
func (s *Session) Positioning() bool { return s.positioning }

// Snapshot returns the latest coupling verdict for live UI feedback.
func (s *Session) Snapshot() contact.Snapshot { return s.gate.Latest() }

// PushFrame appends one camera frame. The green channel carries the pulse
// waveform (best blood-absorption contrast on commodity sensors); the full
// frame feeds the contact gate. Panics if the session method is not camera
// or the timestamp does not advance.
func (s *Session) PushFrame(frame contact.Frame, at time.Time) {
	if s.method != MethodCamera {
		panic(fmt.Sprintf("vitals: PushFrame on %s session", s.method))
	}
	snap := s.gate.EvaluateFrame(frame)
	s.push(frame.G, snap, at)
}

// Push appends one scalar sample (audio RMS tick or accelerometer
// magnitude). Panics if the session method is camera or the timestamp does
// not advance.
func (s *Session) Push(value float64, at time.Time) {
	if s.method == MethodCamera {
		panic("vitals: Push on camera session; use PushFrame")
	}
	snap := s.gate.EvaluateAmplitude(value)
	s.push(value, snap, at)
}

func (s *Session) push(value float64, snap contact.Snapshot, at time.Time) {
	if s.stamped && !at.After(s.lastStamp) {
		panic(fmt.Sprintf("vitals: sample %d timestamp regression", s.seq))
	}
	s.lastStamp = at
	s.stamped = true
	s.seq++

	if s.Full() {
		// Target duration reached; the scan is complete and further pushes
		// cannot improve it.
		return
	}
	s.samples = append(s.samples, value)

	if s.positioning {
		if s.gate.Positioning() {
			s.estimationStart = len(s.samples)
			return
		}
		s.positioning = false
	}
	s.qualitySum += int64(snap.CouplingQuality)
	s.qualityCount++
}

// Finalize runs the batch pipeline over the buffered samples and returns the
// reading, or a typed error describing why the scan attempt failed. It is a
// pure function of the buffer: calling it again yields the same result.
func (s *Session) Finalize() (*Reading, error) {
	effective := s.samples[s.estimationStart:]

	minSamples := int(math.Ceil(s.tuning.MinSessionSeconds * s.sampleRate))
	if len(effective) < minSamples {
		return nil, Wrap(ErrInsufficientSamples, "finalize", "length gate",
			fmt.Sprintf("%d usable samples, need %d", len(effective), minSamples), nil)
	}

	filtered := dsp.Bandpass(effective, s.sampleRate)
	peaks := dsp.FindPeaks(filtered, s.tuning.PeakThresholdStdDevs, dsp.RefractorySamples(s.sampleRate))

	valid, rawCount, err := s.ValidateIntervals(peaks)
	if err != nil {
		return nil, err
	}

	coupling := 0.0
	if s.qualityCount > 0 {
		coupling = float64(s.qualitySum) / float64(s.qualityCount)
	}

	bpm, confidence, err := Estimate(valid, rawCount, s.sampleRate, coupling, s.tuning)
	if err != nil {
		return nil, err
	}

	reading := &Reading{
		HeartRateBPM:  bpm,
		ConfidencePct: confidence,
		Quality:       QualityForConfidence(confidence),
		Method:        s.method,
		SampleCount:   uint32(len(s.samples)),
		ProducedAt:    time.Now(),
	}
	if s.method == MethodCamera {
		spo2 := EstimateSpO2(effective, s.tuning)
		reading.SpO2Pct = &spo2
	}
	return reading, nil
}

// ValidateIntervals converts peak indices to beat intervals, rejects the
// attempt when too few exist, and strips outlier intervals around the
// median. It returns the surviving intervals and the pre-filter count.
func (s *Session) ValidateIntervals(peaks []int) ([]int, int, error) {
	raw := dsp.Intervals(peaks)
	if len(raw) < s.tuning.MinIntervals {
		return nil, 0, Wrap(ErrInsufficientBeats, "validate", "interval count",
			fmt.Sprintf("%d intervals, need %d", len(raw), s.tuning.MinIntervals), nil)
	}
	valid := dsp.FilterOutliers(raw, s.tuning.OutlierTolerance)
	if len(valid) < s.tuning.MinValidIntervals {
		return nil, 0, Wrap(ErrIrregularRhythm, "validate", "outlier filter",
			fmt.Sprintf("%d of %d intervals within tolerance, need %d", len(valid), len(raw), s.tuning.MinValidIntervals), nil)
	}
	return valid, len(raw), nil
}
