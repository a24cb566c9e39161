package contact

import (
	"fmt"
	"math"
)

// Frame carries the per-frame mean of each camera color channel, 0-255.
type Frame struct {
	R float64
	G float64
	B float64
}

// Hint tells the caller what to show the user while a scan is in progress.
type Hint string

const (
	// HintOK means the sensor is coupled and steady.
	HintOK Hint = "ok"
	// HintCoverLens means no contact was detected; the sensor needs
	// repositioning (finger fully over the lens, mic against skin).
	HintCoverLens Hint = "cover_lens"
	// HintHoldSteady means contact exists but the signal is moving too much.
	HintHoldSteady Hint = "hold_steady"
)

// Snapshot is the gate's verdict for one incoming sample.
type Snapshot struct {
	CouplingQuality int
	FrameIndex      uint64
	Contact         bool
	Hint            Hint
}

// Tuning holds the gate's empirically chosen thresholds.
type Tuning struct {
	// Brightness band (0-255 channel mean) a finger-occluded lens lands in.
	// Below the band the lens is uncovered or in the dark; above it the
	// frame is saturated by direct light.
	BrightnessMin   float64
	BrightnessMax   float64
	BrightnessIdeal float64

	// RedDominanceMin is the minimum R/((G+B)/2) ratio for perfused tissue.
	// RedDominanceCeiling caps the ratio's contribution to the score.
	RedDominanceMin     float64
	RedDominanceCeiling float64

	// SaturationFloor is the minimum channel spread (max-min) that separates
	// a colored tissue frame from gray sensor noise.
	SaturationFloor float64

	// StabilityTolerance is the brightness deviation from the trailing
	// baseline, as a fraction of BrightnessIdeal, beyond which the stability
	// term reaches zero.
	StabilityTolerance float64

	// RMS amplitude band for microphone and accelerometer sources.
	AmplitudeFloor   float64
	AmplitudeCeiling float64

	// GraceWindow is the number of trailing snapshots consulted for the
	// positioning verdict, roughly one second of samples.
	GraceWindow int
}

// DefaultTuning returns the gate thresholds used when no configuration
// overrides them.
func DefaultTuning() Tuning {
	return Tuning{
		BrightnessMin:       40,
		BrightnessMax:       230,
		BrightnessIdeal:     150,
		RedDominanceMin:     1.15,
		RedDominanceCeiling: 3.0,
		SaturationFloor:     10,
		StabilityTolerance:  0.25,
		AmplitudeFloor:      0.02,
		AmplitudeCeiling:    0.35,
		GraceWindow:         30,
	}
}

// Validate checks tuning for internal consistency.
func (t Tuning) Validate() error {
	if t.BrightnessMin >= t.BrightnessMax {
		return fmt.Errorf("contact: brightness band inverted (%v >= %v)", t.BrightnessMin, t.BrightnessMax)
	}
	if t.BrightnessIdeal <= t.BrightnessMin || t.BrightnessIdeal >= t.BrightnessMax {
		return fmt.Errorf("contact: ideal brightness %v outside band", t.BrightnessIdeal)
	}
	if t.RedDominanceCeiling <= t.RedDominanceMin {
		return fmt.Errorf("contact: red dominance ceiling %v below minimum %v", t.RedDominanceCeiling, t.RedDominanceMin)
	}
	if t.AmplitudeCeiling <= t.AmplitudeFloor {
		return fmt.Errorf("contact: amplitude ceiling %v below floor %v", t.AmplitudeCeiling, t.AmplitudeFloor)
	}
	if t.StabilityTolerance <= 0 || t.StabilityTolerance > 1 {
		return fmt.Errorf("contact: stability tolerance %v outside (0, 1]", t.StabilityTolerance)
	}
	if t.GraceWindow < 1 {
		return fmt.Errorf("contact: grace window must be positive, got %d", t.GraceWindow)
	}
	return nil
}

// Score weights. Brightness placement matters most, perfusion color next,
// frame-to-frame stability least.
const (
	weightBrightness = 0.40
	weightRed        = 0.35
	weightStability  = 0.25

	// Quality ceiling reported while contact is absent, so a bare lens
	// never looks like a usable signal.
	noContactQualityCap = 25

	// rmsWindow is the number of trailing samples in the amplitude RMS.
	rmsWindow = 8
)

// Gate evaluates coupling quality one sample at a time. It keeps only a
// trailing brightness baseline, a small RMS window, and the recent snapshots
// needed for the positioning verdict.
type Gate struct {
	tuning   Tuning
	baseline float64
	primed   bool

	squares []float64
	sqIndex int

	recent []Snapshot
	index  uint64
}

// NewGate returns a gate with the given tuning. Tuning must have been
// validated; NewGate panics on inconsistent thresholds.
func NewGate(tuning Tuning) *Gate {
	if err := tuning.Validate(); err != nil {
		panic(err)
	}
	return &Gate{
		tuning:  tuning,
		squares: make([]float64, 0, rmsWindow),
		recent:  make([]Snapshot, 0, tuning.GraceWindow),
	}
}

// EvaluateFrame scores a camera frame and records the snapshot.
func (g *Gate) EvaluateFrame(frame Frame) Snapshot {
	t := g.tuning
	brightness := (frame.R + frame.G + frame.B) / 3

	ratio := redDominance(frame)
	saturation := channelSpread(frame)

	inBand := brightness > t.BrightnessMin && brightness < t.BrightnessMax
	contact := inBand && ratio >= t.RedDominanceMin && saturation >= t.SaturationFloor

	halfBand := math.Min(t.BrightnessIdeal-t.BrightnessMin, t.BrightnessMax-t.BrightnessIdeal)
	brightnessTerm := clampUnit(1 - math.Abs(brightness-t.BrightnessIdeal)/halfBand)

	redTerm := clampUnit((math.Min(ratio, t.RedDominanceCeiling) - 1) / (t.RedDominanceCeiling - 1))

	stabilityTerm := 1.0
	if g.primed {
		drift := math.Abs(brightness - g.baseline)
		stabilityTerm = clampUnit(1 - drift/(t.StabilityTolerance*t.BrightnessIdeal))
	}

	quality := int(math.Round(100 * (weightBrightness*brightnessTerm + weightRed*redTerm + weightStability*stabilityTerm)))
	if !contact && quality > noContactQualityCap {
		quality = noContactQualityCap
	}

	g.updateBaseline(brightness)
	return g.record(quality, contact, hintFor(contact, stabilityTerm))
}

// EvaluateAmplitude scores a microphone or accelerometer sample by windowed
// RMS amplitude and records the snapshot.
func (g *Gate) EvaluateAmplitude(value float64) Snapshot {
	t := g.tuning

	if len(g.squares) < rmsWindow {
		g.squares = append(g.squares, value*value)
	} else {
		g.squares[g.sqIndex] = value * value
		g.sqIndex = (g.sqIndex + 1) % rmsWindow
	}
	sum := 0.0
	for _, sq := range g.squares {
		sum += sq
	}
	rms := math.Sqrt(sum / float64(len(g.squares)))

	contact := rms >= t.AmplitudeFloor
	quality := int(math.Round(100 * clampUnit((rms-t.AmplitudeFloor)/(t.AmplitudeCeiling-t.AmplitudeFloor))))
	if !contact && quality > noContactQualityCap {
		quality = noContactQualityCap
	}

	stabilityTerm := 1.0
	if g.primed {
		drift := math.Abs(rms - g.baseline)
		stabilityTerm = clampUnit(1 - drift/math.Max(g.baseline, t.AmplitudeFloor))
	}
	g.updateBaseline(rms)
	return g.record(quality, contact, hintFor(contact, stabilityTerm))
}

// Latest returns the most recent snapshot, or a zero snapshot before any
// sample has been evaluated.
func (g *Gate) Latest() Snapshot {
	if len(g.recent) == 0 {
		return Snapshot{Hint: HintCoverLens}
	}
	return g.recent[len(g.recent)-1]
}

// Positioning reports whether the sensor still needs repositioning: true
// until a majority of the trailing grace window shows contact.
func (g *Gate) Positioning() bool {
	if len(g.recent) == 0 {
		return true
	}
	contact := 0
	for _, snap := range g.recent {
		if snap.Contact {
			contact++
		}
	}
	return contact*2 <= len(g.recent)
}

func (g *Gate) record(quality int, contact bool, hint Hint) Snapshot {
	snap := Snapshot{
		CouplingQuality: quality,
		FrameIndex:      g.index,
		Contact:         contact,
		Hint:            hint,
	}
	g.index++
	if len(g.recent) == cap(g.recent) && len(g.recent) > 0 {
		copy(g.recent, g.recent[1:])
		g.recent = g.recent[:len(g.recent)-1]
	}
	g.recent = append(g.recent, snap)
	return snap
}

func (g *Gate) updateBaseline(value float64) {
	if !g.primed {
		g.baseline = value
		g.primed = true
		return
	}
	// Exponential trailing baseline; slow enough to treat pulse-rate
	// variation as signal, fast enough to track lighting changes.
	g.baseline = 0.8*g.baseline + 0.2*value
}

func hintFor(contact bool, stabilityTerm float64) Hint {
	switch {
	case !contact:
		return HintCoverLens
	case stabilityTerm < 0.5:
		return HintHoldSteady
	default:
		return HintOK
	}
}

func redDominance(frame Frame) float64 {
	other := (frame.G + frame.B) / 2
	if other <= 0 {
		return 0
	}
	return frame.R / other
}

func channelSpread(frame Frame) float64 {
	max := math.Max(frame.R, math.Max(frame.G, frame.B))
	min := math.Min(frame.R, math.Min(frame.G, frame.B))
	return max - min
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
