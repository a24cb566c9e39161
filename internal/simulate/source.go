package simulate

import (
	"time"

	"vitalscan/internal/contact"
	"vitalscan/internal/vitals"
)

// CameraFrame maps a scalar pulse sample onto a plausible perfused-tissue
// RGB frame: strong red dominance with the pulse waveform riding on the
// green channel, where blood absorption contrast is highest.
func CameraFrame(sample float64) contact.Frame {
	return contact.Frame{
		R: 1.9 * sample,
		G: sample,
		B: 0.9 * sample,
	}
}

// Drive pushes a rendered sample slice into a session with synthetic
// timestamps advancing at the session's sample rate, converting scalars to
// camera frames when the session method requires them.
func Drive(session *vitals.Session, samples []float64) {
	base := session.StartedAt()
	step := time.Duration(float64(time.Second) / session.SampleRate())
	for i, sample := range samples {
		at := base.Add(time.Duration(i+1) * step)
		if session.Method() == vitals.MethodCamera {
			session.PushFrame(CameraFrame(sample), at)
		} else {
			session.Push(sample, at)
		}
	}
}
