package config

import (
	"os"
	"path/filepath"
	"strings"

	"vitalscan/internal/contact"
	"vitalscan/internal/vitals"
)

const (
	defaultScanMethod          = "camera"
	defaultScanSampleRate      = 30
	defaultScanDurationSeconds = 15
	defaultRecordingsMaxKeep   = 50
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

func defaultRecordingsDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "vitalscan", "recordings")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/vitalscan/recordings"
	}
	return filepath.Join(home, ".local", "share", "vitalscan", "recordings")
}

// Default returns a Config populated with the engine's built-in tuning.
func Default() Config {
	engine := vitals.DefaultTuning()
	gate := contact.DefaultTuning()
	return Config{
		Scan: Scan{
			Method:          defaultScanMethod,
			SampleRate:      defaultScanSampleRate,
			DurationSeconds: defaultScanDurationSeconds,
		},
		Engine: Engine{
			MinSessionSeconds:       engine.MinSessionSeconds,
			MinIntervals:            engine.MinIntervals,
			MinValidIntervals:       engine.MinValidIntervals,
			PeakThresholdStdDevs:    engine.PeakThresholdStdDevs,
			OutlierTolerance:        engine.OutlierTolerance,
			MinBPM:                  engine.MinBPM,
			MaxBPM:                  engine.MaxBPM,
			ConsistencyWeight:       engine.ConsistencyWeight,
			CouplingWeight:          engine.CouplingWeight,
			YieldWeight:             engine.YieldWeight,
			ConfidenceCap:           engine.ConfidenceCap,
			FullConfidenceIntervals: engine.FullConfidenceIntervals,
			SpO2Baseline:            engine.SpO2Baseline,
			SpO2Scale:               engine.SpO2Scale,
			SpO2Floor:               engine.SpO2Floor,
			SpO2Ceiling:             engine.SpO2Ceiling,
		},
		Contact: Contact{
			BrightnessMin:       gate.BrightnessMin,
			BrightnessMax:       gate.BrightnessMax,
			BrightnessIdeal:     gate.BrightnessIdeal,
			RedDominanceMin:     gate.RedDominanceMin,
			RedDominanceCeiling: gate.RedDominanceCeiling,
			SaturationFloor:     gate.SaturationFloor,
			StabilityTolerance:  gate.StabilityTolerance,
			AmplitudeFloor:      gate.AmplitudeFloor,
			AmplitudeCeiling:    gate.AmplitudeCeiling,
			GraceWindow:         gate.GraceWindow,
		},
		Recordings: Recordings{
			Dir:     defaultRecordingsDir(),
			MaxKeep: defaultRecordingsMaxKeep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
