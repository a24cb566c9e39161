package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"vitalscan/internal/contact"
	"vitalscan/internal/vitals"
)

//go:embed sample_config.toml
var sampleConfig string

// Scan contains acquisition defaults applied when the CLI flags leave them
// unset.
type Scan struct {
	Method          string  `toml:"method"`
	SampleRate      float64 `toml:"sample_rate"`
	DurationSeconds float64 `toml:"duration_seconds"`
}

// Engine contains the estimation pipeline thresholds. Zero values mean
// "use the built-in default"; Load fills them in before validation.
type Engine struct {
	MinSessionSeconds       float64 `toml:"min_session_seconds"`
	MinIntervals            int     `toml:"min_intervals"`
	MinValidIntervals       int     `toml:"min_valid_intervals"`
	PeakThresholdStdDevs    float64 `toml:"peak_threshold_stddevs"`
	OutlierTolerance        float64 `toml:"outlier_tolerance"`
	MinBPM                  int     `toml:"min_bpm"`
	MaxBPM                  int     `toml:"max_bpm"`
	ConsistencyWeight       float64 `toml:"consistency_weight"`
	CouplingWeight          float64 `toml:"coupling_weight"`
	YieldWeight             float64 `toml:"yield_weight"`
	ConfidenceCap           int     `toml:"confidence_cap"`
	FullConfidenceIntervals int     `toml:"full_confidence_intervals"`
	SpO2Baseline            float64 `toml:"spo2_baseline"`
	SpO2Scale               float64 `toml:"spo2_scale"`
	SpO2Floor               float64 `toml:"spo2_floor"`
	SpO2Ceiling             float64 `toml:"spo2_ceiling"`
}

// Contact contains the sensor-coupling gate thresholds.
type Contact struct {
	BrightnessMin       float64 `toml:"brightness_min"`
	BrightnessMax       float64 `toml:"brightness_max"`
	BrightnessIdeal     float64 `toml:"brightness_ideal"`
	RedDominanceMin     float64 `toml:"red_dominance_min"`
	RedDominanceCeiling float64 `toml:"red_dominance_ceiling"`
	SaturationFloor     float64 `toml:"saturation_floor"`
	StabilityTolerance  float64 `toml:"stability_tolerance"`
	AmplitudeFloor      float64 `toml:"amplitude_floor"`
	AmplitudeCeiling    float64 `toml:"amplitude_ceiling"`
	GraceWindow         int     `toml:"grace_window"`
}

// Recordings contains configuration for the raw trace store used by the
// record and replay commands.
type Recordings struct {
	Dir     string `toml:"dir"`
	MaxKeep int    `toml:"max_keep"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values.
//
// Sections by subsystem:
//   - Scan: default acquisition method, rate, and duration
//   - Engine: estimation pipeline thresholds and confidence weights
//   - Contact: coupling-gate brightness/amplitude bands
//   - Recordings: raw trace store location and retention
//   - Logging: log format, level, and optional file
type Config struct {
	Scan       Scan       `toml:"scan"`
	Engine     Engine     `toml:"engine"`
	Contact    Contact    `toml:"contact"`
	Recordings Recordings `toml:"recordings"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vitalscan/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and defaults filled. It also reports
// the resolved path and whether a file was actually found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vitalscan.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EngineTuning materializes the engine and contact sections as the tuning
// struct the session constructor takes.
func (c *Config) EngineTuning() vitals.Tuning {
	return vitals.Tuning{
		MinSessionSeconds:       c.Engine.MinSessionSeconds,
		MinIntervals:            c.Engine.MinIntervals,
		MinValidIntervals:       c.Engine.MinValidIntervals,
		PeakThresholdStdDevs:    c.Engine.PeakThresholdStdDevs,
		OutlierTolerance:        c.Engine.OutlierTolerance,
		MinBPM:                  c.Engine.MinBPM,
		MaxBPM:                  c.Engine.MaxBPM,
		ConsistencyWeight:       c.Engine.ConsistencyWeight,
		CouplingWeight:          c.Engine.CouplingWeight,
		YieldWeight:             c.Engine.YieldWeight,
		ConfidenceCap:           c.Engine.ConfidenceCap,
		FullConfidenceIntervals: c.Engine.FullConfidenceIntervals,
		SpO2Baseline:            c.Engine.SpO2Baseline,
		SpO2Scale:               c.Engine.SpO2Scale,
		SpO2Floor:               c.Engine.SpO2Floor,
		SpO2Ceiling:             c.Engine.SpO2Ceiling,
		Contact: contact.Tuning{
			BrightnessMin:       c.Contact.BrightnessMin,
			BrightnessMax:       c.Contact.BrightnessMax,
			BrightnessIdeal:     c.Contact.BrightnessIdeal,
			RedDominanceMin:     c.Contact.RedDominanceMin,
			RedDominanceCeiling: c.Contact.RedDominanceCeiling,
			SaturationFloor:     c.Contact.SaturationFloor,
			StabilityTolerance:  c.Contact.StabilityTolerance,
			AmplitudeFloor:      c.Contact.AmplitudeFloor,
			AmplitudeCeiling:    c.Contact.AmplitudeCeiling,
			GraceWindow:         c.Contact.GraceWindow,
		},
	}
}

// ScanMethod returns the configured default acquisition method.
func (c *Config) ScanMethod() vitals.Method {
	return vitals.Method(c.Scan.Method)
}

// ScanDuration returns the configured default scan duration.
func (c *Config) ScanDuration() time.Duration {
	return time.Duration(c.Scan.DurationSeconds * float64(time.Second))
}

// EnsureDirectories creates the directories the trace store and log file
// need.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Recordings.Dir) != "" {
		if err := os.MkdirAll(c.Recordings.Dir, 0o755); err != nil {
			return fmt.Errorf("create recordings directory %q: %w", c.Recordings.Dir, err)
		}
	}
	if c.Logging.File != "" {
		if dir := filepath.Dir(c.Logging.File); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create log directory %q: %w", dir, err)
			}
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
