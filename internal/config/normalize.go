package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeScan()
	c.normalizeEngine()
	if err := c.normalizeRecordings(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeScan() {
	c.Scan.Method = strings.ToLower(strings.TrimSpace(c.Scan.Method))
	if c.Scan.Method == "" {
		c.Scan.Method = defaultScanMethod
	}
	if c.Scan.SampleRate == 0 {
		c.Scan.SampleRate = defaultScanSampleRate
	}
	if c.Scan.DurationSeconds == 0 {
		c.Scan.DurationSeconds = defaultScanDurationSeconds
	}
}

// normalizeEngine fills unset (exactly zero) thresholds with the built-in
// defaults so a config file only needs to name the values it changes.
// Negative values are left in place for Validate to reject.
func (c *Config) normalizeEngine() {
	defaults := Default()
	if c.Engine.MinSessionSeconds == 0 {
		c.Engine.MinSessionSeconds = defaults.Engine.MinSessionSeconds
	}
	if c.Engine.MinIntervals == 0 {
		c.Engine.MinIntervals = defaults.Engine.MinIntervals
	}
	if c.Engine.MinValidIntervals == 0 {
		c.Engine.MinValidIntervals = defaults.Engine.MinValidIntervals
	}
	if c.Engine.PeakThresholdStdDevs == 0 {
		c.Engine.PeakThresholdStdDevs = defaults.Engine.PeakThresholdStdDevs
	}
	if c.Engine.OutlierTolerance == 0 {
		c.Engine.OutlierTolerance = defaults.Engine.OutlierTolerance
	}
	if c.Engine.MinBPM == 0 {
		c.Engine.MinBPM = defaults.Engine.MinBPM
	}
	if c.Engine.MaxBPM == 0 {
		c.Engine.MaxBPM = defaults.Engine.MaxBPM
	}
	if c.Engine.ConsistencyWeight == 0 && c.Engine.CouplingWeight == 0 && c.Engine.YieldWeight == 0 {
		c.Engine.ConsistencyWeight = defaults.Engine.ConsistencyWeight
		c.Engine.CouplingWeight = defaults.Engine.CouplingWeight
		c.Engine.YieldWeight = defaults.Engine.YieldWeight
	}
	if c.Engine.ConfidenceCap == 0 {
		c.Engine.ConfidenceCap = defaults.Engine.ConfidenceCap
	}
	if c.Engine.FullConfidenceIntervals == 0 {
		c.Engine.FullConfidenceIntervals = defaults.Engine.FullConfidenceIntervals
	}
	if c.Engine.SpO2Baseline == 0 {
		c.Engine.SpO2Baseline = defaults.Engine.SpO2Baseline
	}
	if c.Engine.SpO2Scale == 0 {
		c.Engine.SpO2Scale = defaults.Engine.SpO2Scale
	}
	if c.Engine.SpO2Floor == 0 {
		c.Engine.SpO2Floor = defaults.Engine.SpO2Floor
	}
	if c.Engine.SpO2Ceiling == 0 {
		c.Engine.SpO2Ceiling = defaults.Engine.SpO2Ceiling
	}
	if c.Contact.BrightnessMin == 0 && c.Contact.BrightnessMax == 0 {
		c.Contact = Default().Contact
	}
}

func (c *Config) normalizeRecordings() error {
	var err error
	if strings.TrimSpace(c.Recordings.Dir) == "" {
		c.Recordings.Dir = defaultRecordingsDir()
	}
	if c.Recordings.Dir, err = expandPath(c.Recordings.Dir); err != nil {
		return fmt.Errorf("recordings.dir: %w", err)
	}
	if c.Recordings.MaxKeep <= 0 {
		c.Recordings.MaxKeep = defaultRecordingsMaxKeep
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.File != "" {
		var err error
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}
