package config

import (
	"errors"
	"fmt"

	"vitalscan/internal/vitals"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if !vitals.Method(c.Scan.Method).Valid() {
		return fmt.Errorf("scan.method %q is not one of camera, microphone, accelerometer", c.Scan.Method)
	}
	if c.Scan.SampleRate < 1 || c.Scan.SampleRate > 1000 {
		return fmt.Errorf("scan.sample_rate %v outside [1, 1000] Hz", c.Scan.SampleRate)
	}
	if c.Scan.DurationSeconds < c.Engine.MinSessionSeconds {
		return fmt.Errorf("scan.duration_seconds %v below engine.min_session_seconds %v",
			c.Scan.DurationSeconds, c.Engine.MinSessionSeconds)
	}
	return nil
}

// validateEngine delegates to the tuning's own validation so the config file
// and programmatic construction enforce identical constraints.
func (c *Config) validateEngine() error {
	if err := c.EngineTuning().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of console, json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
}
