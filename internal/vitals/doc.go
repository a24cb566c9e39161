// Package vitals is the core engine turning a raw optical or acoustic sample
// stream into a heart-rate reading with a quality and confidence score, and
// optionally a heuristic SpO2 estimate.
//
// An AcquisitionSession owns one scan attempt: the caller pushes samples in
// order (camera frames or scalar amplitudes), polls the latest coupling
// snapshot for live guidance, and finalizes to run the batch pipeline
// (detrend, smooth, peak detection, interval validation, estimation). The
// engine performs no I/O, keeps no state across sessions, and never retries;
// every failed scan comes back as one of the typed sentinel errors so the
// caller can show a specific remediation message and decide whether to start
// a fresh session.
//
// Readings outside the physiological range are failures, never clamped: a
// silently bounded value would look plausible while measuring nothing.
package vitals
