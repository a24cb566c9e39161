// Package simulate generates synthetic pulse-train sample streams for demos,
// calibration, and tests. It stands in for real camera or microphone capture
// when hardware is unavailable and is always an explicit, separately wired
// collaborator: the engine never substitutes simulated data on its own.
//
// Generation is deterministic for a given seed, so recorded expectations in
// tests stay stable across platforms.
package simulate
